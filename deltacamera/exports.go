package deltacamera

import "reflect"

// All is the export list: every public name of the package except All,
// Exports and Version. Packages that forward deltacamera under another name
// bind exactly these names.
var All = []string{
	"Camera",
	"Distortion",
	"Point2",
	"Option",
	"NewCamera",
	"NewIntrinsics",
	"WithIntrinsics",
	"WithRotation",
	"WithOpticalCenter",
	"WithDistortion",
	"WithWorldUp",
	"Distort",
	"Undistort",
	"ErrInvalidCamera",
	"DefaultUndistortIterations",
}

// Exports binds every name in All to its object. Types are reported as
// reflect.Type.
func Exports() map[string]any {
	return map[string]any{
		"Camera":                     reflect.TypeFor[Camera](),
		"Distortion":                 reflect.TypeFor[Distortion](),
		"Point2":                     reflect.TypeFor[Point2](),
		"Option":                     reflect.TypeFor[Option](),
		"NewCamera":                  NewCamera,
		"NewIntrinsics":              NewIntrinsics,
		"WithIntrinsics":             WithIntrinsics,
		"WithRotation":               WithRotation,
		"WithOpticalCenter":          WithOpticalCenter,
		"WithDistortion":             WithDistortion,
		"WithWorldUp":                WithWorldUp,
		"Distort":                    Distort,
		"Undistort":                  Undistort,
		"ErrInvalidCamera":           ErrInvalidCamera,
		"DefaultUndistortIterations": DefaultUndistortIterations,
	}
}
