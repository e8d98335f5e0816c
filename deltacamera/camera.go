// Package deltacamera models a calibrated pinhole camera with lens distortion
// and converts points between world, camera and image coordinates.
//
// Coordinate conventions follow OpenCV: the camera looks along +Z, +X points
// right and +Y points down in the image. The rotation maps world axes to
// camera axes, and the optical center is the camera position in world
// coordinates, so a world point p maps to R·(p − C) in camera coordinates.
package deltacamera

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Version is the deltacamera release this package corresponds to.
const Version = "1.0.0"

// ErrInvalidCamera is returned by NewCamera for inconsistent parameters.
var ErrInvalidCamera = errors.New("invalid camera")

// orthonormalTolerance bounds |R·Rᵀ − I| for accepted rotations.
const orthonormalTolerance = 1e-6

// Point2 is a point in image (pixel) or normalised image coordinates.
type Point2 struct {
	X, Y float64
}

// Camera is a calibrated camera. The zero value is not usable; create
// cameras with NewCamera.
type Camera struct {
	intrinsics *mat.Dense // 3x3, upper triangular, K[2,2] == 1
	rotation   *mat.Dense // 3x3 world-to-camera
	center     r3.Vec
	distortion Distortion
	worldUp    r3.Vec
}

// Option configures NewCamera.
type Option func(*Camera)

// WithIntrinsics sets the 3x3 intrinsic matrix. The matrix is copied.
func WithIntrinsics(k mat.Matrix) Option {
	return func(c *Camera) { c.intrinsics = mat.DenseCopyOf(k) }
}

// WithRotation sets the world-to-camera rotation. The matrix is copied.
func WithRotation(r mat.Matrix) Option {
	return func(c *Camera) { c.rotation = mat.DenseCopyOf(r) }
}

// WithOpticalCenter sets the camera position in world coordinates.
func WithOpticalCenter(center r3.Vec) Option {
	return func(c *Camera) { c.center = center }
}

// WithDistortion sets the lens distortion coefficients.
func WithDistortion(d Distortion) Option {
	return func(c *Camera) { c.distortion = d }
}

// WithWorldUp sets the world direction considered "up". It defaults to −Y.
func WithWorldUp(up r3.Vec) Option {
	return func(c *Camera) { c.worldUp = up }
}

// NewIntrinsics returns the intrinsic matrix for focal lengths fx, fy and
// principal point (cx, cy), all in pixels.
func NewIntrinsics(fx, fy, cx, cy float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		fx, 0, cx,
		0, fy, cy,
		0, 0, 1,
	})
}

// NewCamera returns a camera with identity intrinsics and rotation, placed
// at the origin, without distortion, unless options say otherwise.
func NewCamera(opts ...Option) (*Camera, error) {
	c := &Camera{
		intrinsics: NewIntrinsics(1, 1, 0, 0),
		rotation:   identity3(),
		worldUp:    r3.Vec{X: 0, Y: -1, Z: 0},
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Camera) validate() error {
	if r, cols := c.intrinsics.Dims(); r != 3 || cols != 3 {
		return fmt.Errorf("%w: intrinsic matrix is %dx%d, want 3x3", ErrInvalidCamera, r, cols)
	}
	k := c.intrinsics
	if k.At(0, 0) <= 0 || k.At(1, 1) <= 0 {
		return fmt.Errorf("%w: focal lengths must be positive, got fx=%g fy=%g", ErrInvalidCamera, k.At(0, 0), k.At(1, 1))
	}
	if k.At(1, 0) != 0 || k.At(2, 0) != 0 || k.At(2, 1) != 0 || k.At(2, 2) != 1 {
		return fmt.Errorf("%w: intrinsic matrix must be upper triangular with K[2,2]=1", ErrInvalidCamera)
	}

	if r, cols := c.rotation.Dims(); r != 3 || cols != 3 {
		return fmt.Errorf("%w: rotation matrix is %dx%d, want 3x3", ErrInvalidCamera, r, cols)
	}
	var rrt mat.Dense
	rrt.Mul(c.rotation, c.rotation.T())
	if !mat.EqualApprox(&rrt, identity3(), orthonormalTolerance) {
		return fmt.Errorf("%w: rotation matrix is not orthonormal", ErrInvalidCamera)
	}
	if det := mat.Det(c.rotation); math.Abs(det-1) > orthonormalTolerance {
		return fmt.Errorf("%w: rotation matrix has determinant %g, want 1", ErrInvalidCamera, det)
	}

	if r3.Norm(c.worldUp) == 0 {
		return fmt.Errorf("%w: world up vector is zero", ErrInvalidCamera)
	}
	return nil
}

// Intrinsics returns a copy of the intrinsic matrix.
func (c *Camera) Intrinsics() *mat.Dense { return mat.DenseCopyOf(c.intrinsics) }

// Rotation returns a copy of the world-to-camera rotation.
func (c *Camera) Rotation() *mat.Dense { return mat.DenseCopyOf(c.rotation) }

// OpticalCenter returns the camera position in world coordinates.
func (c *Camera) OpticalCenter() r3.Vec { return c.center }

// Distortion returns the lens distortion coefficients.
func (c *Camera) Distortion() Distortion { return c.distortion }

// WorldUp returns the world up direction.
func (c *Camera) WorldUp() r3.Vec { return c.worldUp }

// HasDistortion reports whether any distortion coefficient is non-zero.
func (c *Camera) HasDistortion() bool { return !c.distortion.IsZero() }

// Copy returns a deep copy of c.
func (c *Camera) Copy() *Camera {
	return &Camera{
		intrinsics: mat.DenseCopyOf(c.intrinsics),
		rotation:   mat.DenseCopyOf(c.rotation),
		center:     c.center,
		distortion: c.distortion,
		worldUp:    c.worldUp,
	}
}

// ScaleOutput rescales the image by factor, e.g. 0.5 halves the resolution.
// Non-positive factors are ignored.
func (c *Camera) ScaleOutput(factor float64) {
	if factor <= 0 {
		return
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			c.intrinsics.Set(i, j, c.intrinsics.At(i, j)*factor)
		}
	}
}

// ShiftImage moves the principal point by (dx, dy) pixels, as when cropping.
func (c *Camera) ShiftImage(dx, dy float64) {
	c.intrinsics.Set(0, 2, c.intrinsics.At(0, 2)+dx)
	c.intrinsics.Set(1, 2, c.intrinsics.At(1, 2)+dy)
}

// WorldToCamera maps world points into camera coordinates.
func (c *Camera) WorldToCamera(points []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = mulVec(c.rotation, r3.Sub(p, c.center))
	}
	return out
}

// CameraToWorld maps camera points into world coordinates.
func (c *Camera) CameraToWorld(points []r3.Vec) []r3.Vec {
	rt := c.rotation.T()
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = r3.Add(mulVec(rt, p), c.center)
	}
	return out
}

// CameraToImage projects camera points to pixels, applying distortion.
// Points at or behind the image plane (z <= 0) have no projection: their
// entry in valid is false and their pixel coordinates are NaN.
func (c *Camera) CameraToImage(points []r3.Vec) (pixels []Point2, valid []bool) {
	pixels = make([]Point2, len(points))
	valid = make([]bool, len(points))
	for i, p := range points {
		if p.Z <= 0 || math.IsNaN(p.Z) {
			pixels[i] = Point2{X: math.NaN(), Y: math.NaN()}
			continue
		}
		n := Point2{X: p.X / p.Z, Y: p.Y / p.Z}
		if c.HasDistortion() {
			n = Distort(c.distortion, n)
		}
		pixels[i] = c.normalizedToPixel(n)
		valid[i] = true
	}
	return pixels, valid
}

// WorldToImage projects world points to pixels. See CameraToImage.
func (c *Camera) WorldToImage(points []r3.Vec) (pixels []Point2, valid []bool) {
	return c.CameraToImage(c.WorldToCamera(points))
}

// ImageToCamera back-projects pixels to camera-space rays on the z = 1
// plane, removing distortion.
func (c *Camera) ImageToCamera(pixels []Point2) []r3.Vec {
	out := make([]r3.Vec, len(pixels))
	for i, px := range pixels {
		n := c.pixelToNormalized(px)
		if c.HasDistortion() {
			n = Undistort(c.distortion, n, DefaultUndistortIterations)
		}
		out[i] = r3.Vec{X: n.X, Y: n.Y, Z: 1}
	}
	return out
}

// ImageToWorldRay returns the world-space ray through pixel px as its origin
// (the optical center) and unit direction.
func (c *Camera) ImageToWorldRay(px Point2) (origin, direction r3.Vec) {
	ray := c.ImageToCamera([]Point2{px})[0]
	direction = r3.Unit(mulVec(c.rotation.T(), ray))
	return c.center, direction
}

func (c *Camera) normalizedToPixel(n Point2) Point2 {
	k := c.intrinsics
	return Point2{
		X: k.At(0, 0)*n.X + k.At(0, 1)*n.Y + k.At(0, 2),
		Y: k.At(1, 1)*n.Y + k.At(1, 2),
	}
}

// pixelToNormalized inverts the upper-triangular intrinsic matrix.
func (c *Camera) pixelToNormalized(px Point2) Point2 {
	k := c.intrinsics
	y := (px.Y - k.At(1, 2)) / k.At(1, 1)
	x := (px.X - k.At(0, 2) - k.At(0, 1)*y) / k.At(0, 0)
	return Point2{X: x, Y: y}
}

func identity3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

func mulVec(m mat.Matrix, v r3.Vec) r3.Vec {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}
