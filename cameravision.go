// Package cameravision is the former name of deltacamera.
//
// Deprecated: cameravision has been renamed to deltacamera. Replace
//
//	import "github.com/banshee-data/cameravision"
//
// with
//
//	import "github.com/banshee-data/cameravision/deltacamera"
//
// and rename cameravision.Camera to deltacamera.Camera, and so on. This
// package re-exports everything from deltacamera for backwards compatibility
// but will be removed in a future release.
package cameravision

//go:generate go run ./cmd/gen-forward -successor ./deltacamera -package cameravision -out forward_gen.go

import (
	"sync"

	"github.com/banshee-data/cameravision/deltacamera"
	"github.com/banshee-data/cameravision/internal/deprecation"
	"github.com/banshee-data/cameravision/internal/forward"
	"github.com/banshee-data/cameravision/internal/version"
)

const (
	// LegacyPath is this package's import path.
	LegacyPath = "github.com/banshee-data/cameravision"
	// SuccessorPath is the import path to migrate to.
	SuccessorPath = "github.com/banshee-data/cameravision/deltacamera"
)

// DeprecationMessage is reported once when the package is loaded.
const DeprecationMessage = "cameravision has been renamed to deltacamera. " +
	"Please update your imports: `import \"" + SuccessorPath + "\"` " +
	"and use deltacamera.Camera instead of cameravision.Camera. " +
	"This compatibility package will be removed in a future release."

// Version is this package's own version, "0.0.0" when built without
// release metadata.
var Version = version.Resolve()

// loadNotice is attributed two frames up from init, which is the package
// initialiser of whatever imported cameravision rather than this file.
var loadNotice = deprecation.Notice{
	Category:   deprecation.CategoryDeprecation,
	Message:    DeprecationMessage,
	StackLevel: 2,
}

var symbols = sync.OnceValues(func() (*forward.Table, error) {
	return forward.Resolve("cameravision", forward.Manifest{
		Module:  SuccessorPath,
		Names:   deltacamera.All,
		Symbols: deltacamera.Exports(),
	})
})

func init() {
	deprecation.Warn(loadNotice)

	if _, err := symbols(); err != nil {
		panic(err)
	}
}

// Lookup returns the deltacamera object exported under name. Types are
// returned as reflect.Type.
func Lookup(name string) (any, bool) {
	t, _ := symbols()
	return t.Lookup(name)
}

// Names returns the forwarded export list.
func Names() []string {
	t, _ := symbols()
	return t.Names()
}
