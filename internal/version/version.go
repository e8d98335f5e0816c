// Package version resolves the legacy package's version string from linker
// metadata or module build info.
package version

import (
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

var (
	// Version is the release version, set with -ldflags "-X ...version.Version=v1.2.3"
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// Sentinel is reported when no usable version metadata exists, e.g. when
// running from an unreleased checkout.
const Sentinel = "0.0.0"

// ModulePath is the module whose build info is consulted.
const ModulePath = "github.com/banshee-data/cameravision"

// Resolve returns the version of this module. It never fails: absent or
// malformed metadata yields Sentinel.
func Resolve() string {
	info, ok := debug.ReadBuildInfo()
	return resolve(Version, info, ok)
}

func resolve(linked string, info *debug.BuildInfo, ok bool) string {
	if valid(linked) {
		return linked
	}
	if !ok || info == nil {
		return Sentinel
	}
	if info.Main.Path == ModulePath && valid(info.Main.Version) {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep == nil || dep.Path != ModulePath {
			continue
		}
		if dep.Replace != nil && valid(dep.Replace.Version) {
			return dep.Replace.Version
		}
		if valid(dep.Version) {
			return dep.Version
		}
	}
	return Sentinel
}

// valid reports whether v parses as a semantic version. "(devel)", "dev" and
// the empty string are rejected.
func valid(v string) bool {
	if v == "" {
		return false
	}
	_, err := semver.NewVersion(v)
	return err == nil
}
