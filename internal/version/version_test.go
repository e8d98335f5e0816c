package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	depInfo := func(v string) *debug.BuildInfo {
		return &debug.BuildInfo{
			Main: debug.Module{Path: "example.com/app", Version: "(devel)"},
			Deps: []*debug.Module{
				{Path: "gonum.org/v1/gonum", Version: "v0.17.0"},
				{Path: ModulePath, Version: v},
			},
		}
	}

	tests := []struct {
		name   string
		linked string
		info   *debug.BuildInfo
		ok     bool
		want   string
	}{
		{name: "linker version wins", linked: "v1.4.2", info: depInfo("v1.0.0"), ok: true, want: "v1.4.2"},
		{name: "linker version without prefix kept verbatim", linked: "1.4.2", ok: false, want: "1.4.2"},
		{name: "no build info", linked: "dev", ok: false, want: Sentinel},
		{name: "nil build info", linked: "dev", info: nil, ok: true, want: Sentinel},
		{name: "malformed linker version", linked: "not-a-version", ok: false, want: Sentinel},
		{name: "dependency version", linked: "dev", info: depInfo("v0.9.1"), ok: true, want: "v0.9.1"},
		{name: "dependency devel", linked: "dev", info: depInfo("(devel)"), ok: true, want: Sentinel},
		{
			name:   "main module version",
			linked: "dev",
			info:   &debug.BuildInfo{Main: debug.Module{Path: ModulePath, Version: "v2.0.0-rc.1"}},
			ok:     true,
			want:   "v2.0.0-rc.1",
		},
		{
			name:   "main module devel",
			linked: "dev",
			info:   &debug.BuildInfo{Main: debug.Module{Path: ModulePath, Version: "(devel)"}},
			ok:     true,
			want:   Sentinel,
		},
		{
			name:   "replaced dependency",
			linked: "",
			info: &debug.BuildInfo{Deps: []*debug.Module{{
				Path: ModulePath, Version: "v1.0.0",
				Replace: &debug.Module{Path: "../cameravision", Version: "v1.0.1"},
			}}},
			ok:   true,
			want: "v1.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, resolve(tt.linked, tt.info, tt.ok))
		})
	}
}

func TestResolve_NeverEmpty(t *testing.T) {
	assert.NotEmpty(t, Resolve())
}
