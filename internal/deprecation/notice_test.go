package deprecation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "", want: PolicyOnce},
		{in: "default", want: PolicyOnce},
		{in: "once", want: PolicyOnce},
		{in: " Location ", want: PolicyPerLocation},
		{in: "ALWAYS", want: PolicyAlways},
		{in: "ignore", want: PolicyIgnore},
		{in: "error", want: PolicyOnce, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPolicy)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "once", PolicyOnce.String())
	assert.Equal(t, "location", PolicyPerLocation.String())
	assert.Equal(t, "Policy(42)", Policy(42).String())
}

func TestLocation_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{"file", Location{File: "/src/app/main.go", Line: 12, Function: "main.main"}, "/src/app/main.go:12"},
		{"importer", Location{Function: "runtime.doInit1", Importer: "example.com/app"}, "init of example.com/app"},
		{"function only", Location{Function: "runtime.main"}, "runtime.main"},
		{"empty", Location{}, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.loc.String())
		})
	}
}

func TestRecord_String(t *testing.T) {
	rec := Record{
		Notice:   Notice{Category: CategoryPendingDeprecation, Message: "soon"},
		Location: Location{File: "a.go", Line: 3},
	}
	assert.Equal(t, "a.go:3: pending-deprecation: soon", rec.String())
}
