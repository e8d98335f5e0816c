package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	assert.True(t, called, "custom logger was not called")

	// nil installs a no-op logger
	called = false
	SetLogger(nil)
	Logf("test message")
	assert.False(t, called, "no-op logger should not reach the previous logger")
}

func TestLogf_Default(t *testing.T) {
	assert.NotNil(t, Logf)
	assert.NotPanics(t, func() { Logf("test message: %s", "value") })
}

func TestWarnf(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	Warnf("%s moved to %s", "cameravision", "deltacamera")

	assert.Equal(t, []string{"WARNING: cameravision moved to deltacamera"}, lines)
}
