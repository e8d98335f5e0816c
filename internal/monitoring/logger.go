// Package monitoring holds the diagnostic logger shared by the legacy
// forwarding layer and the command-line tools.
package monitoring

import "log"

// WarnPrefix is prepended to every line written through Warnf.
const WarnPrefix = "WARNING: "

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Deprecation notices are delivered through it, so
// tests can capture or mute them.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Warnf logs through Logf with WarnPrefix.
func Warnf(format string, v ...interface{}) {
	Logf(WarnPrefix+format, v...)
}
