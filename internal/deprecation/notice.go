// Package deprecation records and reports deprecation notices.
//
// A Notice is emitted through a Registry, which attributes it to a caller
// frame chosen by the notice's StackLevel, de-duplicates it according to the
// registry Policy, keeps a record of it and hands it to a sink. Emission
// never fails and never panics: a notice is informational only.
package deprecation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category classifies a notice.
type Category string

const (
	// CategoryDeprecation marks an interface scheduled for removal.
	CategoryDeprecation Category = "deprecation"
	// CategoryPendingDeprecation marks an interface that will be deprecated.
	CategoryPendingDeprecation Category = "pending-deprecation"
)

// Notice is an immutable deprecation message.
//
// StackLevel selects the frame the notice is attributed to: 1 is the function
// calling Warn, 2 its caller, and so on. Values below 1 are treated as 1.
type Notice struct {
	Category   Category
	Message    string
	StackLevel int
}

// Location is where a notice was attributed.
type Location struct {
	File     string
	Line     int
	Function string
	// Importer is the main package path when the notice was raised during
	// package initialisation, where no caller frame exists.
	Importer string
}

func (l Location) String() string {
	switch {
	case l.File != "":
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	case l.Importer != "":
		return "init of " + l.Importer
	case l.Function != "":
		return l.Function
	default:
		return "unknown"
	}
}

// Record is an emitted notice.
type Record struct {
	Notice
	Location Location
	// Key is the de-duplication key the registry used.
	Key  string
	Time time.Time
}

func (r Record) String() string {
	return fmt.Sprintf("%s: %s: %s", r.Location, r.Category, r.Message)
}

// Policy decides which repeated notices are emitted.
type Policy int

const (
	// PolicyOnce emits each distinct category and message once per process,
	// regardless of call site.
	PolicyOnce Policy = iota
	// PolicyPerLocation emits once per distinct call site.
	PolicyPerLocation
	// PolicyAlways emits every notice.
	PolicyAlways
	// PolicyIgnore drops every notice.
	PolicyIgnore
)

// ErrUnknownPolicy is returned by ParsePolicy.
var ErrUnknownPolicy = errors.New("unknown warnings policy")

var policyNames = map[Policy]string{
	PolicyOnce:        "once",
	PolicyPerLocation: "location",
	PolicyAlways:      "always",
	PolicyIgnore:      "ignore",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts a policy name as used in CAMERAVISION_WARNINGS.
// The empty string selects PolicyOnce.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "default" {
		return PolicyOnce, nil
	}
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return PolicyOnce, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}
