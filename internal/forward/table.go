// Package forward binds a legacy package's names to the objects exported by
// its successor.
//
// The successor publishes a Manifest: its ordered export list and the object
// bound to each name. Resolve turns a manifest into a read-only Table, or
// fails without producing one. Render generates the Go source that forwards
// the same names at compile time.
package forward

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrMissingSuccessor means there is nothing to forward to.
	ErrMissingSuccessor = errors.New("successor module unavailable")
	// ErrMissingSymbol means the export list names something the successor
	// does not bind.
	ErrMissingSymbol = errors.New("successor does not bind exported name")
	// ErrDuplicateName means the export list repeats a name.
	ErrDuplicateName = errors.New("duplicate exported name")
)

// Manifest is a successor's published export surface.
type Manifest struct {
	// Module is the successor's import path.
	Module string
	// Names is the export list, in declaration order.
	Names []string
	// Symbols binds every name in Names to its object. Types are bound as
	// reflect.Type values.
	Symbols map[string]any
}

// Table is a resolved forwarding table. It is immutable.
type Table struct {
	legacy    string
	successor string
	names     []string
	symbols   map[string]any
}

// Resolve builds the forwarding table for legacy from m. It either binds
// every name in m.Names or returns an error and no table.
func Resolve(legacy string, m Manifest) (*Table, error) {
	if m.Module == "" || m.Symbols == nil {
		return nil, fmt.Errorf("resolve %s: %w", legacy, ErrMissingSuccessor)
	}

	names := make([]string, 0, len(m.Names))
	symbols := make(map[string]any, len(m.Names))
	for _, name := range m.Names {
		if _, dup := symbols[name]; dup {
			return nil, fmt.Errorf("resolve %s from %s: %w: %s", legacy, m.Module, ErrDuplicateName, name)
		}
		obj, ok := m.Symbols[name]
		if !ok {
			return nil, fmt.Errorf("resolve %s from %s: %w: %s", legacy, m.Module, ErrMissingSymbol, name)
		}
		names = append(names, name)
		symbols[name] = obj
	}

	return &Table{
		legacy:    legacy,
		successor: m.Module,
		names:     names,
		symbols:   symbols,
	}, nil
}

// MustResolve is like Resolve but panics on error. It is meant for package
// initialisation, where a failed resolution must abort loading.
func MustResolve(legacy string, m Manifest) *Table {
	t, err := Resolve(legacy, m)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the object forwarded under name.
func (t *Table) Lookup(name string) (any, bool) {
	obj, ok := t.symbols[name]
	return obj, ok
}

// Names returns a copy of the forwarded names in export-list order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of forwarded names.
func (t *Table) Len() int { return len(t.names) }

// Legacy returns the legacy package name.
func (t *Table) Legacy() string { return t.legacy }

// Successor returns the successor's import path.
func (t *Table) Successor() string { return t.successor }

// Same reports whether a and b are the same object rather than merely equal
// values: functions must share code, pointers, maps, channels and slices
// must share storage. Other comparable values fall back to ==.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !va.Comparable() {
		return false
	}
	return va.Equal(vb)
}
