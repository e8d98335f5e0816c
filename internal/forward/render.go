package forward

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"go/types"
	"slices"
	"text/template"
)

// Kind is the declaration form used to forward a symbol.
type Kind int

const (
	KindType Kind = iota
	KindConst
	KindVar
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindConst:
		return "const"
	case KindVar:
		return "var"
	case KindFunc:
		return "func"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Symbol is one exported name of the successor.
type Symbol struct {
	Name string
	Kind Kind
}

// RenderInput describes the forwarding file to generate.
type RenderInput struct {
	// Generator is named in the DO NOT EDIT header.
	Generator string
	// Package is the legacy package name.
	Package string
	// SuccessorImport is the successor's import path.
	SuccessorImport string
	// SuccessorName is the identifier the successor is imported as.
	SuccessorName string
	Symbols       []Symbol
	// ForwardExportList adds "var All = <successor>.All".
	ForwardExportList bool
}

const forwardTemplate = `// Code generated by {{.Generator}}; DO NOT EDIT.

package {{.Package}}

import {{.SuccessorName}} "{{.SuccessorImport}}"
{{- if .ExportList}}

// All is the successor's export list.
var All = {{.SuccessorName}}.All
{{- end}}
{{- if .Types}}

type (
{{- range .Types}}
	{{.}} = {{$.SuccessorName}}.{{.}}
{{- end}}
)
{{- end}}
{{- if .Consts}}

const (
{{- range .Consts}}
	{{.}} = {{$.SuccessorName}}.{{.}}
{{- end}}
)
{{- end}}
{{- if .Vars}}

var (
{{- range .Vars}}
	{{.}} = {{$.SuccessorName}}.{{.}}
{{- end}}
)
{{- end}}
`

var tmpl = template.Must(template.New("forward").Parse(forwardTemplate))

// Render generates gofmt'd Go source forwarding every symbol in in.Symbols.
// Types become aliases, constants stay constants, and functions and
// variables become package variables holding the successor's values.
func Render(in RenderInput) ([]byte, error) {
	if !token.IsIdentifier(in.Package) {
		return nil, fmt.Errorf("render: invalid package name %q", in.Package)
	}
	if !token.IsIdentifier(in.SuccessorName) {
		return nil, fmt.Errorf("render: invalid successor name %q", in.SuccessorName)
	}
	if in.SuccessorImport == "" {
		return nil, fmt.Errorf("render: %w", ErrMissingSuccessor)
	}

	data := struct {
		RenderInput
		ExportList          bool
		Types, Consts, Vars []string
	}{RenderInput: in, ExportList: in.ForwardExportList}

	seen := make(map[string]bool, len(in.Symbols))
	for _, s := range in.Symbols {
		if !token.IsIdentifier(s.Name) || !token.IsExported(s.Name) {
			return nil, fmt.Errorf("render: %q is not an exported identifier", s.Name)
		}
		if seen[s.Name] || (in.ForwardExportList && s.Name == "All") {
			return nil, fmt.Errorf("render: %w: %s", ErrDuplicateName, s.Name)
		}
		seen[s.Name] = true
		switch s.Kind {
		case KindType:
			data.Types = append(data.Types, s.Name)
		case KindConst:
			data.Consts = append(data.Consts, s.Name)
		case KindVar, KindFunc:
			data.Vars = append(data.Vars, s.Name)
		default:
			return nil, fmt.Errorf("render: %s has unknown kind %v", s.Name, s.Kind)
		}
	}
	if in.Generator == "" {
		data.Generator = "gen-forward"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("render: format: %w", err)
	}
	return src, nil
}

// SymbolsFromScope lists the exported package-level objects of scope,
// sorted by name, leaving out the names in exclude and generic declarations.
func SymbolsFromScope(scope *types.Scope, exclude ...string) []Symbol {
	var out []Symbol
	for _, name := range scope.Names() {
		if !token.IsExported(name) || slices.Contains(exclude, name) {
			continue
		}
		switch obj := scope.Lookup(name).(type) {
		case *types.TypeName:
			if named, ok := obj.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
				continue
			}
			out = append(out, Symbol{Name: name, Kind: KindType})
		case *types.Const:
			out = append(out, Symbol{Name: name, Kind: KindConst})
		case *types.Var:
			out = append(out, Symbol{Name: name, Kind: KindVar})
		case *types.Func:
			if sig, ok := obj.Type().(*types.Signature); ok && sig.TypeParams().Len() > 0 {
				continue
			}
			out = append(out, Symbol{Name: name, Kind: KindFunc})
		}
	}
	return out
}
