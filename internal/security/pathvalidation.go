// Package security guards the paths the command-line tools write to.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned when a path resolves outside its root.
var ErrPathEscapes = errors.New("path escapes root directory")

// ValidatePathWithinDirectory checks that filePath resolves inside root,
// following symlinks so a link inside root cannot point the write elsewhere.
// filePath need not exist yet.
func ValidatePathWithinDirectory(filePath, root string) error {
	canonicalPath, err := canonical(filePath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root directory: %w", err)
	}
	canonicalRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return fmt.Errorf("failed to resolve root directory symlinks: %w", err)
	}

	rel, err := filepath.Rel(canonicalRoot, canonicalPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPathEscapes, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s is outside %s", ErrPathEscapes, filePath, root)
	}
	return nil
}

// canonical resolves symlinks in the longest existing prefix of path.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	// Walk up to the nearest existing ancestor, e.g. for
	// root/link-to-etc/new.txt resolve root/link-to-etc.
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rest, _ := filepath.Rel(dir, abs)
			return filepath.Join(resolved, rest), nil
		}
		if filepath.Dir(dir) == dir {
			return abs, nil
		}
	}
}

// SanitizeFilename makes a safe file name stem from s: anything other than
// ASCII letters, digits, dot, underscore or dash becomes a single underscore,
// and the result is capped at 128 bytes.
func SanitizeFilename(s string) string {
	const maxLen = 128
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		case !lastUnderscore:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
