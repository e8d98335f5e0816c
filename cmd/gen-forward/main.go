// Command gen-forward regenerates the file that forwards a successor
// package's exported names into a legacy package.
//
//	go run ./cmd/gen-forward -successor ./deltacamera -package cameravision -out forward_gen.go
//
// With -check it exits non-zero when the file on disk is stale instead of
// rewriting it.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/banshee-data/cameravision/internal/forward"
	"github.com/banshee-data/cameravision/internal/fsutil"
	"github.com/banshee-data/cameravision/internal/security"
)

// manifestNames are the successor's own bookkeeping, never forwarded as
// ordinary symbols.
var manifestNames = []string{"All", "Exports", "Version"}

var errStale = errors.New("forwarding file is stale")

type options struct {
	successor string
	pkg       string
	out       string
	check     bool
	dir       string
}

func main() {
	var opts options
	flag.StringVar(&opts.successor, "successor", "./deltacamera", "successor package pattern")
	flag.StringVar(&opts.pkg, "package", "cameravision", "legacy package name")
	flag.StringVar(&opts.out, "out", "forward_gen.go", "output file")
	flag.BoolVar(&opts.check, "check", false, "fail if the output file is out of date instead of writing it")
	flag.StringVar(&opts.dir, "C", "", "run as if started in this directory")
	flag.Parse()

	if err := run(opts, fsutil.OSFileSystem{}); err != nil {
		log.Fatalf("gen-forward: %v", err)
	}
}

func run(opts options, fsys fsutil.FileSystem) error {
	root := opts.dir
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(opts.out) {
		opts.out = filepath.Join(root, opts.out)
	}
	if err := security.ValidatePathWithinDirectory(opts.out, root); err != nil {
		return err
	}

	in, err := loadSuccessor(opts)
	if err != nil {
		return err
	}
	src, err := forward.Render(in)
	if err != nil {
		return err
	}
	return emit(fsys, opts, src)
}

// loadSuccessor type-checks the successor and lists its exported symbols.
func loadSuccessor(opts options) (forward.RenderInput, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
		Dir:  opts.dir,
	}
	pkgs, err := packages.Load(cfg, opts.successor)
	if err != nil {
		return forward.RenderInput{}, fmt.Errorf("load %s: %w", opts.successor, err)
	}
	if len(pkgs) != 1 {
		return forward.RenderInput{}, fmt.Errorf("load %s: matched %d packages, want 1", opts.successor, len(pkgs))
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		msgs := make([]string, len(pkg.Errors))
		for i, e := range pkg.Errors {
			msgs[i] = e.Error()
		}
		return forward.RenderInput{}, fmt.Errorf("load %s: %w: %s", opts.successor, forward.ErrMissingSuccessor, strings.Join(msgs, "; "))
	}

	return forward.RenderInput{
		Generator:         "gen-forward",
		Package:           opts.pkg,
		SuccessorImport:   pkg.PkgPath,
		SuccessorName:     pkg.Name,
		Symbols:           forward.SymbolsFromScope(pkg.Types.Scope(), manifestNames...),
		ForwardExportList: pkg.Types.Scope().Lookup("All") != nil,
	}, nil
}

// emit writes src to opts.out, or in check mode compares it with the file
// already there.
func emit(fsys fsutil.FileSystem, opts options, src []byte) error {
	if !opts.check {
		if err := fsys.WriteFile(opts.out, src, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.out, err)
		}
		log.Printf("wrote %s (%d bytes)", opts.out, len(src))
		return nil
	}

	current, err := fsys.ReadFile(opts.out)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", opts.out, err)
	}
	if !bytes.Equal(current, src) {
		return fmt.Errorf("%w: %s, run go generate", errStale, opts.out)
	}
	return nil
}
