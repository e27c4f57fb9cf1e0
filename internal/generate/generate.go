// Package generate drives the transformation over whole packages: it loads
// the files guarded by the unimpl build tag, completes every marked function
// and writes one generated file per source file.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/origadmin/unimpl/internal/config"
	"github.com/origadmin/unimpl/internal/transform"
)

// Header is the first line of every generated file.
const Header = "// Code generated by " + config.Application + ". DO NOT EDIT."

// File is a generated Go source file.
type File struct {
	// Source is the signature file the content was generated from.
	Source  string
	Path    string
	Content []byte
}

// Write stores the file on disk.
func (f *File) Write() error {
	if err := os.WriteFile(f.Path, f.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Path, err)
	}
	return nil
}

// Generator produces the generated files of a set of packages.
type Generator struct {
	cfg     *config.Config
	scanner *config.DirectiveScanner
}

// New creates a Generator. A nil cfg means the defaults.
func New(cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Generator{
		cfg:     cfg,
		scanner: config.NewDirectiveScanner(),
	}
}

type job struct {
	fset     *token.FileSet
	file     *ast.File
	filename string
}

// Generate loads the packages matching patterns, relative to dir, and returns
// one File per source file that holds directives, sorted by path. Errors of
// individual files are joined; files that succeeded are still returned.
func (g *Generator) Generate(ctx context.Context, dir string, patterns ...string) ([]*File, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	slog.Debug("Loading packages", "dir", dir, "patterns", patterns, "tag", g.cfg.Tag)
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:        dir,
		Tests:      g.cfg.Tests,
		BuildFlags: []string{"-tags=" + g.cfg.Tag},
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %v in %s", patterns, dir)
	}

	var errs []error
	var jobs []job
	seen := make(map[string]bool)
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			errs = append(errs, fmt.Errorf("package %s: %w", pkg.PkgPath, pkgErr))
		}
		for _, file := range pkg.Syntax {
			filename := pkg.Fset.File(file.Pos()).Name()
			if seen[filename] {
				continue
			}
			seen[filename] = true
			if ast.IsGenerated(file) || g.isOutput(filename) {
				slog.Debug("Skipping generated file", "file", filename)
				continue
			}
			if !g.scanner.HasDirective(file) {
				continue
			}
			jobs = append(jobs, job{fset: pkg.Fset, file: file, filename: filename})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	files := make([]*File, len(jobs))
	fileErrs := make([]error, len(jobs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, j := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files[i], fileErrs[i] = g.generateFile(j)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []*File
	for i, f := range files {
		if fileErrs[i] != nil {
			errs = append(errs, fileErrs[i])
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, errors.Join(errs...)
}

// OutputPath names the generated counterpart of a source file. Test files
// stay test files.
func (g *Generator) OutputPath(filename string) string {
	dir, base := filepath.Split(filename)
	if stem, ok := strings.CutSuffix(base, "_test.go"); ok {
		return filepath.Join(dir, stem+strings.TrimSuffix(g.cfg.Suffix, ".go")+"_test.go")
	}
	return filepath.Join(dir, strings.TrimSuffix(base, ".go")+g.cfg.Suffix)
}

func (g *Generator) isOutput(filename string) bool {
	base := filepath.Base(filename)
	return strings.HasSuffix(base, g.cfg.Suffix) ||
		strings.HasSuffix(base, strings.TrimSuffix(g.cfg.Suffix, ".go")+"_test.go")
}

func (g *Generator) generateFile(j job) (*File, error) {
	src, err := os.ReadFile(j.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", j.filename, err)
	}

	build, err := g.outputConstraint(j)
	if err != nil {
		return nil, err
	}

	var errs []error
	edits := []transform.Edit{build}
	done := make(map[*ast.FuncDecl]bool)
	for _, use := range g.scanner.Scan(j.file) {
		fn := use.Func()
		if fn == nil {
			errs = append(errs, fmt.Errorf("%s: %s must precede a function declaration",
				j.fset.Position(use.Comment.Pos()), config.Directive))
			continue
		}
		if done[fn] {
			continue
		}
		done[fn] = true

		edit, err := transform.CompleteDecl(j.fset, j.file, src, fn, config.IsDirective)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		edits = append(edits, edit)
		slog.Debug("Completed function", "file", j.filename, "func", fn.Name.Name)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Everything but the build constraint and the marked declarations is
	// copied verbatim, so the generated file declares what the source did.
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteString("\n\n")
	buf.Write(transform.Apply(src, edits))

	path := g.OutputPath(j.filename)
	if _, err := parser.ParseFile(token.NewFileSet(), path, buf.Bytes(), parser.SkipObjectResolution); err != nil {
		return nil, fmt.Errorf("generated invalid source for %s: %w", j.filename, err)
	}
	slog.Info("Generated file", "source", j.filename, "output", path, "funcs", len(done))
	return &File{Source: j.filename, Path: path, Content: buf.Bytes()}, nil
}
