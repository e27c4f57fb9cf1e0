// Package rewrite fills marked function signatures in place, for code that
// should keep the generated stubs instead of a separate generated file.
package rewrite

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"

	"github.com/origadmin/unimpl/internal/config"
	"github.com/origadmin/unimpl/internal/transform"
)

// File completes every marked, body-less function of a Go source file and
// returns the new source with the number of functions filled. Apart from the
// injected bodies and the consumed directives the source is returned
// byte for byte.
func File(filename string, src []byte) ([]byte, int, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, 0, err
	}

	var errs []error
	var edits []transform.Edit
	done := make(map[*ast.FuncDecl]bool)
	for _, use := range config.NewDirectiveScanner().Scan(file) {
		fn := use.Func()
		if fn == nil {
			errs = append(errs, fmt.Errorf("%s: %s must precede a function declaration",
				fset.Position(use.Comment.Pos()), config.Directive))
			continue
		}
		if done[fn] {
			continue
		}
		done[fn] = true

		edit, err := transform.CompleteDecl(fset, file, src, fn, config.IsDirective)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		edits = append(edits, edit)
		slog.Debug("Filled function in place", "file", filename, "func", fn.Name.Name)
	}
	if len(errs) > 0 {
		return nil, 0, errors.Join(errs...)
	}
	if len(edits) == 0 {
		return src, 0, nil
	}
	return transform.Apply(src, edits), len(edits), nil
}
