// Package unimplanalysis reports misplaced //go:unimpl directives as part of
// go vet or any other go/analysis driver.
package unimplanalysis

import (
	"golang.org/x/tools/go/analysis"

	"github.com/origadmin/unimpl/internal/config"
)

// Analyzer validates the usage of the unimpl directive in the package.
var Analyzer = &analysis.Analyzer{
	Name: "unimpl",
	Doc:  "check that //go:unimpl only marks function declarations without a body",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	scanner := config.NewDirectiveScanner()
	for _, file := range pass.Files {
		for _, use := range scanner.Scan(file) {
			fn := use.Func()
			switch {
			case fn == nil:
				pass.Report(analysis.Diagnostic{
					Pos:     use.Comment.Pos(),
					End:     use.Comment.End(),
					Message: config.Directive + " applies only to function declarations",
				})
			case fn.Body != nil:
				pass.Report(analysis.Diagnostic{
					Pos:     fn.Body.Lbrace,
					End:     fn.Body.End(),
					Message: config.Directive + " function " + fn.Name.Name + " must not have a body",
				})
			}
		}
	}
	return nil, nil
}
