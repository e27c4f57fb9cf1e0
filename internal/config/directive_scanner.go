package config

import (
	"go/ast"
	"strings"
)

// DirectiveUse is one occurrence of Directive in a file.
type DirectiveUse struct {
	Comment *ast.Comment
	// Decl is the declaration whose doc comment holds the directive, nil
	// when the directive is not attached to any declaration.
	Decl ast.Decl
}

// Func returns the marked function declaration, or nil when the directive
// sits on something else.
func (u *DirectiveUse) Func() *ast.FuncDecl {
	fn, _ := u.Decl.(*ast.FuncDecl)
	return fn
}

// DirectiveScanner finds unimpl directives in parsed files.
type DirectiveScanner struct{}

// NewDirectiveScanner creates a new DirectiveScanner.
func NewDirectiveScanner() *DirectiveScanner {
	return &DirectiveScanner{}
}

// IsDirective reports whether a comment's text is the unimpl directive.
// Anything after the directive and a blank is ignored.
func IsDirective(text string) bool {
	rest, ok := strings.CutPrefix(text, Directive)
	return ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t')
}

// Scan returns every directive in file in source order. The file must have
// been parsed with comments.
func (s *DirectiveScanner) Scan(file *ast.File) []*DirectiveUse {
	owners := make(map[*ast.CommentGroup]ast.Decl)
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Doc != nil {
				owners[d.Doc] = d
			}
		case *ast.GenDecl:
			if d.Doc != nil {
				owners[d.Doc] = d
			}
		}
	}

	var uses []*DirectiveUse
	for _, group := range file.Comments {
		for _, c := range group.List {
			if IsDirective(c.Text) {
				uses = append(uses, &DirectiveUse{Comment: c, Decl: owners[group]})
			}
		}
	}
	return uses
}

// HasDirective reports whether file contains at least one directive.
func (s *DirectiveScanner) HasDirective(file *ast.File) bool {
	for _, group := range file.Comments {
		for _, c := range group.List {
			if IsDirective(c.Text) {
				return true
			}
		}
	}
	return false
}
