package generate

import (
	"fmt"
	"go/build/constraint"

	"github.com/origadmin/unimpl/internal/config"
	"github.com/origadmin/unimpl/internal/transform"
)

// outputConstraint returns the edit that turns the //go:build line of j into
// the one of its generated file. The source must require the tag; the output
// carries the same constraint with the tag negated so that exactly one of the
// two files is compiled.
func (g *Generator) outputConstraint(j job) (transform.Edit, error) {
	tf := j.fset.File(j.file.Pos())
	for _, group := range j.file.Comments {
		if group.Pos() >= j.file.Package {
			break
		}
		for _, c := range group.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			pos := j.fset.Position(c.Pos())
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				return transform.Edit{}, fmt.Errorf("%s: %w", pos, err)
			}
			if !requiresTag(expr, g.cfg.Tag) {
				return transform.Edit{}, fmt.Errorf("%s: build constraint %q does not require tag %q", pos, expr.String(), g.cfg.Tag)
			}
			return transform.Edit{
				Start: tf.Offset(c.Pos()),
				End:   tf.Offset(c.End()),
				Text:  []byte("//go:build " + negateTag(expr, g.cfg.Tag).String()),
			}, nil
		}
	}
	return transform.Edit{}, fmt.Errorf("%s: files with %s directives must be guarded by //go:build %s",
		j.filename, config.Directive, g.cfg.Tag)
}

// requiresTag reports whether expr can only hold when tag is set, that is,
// whether tag is one of its top-level conjuncts.
func requiresTag(expr constraint.Expr, tag string) bool {
	switch e := expr.(type) {
	case *constraint.TagExpr:
		return e.Tag == tag
	case *constraint.AndExpr:
		return requiresTag(e.X, tag) || requiresTag(e.Y, tag)
	}
	return false
}

func negateTag(expr constraint.Expr, tag string) constraint.Expr {
	switch e := expr.(type) {
	case *constraint.TagExpr:
		if e.Tag == tag {
			return &constraint.NotExpr{X: e}
		}
	case *constraint.AndExpr:
		return &constraint.AndExpr{X: negateTag(e.X, tag), Y: negateTag(e.Y, tag)}
	}
	return expr
}
