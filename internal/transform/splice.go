package transform

import (
	"bytes"
	"cmp"
	"go/ast"
	"go/token"
	"slices"
)

// Edit replaces src[Start:End] with Text.
type Edit struct {
	Start, End int
	Text       []byte
}

// Apply returns src with the edits applied. Edits must not overlap; bytes
// outside of them are copied unchanged.
func Apply(src []byte, edits []Edit) []byte {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int { return cmp.Compare(a.Start, b.Start) })

	var buf bytes.Buffer
	buf.Grow(len(src))
	last := 0
	for _, e := range sorted {
		buf.Write(src[last:e.Start])
		buf.Write(e.Text)
		last = e.End
	}
	buf.Write(src[last:])
	return buf.Bytes()
}

// CompleteDecl completes fn, a declaration of file whose source text is src.
// The returned edit replaces the declaration, from its doc comment through
// the end of its line, with the definition; comments for which drop reports
// true are removed along with their line break. Diagnostics are positioned
// in file.
func CompleteDecl(fset *token.FileSet, file *ast.File, src []byte, fn *ast.FuncDecl, drop func(text string) bool) (Edit, error) {
	tf := fset.File(file.Pos())
	pos := fn.Pos()
	if fn.Doc != nil {
		pos = fn.Doc.Pos()
	}
	start, end := tf.Offset(pos), declEnd(tf, file, src, fn)

	def, err := Transform(tf.Name(), src[start:end])
	if err != nil {
		return Edit{}, Relocate(err, fset.Position(pos))
	}
	// The text before the signature is unchanged, so the comments sit at the
	// same offsets in def. Remove them back to front.
	if fn.Doc != nil {
		for i := len(fn.Doc.List) - 1; i >= 0; i-- {
			if c := fn.Doc.List[i]; drop != nil && drop(c.Text) {
				def = cut(def, tf.Offset(c.Pos())-start, tf.Offset(c.End())-start)
			}
		}
	}
	return Edit{Start: start, End: end, Text: def}, nil
}

// declEnd returns the offset where the text of fn stops: the end of its line,
// or the start of the next declaration when that comes first.
func declEnd(tf *token.File, file *ast.File, src []byte, fn *ast.FuncDecl) int {
	end := tf.Offset(fn.End())
	if nl := bytes.IndexByte(src[end:], '\n'); nl >= 0 {
		end += nl
	} else {
		end = len(src)
	}
	for _, decl := range file.Decls {
		if decl.Pos() > fn.End() {
			if next := tf.Offset(decl.Pos()); next < end {
				end = next
			}
			break
		}
	}
	return end
}

// cut removes def[start:end] together with the line break that follows it.
func cut(def []byte, start, end int) []byte {
	if end < len(def) && def[end] == '\n' {
		end++
	}
	out := make([]byte, 0, len(def)-(end-start))
	out = append(out, def[:start]...)
	return append(out, def[end:]...)
}
