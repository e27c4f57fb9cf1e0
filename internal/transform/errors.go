package transform

import (
	"errors"
	"go/scanner"
	"go/token"
)

// shift moves diagnostics produced against prelude+src back onto src.
func shift(err error) error {
	return Relocate(err, token.Position{Offset: -len(prelude), Line: 0, Column: 1})
}

// Relocate rebases the positions of a scanner.ErrorList so that line 1,
// column 1 of the parsed text maps to base. A non-empty base.Filename replaces
// the diagnostic file name. Errors of any other type are returned unchanged.
func Relocate(err error, base token.Position) error {
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		return err
	}
	out := make(scanner.ErrorList, 0, len(list))
	for _, e := range list {
		pos := e.Pos
		if pos.Line == 1 && base.Column > 1 {
			pos.Column += base.Column - 1
		}
		pos.Line += base.Line - 1
		pos.Offset += base.Offset
		if base.Filename != "" {
			pos.Filename = base.Filename
		}
		out = append(out, &scanner.Error{Pos: pos, Msg: e.Msg})
	}
	return out
}
