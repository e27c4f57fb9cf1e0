// Package transform turns a body-less function declaration into a definition
// whose body panics with "not implemented: <name>".
//
// The transformation is a pure body injection: every byte of the input is
// kept, the only change is the body inserted after the signature and the
// removal of an explicit ';' terminator.
package transform

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"
)

// MessagePrefix is the fixed prefix of every generated panic message.
const MessagePrefix = "not implemented: "

// prelude makes a lone declaration parse as a file. It is exactly one line
// long so that diagnostics can be shifted back by one line.
const prelude = "package p\n"

// Visibility reports whether a function is reachable outside its package.
type Visibility int

const (
	Unexported Visibility = iota
	Exported
)

func (v Visibility) String() string {
	if v == Exported {
		return "exported"
	}
	return "unexported"
}

// Signature is a parsed, body-less function declaration.
type Signature struct {
	// Attributes holds the comments preceding the declaration, verbatim and
	// in source order.
	Attributes []string
	Visibility Visibility
	// Name is the function or method identifier as written.
	Name string
	// Receiver is the receiver list including parentheses, empty for
	// plain functions.
	Receiver string
	// Text is the signature from the func keyword through the results.
	Text string

	src  []byte
	end  int // offset just past the signature
	semi int // offset of an explicit ';' terminator, or -1
}

// Definition is a Signature completed with a generated body.
type Definition struct {
	*Signature
	Body string
}

// Message returns the panic message for a function called name.
func Message(name string) string {
	return MessagePrefix + name
}

// Parse parses src as exactly one function declaration without a body.
// Comments before the declaration are its attributes.
//
// Errors are a scanner.ErrorList whose positions are relative to src.
func Parse(filename string, src []byte) (*Signature, error) {
	buf := make([]byte, 0, len(prelude)+len(src))
	buf = append(append(buf, prelude...), src...)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, buf, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, shift(err)
	}
	tf := fset.File(file.Pos())

	fail := func(pos token.Pos, format string, args ...any) error {
		var list scanner.ErrorList
		list.Add(fset.Position(pos), fmt.Sprintf(format, args...))
		return shift(list)
	}

	if len(file.Decls) == 0 {
		var list scanner.ErrorList
		list.Add(eof(filename, src), "expected 'func', found 'EOF'")
		return nil, list
	}
	fn, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok {
		return nil, fail(file.Decls[0].Pos(), "expected 'func', found '%s'", keyword(file.Decls[0]))
	}
	if len(file.Decls) > 1 {
		return nil, fail(file.Decls[1].Pos(), "expected EOF, found '%s'", keyword(file.Decls[1]))
	}
	if fn.Body != nil {
		return nil, fail(fn.Body.Lbrace, "expected ';', found '{'")
	}

	offset := func(pos token.Pos) int { return tf.Offset(pos) - len(prelude) }

	sig := &Signature{
		Name: fn.Name.Name,
		src:  src,
		end:  offset(fn.End()),
	}
	if ast.IsExported(fn.Name.Name) {
		sig.Visibility = Exported
	}
	start := offset(fn.Type.Func)
	sig.Text = string(src[start:sig.end])
	if fn.Recv != nil {
		sig.Receiver = string(src[offset(fn.Recv.Opening) : offset(fn.Recv.Closing)+1])
	}
	for _, group := range file.Comments {
		if group.End() > fn.Type.Func {
			break
		}
		for _, c := range group.List {
			sig.Attributes = append(sig.Attributes, c.Text)
		}
	}
	sig.semi = terminator(src, sig.end)
	return sig, nil
}

// Generate completes sig with a body that panics on every call.
func Generate(sig *Signature) *Definition {
	return &Definition{
		Signature: sig,
		Body:      "{\n\tpanic(" + strconv.Quote(Message(sig.Name)) + ")\n}",
	}
}

// Bytes renders the definition. The input is reproduced unchanged up to the
// end of the signature, followed by the body and the rest of the input minus
// an explicit ';'.
func (d *Definition) Bytes() []byte {
	src := d.src
	out := make([]byte, 0, len(src)+len(d.Body)+1)
	out = append(out, src[:d.end]...)
	out = append(out, ' ')
	out = append(out, d.Body...)
	if d.semi < 0 {
		return append(out, src[d.end:]...)
	}
	out = append(out, src[d.end:d.semi]...)
	return append(out, src[d.semi+1:]...)
}

func (d *Definition) String() string {
	return string(d.Bytes())
}

// Transform parses src and returns the completed definition.
func Transform(filename string, src []byte) ([]byte, error) {
	sig, err := Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return Generate(sig).Bytes(), nil
}

// keyword names the token a declaration starts with, for diagnostics.
func keyword(decl ast.Decl) string {
	switch d := decl.(type) {
	case *ast.GenDecl:
		return d.Tok.String()
	case *ast.FuncDecl:
		return token.FUNC.String()
	}
	return "declaration"
}

// eof is the position just past the last byte of src.
func eof(filename string, src []byte) token.Position {
	pos := token.Position{Filename: filename, Offset: len(src), Line: 1, Column: 1}
	for _, c := range src {
		pos.Column++
		if c == '\n' {
			pos.Line++
			pos.Column = 1
		}
	}
	return pos
}

// terminator returns the offset of an explicit ';' after the signature ending
// at end, or -1 when the declaration is terminated by a newline or EOF.
func terminator(src []byte, end int) int {
	for i := end; i < len(src); {
		switch src[i] {
		case ' ', '\t', '\r':
			i++
		case ';':
			return i
		case '/':
			if i+1 >= len(src) || src[i+1] != '*' {
				return -1
			}
			j := i + 2
			for j+1 < len(src) && (src[j] != '*' || src[j+1] != '/') {
				if src[j] == '\n' {
					return -1
				}
				j++
			}
			i = j + 2
		default:
			return -1
		}
	}
	return -1
}
