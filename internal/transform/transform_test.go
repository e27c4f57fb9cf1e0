package transform

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/scanner"
	"go/token"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(name string) string {
	return "{\n\tpanic(\"not implemented: " + name + "\")\n}"
}

// assertSource compares generated code and prints a character diff on mismatch.
func assertSource(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Errorf("generated code mismatch:\n%s", dmp.DiffPrettyText(diffs))
}

func TestTransform(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "exported with explicit terminator",
			input: "func Func(a uint32) uint32;",
			want:  "func Func(a uint32) uint32 " + body("Func"),
		},
		{
			name:  "no params no results newline terminated",
			input: "func helper()\n",
			want:  "func helper() " + body("helper") + "\n",
		},
		{
			name:  "directive attribute kept",
			input: "//go:noinline\nfunc g(x, y int32) int32\n",
			want:  "//go:noinline\nfunc g(x, y int32) int32 " + body("g") + "\n",
		},
		{
			name:  "generic function",
			input: "func Id[T any](x T) T;\n",
			want:  "func Id[T any](x T) T " + body("Id") + "\n",
		},
		{
			name:  "generic method with named results",
			input: "func (s *Store[K, V]) Get(k K) (v V, ok bool)",
			want:  "func (s *Store[K, V]) Get(k K) (v V, ok bool) " + body("Get"),
		},
		{
			name:  "constraint with type set",
			input: "func Sum[N interface{ ~int | ~float64 }](xs ...N) (total N)\n",
			want:  "func Sum[N interface{ ~int | ~float64 }](xs ...N) (total N) " + body("Sum") + "\n",
		},
		{
			name:  "unnamed parameters and blank result",
			input: "func handle(context.Context, int, func(error) bool) (_ int, err error);",
			want:  "func handle(context.Context, int, func(error) bool) (_ int, err error) " + body("handle"),
		},
		{
			name:  "trailing line comment",
			input: "func f() int // trailing\n",
			want:  "func f() int " + body("f") + " // trailing\n",
		},
		{
			name:  "comment before terminator",
			input: "func f() /* c */;\n",
			want:  "func f() " + body("f") + " /* c */\n",
		},
		{
			name:  "multi-line parameters are untouched",
			input: "// Open opens.\nfunc Open(\n\tname string,\n\tflag int, // flags\n) (*File, error)\n",
			want:  "// Open opens.\nfunc Open(\n\tname string,\n\tflag int, // flags\n) (*File, error) " + body("Open") + "\n",
		},
		{
			name:  "digits and underscores in name",
			input: "func parse_v2_0()",
			want:  "func parse_v2_0() " + body("parse_v2_0"),
		},
		{
			name:  "unicode identifier",
			input: "func Größe() int",
			want:  "func Größe() int " + body("Größe"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Transform("input.go", []byte(tc.input))
			require.NoError(t, err)
			assertSource(t, tc.want, string(got))
		})
	}
}

func TestParse_Fields(t *testing.T) {
	src := "// Get returns the value.\n//go:noinline\nfunc (c *Cache) Get(key string) (any, bool);\n"
	sig, err := Parse("cache.go", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, "Get", sig.Name)
	assert.Equal(t, Exported, sig.Visibility)
	assert.Equal(t, "(c *Cache)", sig.Receiver)
	assert.Equal(t, "func (c *Cache) Get(key string) (any, bool)", sig.Text)
	assert.Equal(t, []string{"// Get returns the value.", "//go:noinline"}, sig.Attributes)

	sig, err = Parse("cache.go", []byte("func evict()"))
	require.NoError(t, err)
	assert.Equal(t, Unexported, sig.Visibility)
	assert.Empty(t, sig.Receiver)
	assert.Empty(t, sig.Attributes)
}

func TestParse_Rejects(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "body present", input: "func h() { return }", want: "input.go:1:10: expected ';', found '{'"},
		{name: "empty body", input: "// doc\nfunc h() {}\n", want: "input.go:2:10: expected ';', found '{'"},
		{name: "type declaration", input: "type T int", want: "input.go:1:1: expected 'func', found 'type'"},
		{name: "import", input: "import \"fmt\"", want: "input.go:1:1: expected 'func', found 'import'"},
		{name: "two functions", input: "func a()\nfunc b()\n", want: "input.go:2:1: expected EOF, found 'func'"},
		{name: "nothing", input: "", want: "input.go:1:1: expected 'func', found 'EOF'"},
		{name: "only comments", input: "// doc\n", want: "input.go:2:1: expected 'func', found 'EOF'"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Transform("input.go", []byte(tc.input))
			require.Error(t, err)
			assert.Nil(t, out)
			assert.EqualError(t, err, tc.want)

			var list scanner.ErrorList
			require.True(t, errors.As(err, &list))
		})
	}
}

func TestParse_SyntaxErrorsKeepParserText(t *testing.T) {
	testCases := []string{
		"func f(a int",
		"func (a int",
		"func f() int int",
		"package p\nfunc f()",
		"func f[]()",
	}
	for _, input := range testCases {
		t.Run(input, func(t *testing.T) {
			_, err := Parse("input.go", []byte(input))
			require.Error(t, err)

			// The same text parsed as a real file must fail with the same
			// message, one line further down.
			_, want := parser.ParseFile(token.NewFileSet(), "input.go", "package p\n"+input, parser.ParseComments)
			require.Error(t, want)
			var got, orig scanner.ErrorList
			require.True(t, errors.As(err, &got))
			require.True(t, errors.As(want, &orig))
			require.Len(t, got, len(orig))
			for i := range got {
				assert.Equal(t, orig[i].Msg, got[i].Msg)
				assert.Equal(t, orig[i].Pos.Line-1, got[i].Pos.Line)
				assert.Equal(t, orig[i].Pos.Column, got[i].Pos.Column)
			}
		})
	}
}

// printSig renders the parts of a declaration that the transformation must
// not disturb.
func printSig(t *testing.T, src string) string {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", "package p\n"+src, parser.ParseComments)
	require.NoError(t, err)
	require.Len(t, file.Decls, 1)
	fn := file.Decls[0].(*ast.FuncDecl)
	fn.Body = nil
	var sb strings.Builder
	require.NoError(t, printer.Fprint(&sb, fset, fn))
	return sb.String()
}

func TestTransform_PreservesSignature(t *testing.T) {
	inputs := []string{
		"func F()",
		"func (r R) M(a, b int, c ...string) (err error)",
		"// doc\nfunc G[K comparable, V any](m map[K]V) []K;",
		"func H(ch <-chan struct{}, f func(int) (int, error)) <-chan int",
		"func (*T) unexported([4]byte, *[]map[string]any)",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			out, err := Transform("input.go", []byte(input))
			require.NoError(t, err)
			assert.Equal(t, printSig(t, strings.TrimSuffix(input, ";")), printSig(t, string(out)))
		})
	}
}

func TestTransform_Deterministic(t *testing.T) {
	src := []byte("//go:noinline\nfunc Run[T any](v T) (T, error);\n")
	first, err := Transform("input.go", src)
	require.NoError(t, err)
	second, err := Transform("input.go", src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "//go:noinline\nfunc Run[T any](v T) (T, error);\n", string(src), "input must not be modified")
}

func TestMessage(t *testing.T) {
	for _, name := range []string{"f", "_", "parse_v2", "Größe", "X9"} {
		msg := Message(name)
		assert.Equal(t, "not implemented: "+name, msg)
		assert.True(t, strings.HasPrefix(msg, MessagePrefix))
		assert.Len(t, MessagePrefix, 17)
	}
}

func TestRelocate(t *testing.T) {
	_, err := Parse("decl", []byte("// doc\nfunc h() {}"))
	require.Error(t, err)

	moved := Relocate(err, token.Position{Filename: "store.go", Offset: 100, Line: 12, Column: 1})
	assert.EqualError(t, moved, "store.go:13:10: expected ';', found '{'")

	_, err = Parse("decl", []byte("func h() {}"))
	require.Error(t, err)
	moved = Relocate(err, token.Position{Line: 3, Column: 5})
	assert.EqualError(t, moved, "decl:3:14: expected ';', found '{'")

	plain := errors.New("boom")
	assert.Same(t, plain, Relocate(plain, token.Position{Line: 3}))
}
