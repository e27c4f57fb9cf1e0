// Package example is a package whose unfinished functions are generated by
// unimpl. The bare signatures live in shapes.go, guarded by the unimpl build
// tag; shapes_unimpl.go is the generated counterpart.
package example

// Shape is implemented by geometric figures.
type Shape interface {
	Area() float64
	Perimeter() float64
}

// Square is a Shape under construction.
type Square struct {
	Side float64
}

// Area is written by hand, Perimeter is still generated.
func (s Square) Area() float64 {
	return s.Side * s.Side
}
