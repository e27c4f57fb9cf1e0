//go:build unimpl

package example

import "io"

//go:generate go run github.com/origadmin/unimpl/cmd/unimpl .

//go:unimpl
func (s Square) Perimeter() float64

// Scale resizes any shape.
//go:unimpl
func Scale[S Shape](s S, factor float64) S

//go:unimpl
func Render(w io.Writer, shapes ...Shape) (n int, err error);

//go:unimpl
func reset()
