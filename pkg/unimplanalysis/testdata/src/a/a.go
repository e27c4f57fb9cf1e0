package a

type Store struct{}

//go:unimpl
func (s *Store) Get(key string) string

//go:unimpl
func Done() {} // want `//go:unimpl function Done must not have a body`

//go:unimpl // want `//go:unimpl applies only to function declarations`
type Key string

//go:unimpl // want `//go:unimpl applies only to function declarations`

func Detached()

// Plain body-less declarations are implemented in assembly.
func asm(x int) int

var _ = asm
