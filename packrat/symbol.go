package packrat

import (
	"strconv"
	"sync/atomic"
)

//nolint:gochecknoglobals
var symbolSeq atomic.Uint64

// Symbol names a grammar production producing values of type T. Symbols are
// compared by identity: every call to [NewSymbol] yields a distinct key,
// whatever its name.
type Symbol[T any] struct {
	id   uint64
	name string
}

// NewSymbol allocates a symbol. Create symbols once per production and reuse
// them across parses.
func NewSymbol[T any](name string) *Symbol[T] {
	return &Symbol[T]{id: symbolSeq.Add(1), name: name}
}

// ID returns the unique key of s.
func (s *Symbol[T]) ID() uint64 { return s.id }

// Name returns the descriptive name of s.
func (s *Symbol[T]) Name() string { return s.name }

func (s *Symbol[T]) String() string {
	return "<" + s.name + "#" + strconv.FormatUint(s.id, 10) + ">"
}
