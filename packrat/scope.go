package packrat

import (
	"log/slog"
)

type binding struct {
	id    uint64
	name  string
	value any
}

// Scope holds the values bound by the terms of the rules being applied,
// one frame per rule. Lookups only see the innermost frame.
type Scope struct {
	values []binding
	marks  []int
}

func (s *Scope) frameStart() int {
	if len(s.marks) == 0 {
		return 0
	}

	return s.marks[len(s.marks)-1]
}

// Depth returns the number of pushed frames.
func (s *Scope) Depth() int { return len(s.marks) }

// PushFrame starts an empty frame.
func (s *Scope) PushFrame() {
	s.marks = append(s.marks, len(s.values))
}

// PopFrame discards the innermost frame.
func (s *Scope) PopFrame() {
	if len(s.marks) == 0 {
		panic(ErrMalformedState.With(slog.String("scope", "pop of empty frame stack")))
	}

	s.values = s.values[:s.frameStart()]
	s.marks = s.marks[:len(s.marks)-1]
}

// Fork pushes a frame holding a copy of the innermost frame's bindings.
func (s *Scope) Fork() {
	start, end := s.frameStart(), len(s.values)

	s.PushFrame()

	for i := start; i < end; i++ {
		s.values = append(s.values, s.values[i])
	}
}

// Merge pops the innermost frame, replacing the bindings of the frame below
// with its own.
func (s *Scope) Merge() {
	if len(s.marks) < 2 { //nolint:mnd
		panic(ErrMalformedState.With(slog.String("scope", "merge without parent frame")))
	}

	src := s.marks[len(s.marks)-1]
	dst := s.marks[len(s.marks)-2]
	n := copy(s.values[dst:], s.values[src:])

	s.values = s.values[:dst+n]
	s.marks = s.marks[:len(s.marks)-1]
}

// ClearFrame removes every binding from the innermost frame.
func (s *Scope) ClearFrame() {
	s.values = s.values[:s.frameStart()]
}

func (s *Scope) find(id uint64) int {
	for i := len(s.values) - 1; i >= s.frameStart(); i-- {
		if s.values[i].id == id {
			return i
		}
	}

	return -1
}

// Put binds v to sym in the innermost frame, replacing any earlier binding.
func Put[T any](s *Scope, sym *Symbol[T], v T) {
	if i := s.find(sym.id); i >= 0 {
		s.values[i].value = v

		return
	}

	s.values = append(s.values, binding{id: sym.id, name: sym.name, value: v})
}

// Get returns the value bound to sym in the innermost frame.
func Get[T any](s *Scope, sym *Symbol[T]) (T, bool) {
	i := s.find(sym.id)
	if i < 0 {
		var zero T

		return zero, false
	}

	v, _ := s.values[i].value.(T)

	return v, true
}

// GetOr returns the value bound to sym, or def if there is none.
func GetOr[T any](s *Scope, sym *Symbol[T], def T) T {
	if v, ok := Get(s, sym); ok {
		return v
	}

	return def
}

// MustGet returns the value bound to sym. A missing binding means the rule
// reading it does not match its grammar, so MustGet panics.
func MustGet[T any](s *Scope, sym *Symbol[T]) T {
	v, ok := Get(s, sym)
	if !ok {
		panic(ErrUnboundSymbol.With(
			slog.String("symbol", sym.name),
			slog.String("scope", "no binding in frame"),
		))
	}

	return v
}

// Has reports whether sym is bound in the innermost frame.
func Has[T any](s *Scope, sym *Symbol[T]) bool {
	return s.find(sym.id) >= 0
}

// LogValue implements slog.LogValuer, listing the innermost frame.
func (s *Scope) LogValue() slog.Value {
	start := s.frameStart()
	attrs := make([]slog.Attr, 0, len(s.values)-start)

	for _, b := range s.values[start:] {
		attrs = append(attrs, slog.Any(b.name, b.value))
	}

	return slog.GroupValue(attrs...)
}
