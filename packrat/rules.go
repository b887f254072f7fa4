package packrat

import (
	"errors"
	"log/slog"
)

type ruleEntry interface {
	bound() bool
	symbolName() string
}

// Rules is a dictionary of entries keyed by symbol. Looking up a symbol
// before its rule is defined returns a placeholder entry that the later
// definition binds, which is how recursive grammars refer forward.
type Rules[S Reader] struct {
	entries map[uint64]ruleEntry
	order   []uint64
}

// NewRules returns an empty dictionary.
func NewRules[S Reader]() *Rules[S] {
	return &Rules[S]{entries: make(map[uint64]ruleEntry)}
}

// Lookup returns the entry for sym, creating an unbound placeholder if sym
// has no entry yet.
func Lookup[S Reader, T any](rs *Rules[S], sym *Symbol[T]) *Entry[S, T] {
	if e, ok := rs.entries[sym.id]; ok {
		return e.(*Entry[S, T]) //nolint:forcetypeassert
	}

	e := &Entry[S, T]{sym: sym}
	rs.entries[sym.id] = e
	rs.order = append(rs.order, sym.id)

	return e
}

// Set binds rule to sym. Binding a symbol twice panics with
// [ErrDuplicateSymbol].
func Set[S Reader, T any](rs *Rules[S], sym *Symbol[T], rule Rule[S, T]) *Entry[S, T] {
	e := Lookup(rs, sym)
	if e.rule != nil {
		panic(ErrDuplicateSymbol.With(slog.String("symbol", sym.name)))
	}

	e.rule = rule

	return e
}

// Define binds sym to a rule built from term and action with [FromTerm].
func Define[S Reader, T any](
	rs *Rules[S],
	sym *Symbol[T],
	term Term[S],
	action Action[S, T],
) *Entry[S, T] {
	return Set(rs, sym, FromTerm(term, action))
}

// RefTo returns a term applying the entry of sym, which may be defined
// later.
func RefTo[S Reader, T any](rs *Rules[S], sym *Symbol[T]) Term[S] {
	return Ref(Lookup(rs, sym))
}

// Len returns the number of entries, bound or not.
func (rs *Rules[S]) Len() int { return len(rs.order) }

// Validate reports every symbol that was referenced but never bound.
func (rs *Rules[S]) Validate() error {
	var errs []error

	for _, id := range rs.order {
		if e := rs.entries[id]; !e.bound() {
			errs = append(errs, ErrUnboundSymbol.With(slog.String("symbol", e.symbolName())).
				Wrap(errors.New(e.symbolName())))
		}
	}

	return errors.Join(errs...)
}
