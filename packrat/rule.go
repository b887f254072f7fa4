package packrat

// Rule is the executable logic of a grammar production.
type Rule[S Reader, T any] interface {
	Parse(st State[S]) Result[T]
}

// RuleFunc adapts a function to [Rule].
type RuleFunc[S Reader, T any] func(st State[S]) Result[T]

// Parse implements [Rule].
func (f RuleFunc[S, T]) Parse(st State[S]) Result[T] { return f(st) }

// Entry pairs a symbol with the rule producing it. Entries, not bare rules,
// are dispatched, so memoization is always keyed by the symbol.
type Entry[S Reader, T any] struct {
	sym  *Symbol[T]
	rule Rule[S, T]
}

// NewEntry binds rule to sym.
func NewEntry[S Reader, T any](sym *Symbol[T], rule Rule[S, T]) *Entry[S, T] {
	return &Entry[S, T]{sym: sym, rule: rule}
}

// Symbol returns the symbol of e.
func (e *Entry[S, T]) Symbol() *Symbol[T] { return e.sym }

// Rule returns the rule of e, or nil while e is an unbound forward
// reference.
func (e *Entry[S, T]) Rule() Rule[S, T] { return e.rule }

func (e *Entry[S, T]) String() string { return e.sym.String() }

func (e *Entry[S, T]) bound() bool        { return e.rule != nil }
func (e *Entry[S, T]) symbolName() string { return e.sym.name }

// Action builds the value of a rule from the bindings its term left in
// scope.
type Action[S Reader, T any] func(st State[S], sc *Scope) Result[T]

// Returning adapts a function that cannot fail to [Action].
func Returning[S Reader, T any](f func(sc *Scope) T) Action[S, T] {
	return func(_ State[S], sc *Scope) Result[T] { return Success(f(sc)) }
}

// FromTerm returns a rule that matches term in a fresh scope frame and, on
// a match, runs action. The term runs with [NoCut].
func FromTerm[S Reader, T any](term Term[S], action Action[S, T]) Rule[S, T] {
	return RuleFunc[S, T](func(st State[S]) Result[T] {
		sc := st.Scope()
		sc.PushFrame()

		defer sc.PopFrame()

		ok, err := term.Match(st, sc, NoCut)

		switch {
		case err != nil:
			return Fatal[T](err)
		case !ok:
			return Fail[T]()
		default:
			return action(st, sc)
		}
	})
}
