package packrat

// Term is one element of a rule body. Match reports whether the term
// matched at the cursor. A non-nil error is fatal and aborts the enclosing
// rule.
type Term[S Reader] interface {
	Match(st State[S], sc *Scope, cut Cut) (bool, error)
}

// TermFunc adapts a function to [Term].
type TermFunc[S Reader] func(st State[S], sc *Scope, cut Cut) (bool, error)

// Match implements [Term].
func (f TermFunc[S]) Match(st State[S], sc *Scope, cut Cut) (bool, error) {
	return f(st, sc, cut)
}

// Sequence matches every term in order, restoring the cursor if any fails.
func Sequence[S Reader](terms ...Term[S]) Term[S] {
	return TermFunc[S](func(st State[S], sc *Scope, cut Cut) (bool, error) {
		start := st.Cursor()

		for _, t := range terms {
			ok, err := t.Match(st, sc, cut)
			if err != nil {
				return false, err
			}

			if !ok {
				st.SetCursor(start)

				return false, nil
			}
		}

		return true, nil
	})
}

// AnyOf tries each term in order and matches the first that does. Each
// alternative runs in a copy of the current scope frame that replaces it on
// success. An alternative that cuts the handle it was given and then fails
// ends the choice.
func AnyOf[S Reader](terms ...Term[S]) Term[S] {
	return TermFunc[S](func(st State[S], sc *Scope, _ Cut) (bool, error) {
		cut := st.PushCutter()
		defer st.PopCutter()

		start := st.Cursor()

		for _, t := range terms {
			sc.Fork()

			ok, err := t.Match(st, sc, cut)
			if err != nil {
				sc.PopFrame()

				return false, err
			}

			if ok {
				sc.Merge()

				return true, nil
			}

			sc.PopFrame()
			st.SetCursor(start)

			if cut.IsCut() {
				break
			}
		}

		return false, nil
	})
}

// Optional matches term or nothing.
func Optional[S Reader](term Term[S]) Term[S] {
	return TermFunc[S](func(st State[S], sc *Scope, cut Cut) (bool, error) {
		start := st.Cursor()

		ok, err := term.Match(st, sc, cut)
		if err != nil {
			return false, err
		}

		if !ok {
			st.SetCursor(start)
		}

		return true, nil
	})
}

// Repeated applies element as many times as it matches and binds the
// values to list. Fewer than minimum matches is a failure.
func Repeated[S Reader, T any](element *Entry[S, T], list *Symbol[[]T], minimum int) Term[S] {
	return TermFunc[S](func(st State[S], sc *Scope, _ Cut) (bool, error) {
		start := st.Cursor()
		values := make([]T, 0, max(minimum, 0))

		for {
			pos := st.Cursor()

			r := Parse(st, element)
			if r.IsFatal() {
				return false, r.Err()
			}

			v, ok := r.Get()
			if !ok {
				st.SetCursor(pos)

				break
			}

			values = append(values, v)

			if st.Cursor() == pos {
				break
			}
		}

		if len(values) < minimum {
			st.SetCursor(start)

			return false, nil
		}

		Put(sc, list, values)

		return true, nil
	})
}

// RepeatedWithSeparator applies element as many times as it matches with
// separator between consecutive elements. A separator not followed by an
// element is a failure.
func RepeatedWithSeparator[S Reader, T any](
	element *Entry[S, T],
	list *Symbol[[]T],
	separator Term[S],
	minimum int,
) Term[S] {
	return repeatSeparated(element, list, separator, minimum, false)
}

// RepeatedWithTrailingSeparator is like [RepeatedWithSeparator] but accepts
// one separator after the last element.
func RepeatedWithTrailingSeparator[S Reader, T any](
	element *Entry[S, T],
	list *Symbol[[]T],
	separator Term[S],
	minimum int,
) Term[S] {
	return repeatSeparated(element, list, separator, minimum, true)
}

func repeatSeparated[S Reader, T any](
	element *Entry[S, T],
	list *Symbol[[]T],
	separator Term[S],
	minimum int,
	trailing bool,
) Term[S] {
	return TermFunc[S](func(st State[S], sc *Scope, cut Cut) (bool, error) {
		start := st.Cursor()
		values := make([]T, 0, max(minimum, 0))

		for first := true; ; first = false {
			pos := st.Cursor()

			if !first {
				ok, err := separator.Match(st, sc, cut)
				if err != nil {
					return false, err
				}

				if !ok {
					st.SetCursor(pos)

					break
				}
			}

			elem := st.Cursor()

			r := Parse(st, element)
			if r.IsFatal() {
				return false, r.Err()
			}

			v, ok := r.Get()
			if !ok {
				if !first && !trailing {
					st.SetCursor(start)

					return false, nil
				}

				st.SetCursor(elem)

				break
			}

			values = append(values, v)

			if st.Cursor() == pos {
				break
			}
		}

		if len(values) < minimum {
			st.SetCursor(start)

			return false, nil
		}

		Put(sc, list, values)

		return true, nil
	})
}

// PositiveLookahead matches where term matches without consuming input.
// Term runs against the suppressing view.
func PositiveLookahead[S Reader](term Term[S]) Term[S] {
	return lookahead(term, true)
}

// NegativeLookahead matches where term does not, without consuming input.
// Term runs against the suppressing view.
func NegativeLookahead[S Reader](term Term[S]) Term[S] {
	return lookahead(term, false)
}

func lookahead[S Reader](term Term[S], positive bool) Term[S] {
	return TermFunc[S](func(st State[S], sc *Scope, cut Cut) (bool, error) {
		start := st.Cursor()

		ok, err := term.Match(st.Suppressing(), sc, cut)
		st.SetCursor(start)

		if err != nil {
			return false, err
		}

		return ok == positive, nil
	})
}

// Cutting always matches and cuts the handle it is given.
func Cutting[S Reader]() Term[S] {
	return TermFunc[S](func(_ State[S], _ *Scope, cut Cut) (bool, error) {
		cut.Cut()

		return true, nil
	})
}

// Epsilon always matches, consuming nothing.
func Epsilon[S Reader]() Term[S] {
	return TermFunc[S](func(State[S], *Scope, Cut) (bool, error) {
		return true, nil
	})
}

// FailWith never matches and records reason at the cursor.
func FailWith[S Reader](reason any) Term[S] {
	return TermFunc[S](func(st State[S], _ *Scope, _ Cut) (bool, error) {
		st.Diagnostics().Add(st.Cursor(), nil, reason)

		return false, nil
	})
}

// Always matches, binding v to sym.
func Always[S Reader, T any](sym *Symbol[T], v T) Term[S] {
	return TermFunc[S](func(_ State[S], sc *Scope, _ Cut) (bool, error) {
		Put(sc, sym, v)

		return true, nil
	})
}

// Ref applies entry and binds its value to the entry's symbol.
func Ref[S Reader, T any](entry *Entry[S, T]) Term[S] {
	return TermFunc[S](func(st State[S], sc *Scope, _ Cut) (bool, error) {
		r := Parse(st, entry)
		if r.IsFatal() {
			return false, r.Err()
		}

		v, ok := r.Get()
		if ok {
			Put(sc, entry.sym, v)
		}

		return ok, nil
	})
}
