package grammar

import (
	"github.com/ardnew/packrat/argument"
	"github.com/ardnew/packrat/packrat"
	"github.com/ardnew/packrat/reader"
)

type input = *reader.String

// Argument returns a rule applying p after optional whitespace. An error
// from p is recorded as a diagnostic where p started and the rule fails.
func Argument[T any](p argument.Parser[T]) packrat.Rule[input, T] {
	return packrat.RuleFunc[input, T](func(st packrat.State[input]) packrat.Result[T] {
		r := st.Reader()
		r.SkipWhitespace()

		start := r.Cursor()

		v, err := p.Parse(r)
		if err != nil {
			st.Diagnostics().Add(start, nil, err)
			st.SetCursor(start)

			return packrat.Fail[T]()
		}

		return packrat.Success(v)
	})
}

// mark binds the cursor after optional whitespace to sym.
func mark(sym *packrat.Symbol[int]) packrat.Term[input] {
	return packrat.TermFunc[input](func(st packrat.State[input], sc *packrat.Scope, _ packrat.Cut) (bool, error) {
		st.Reader().SkipWhitespace()
		packrat.Put(sc, sym, st.Cursor())

		return true, nil
	})
}
