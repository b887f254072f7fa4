package packrat

import (
	"regexp"
	"strings"

	"github.com/ardnew/packrat/reader"
)

// TextReader is the reader contract of the text terms and leaf rules.
// [*reader.String] satisfies it.
type TextReader interface {
	Reader
	Input() string
	CanRead() bool
	Peek() rune
	Skip()
	SkipWhitespace()
	Match(re *regexp.Regexp) (string, bool)
	ReadWhile(accept func(rune) bool) string
	ReadUnquoted() string
	ReadString() (string, error)
}

// Char matches any one of the given runes after optional whitespace.
func Char[S TextReader](runes ...rune) Term[S] {
	values := make(Candidates[S], len(runes))
	for i, c := range runes {
		values[i] = string(c)
	}

	return TermFunc[S](func(st State[S], _ *Scope, _ Cut) (bool, error) {
		r := st.Reader()
		r.SkipWhitespace()

		start := r.Cursor()

		if r.CanRead() {
			c := r.Peek()
			for _, want := range runes {
				if c == want {
					r.Skip()

					return true, nil
				}
			}
		}

		st.Diagnostics().Add(start, values,
			reader.ErrLiteralIncorrect.CreateWithContext(r, quoteAll(values)))

		return false, nil
	})
}

// Literal matches text after optional whitespace.
func Literal[S TextReader](text string) Term[S] {
	values := Candidates[S]{text}

	return TermFunc[S](func(st State[S], _ *Scope, _ Cut) (bool, error) {
		r := st.Reader()
		r.SkipWhitespace()

		start := r.Cursor()

		if strings.HasPrefix(r.Input()[start:], text) {
			r.SetCursor(start + len(text))

			return true, nil
		}

		st.Diagnostics().Add(start, values,
			reader.ErrLiteralIncorrect.CreateWithContext(r, quoteAll(values)))

		return false, nil
	})
}

// End matches the end of input after optional whitespace.
func End[S TextReader]() Term[S] {
	return TermFunc[S](func(st State[S], _ *Scope, _ Cut) (bool, error) {
		r := st.Reader()
		r.SkipWhitespace()

		if !r.CanRead() {
			return true, nil
		}

		st.Diagnostics().Add(r.Cursor(), nil, reader.ErrExpectedEnd.CreateWithContext(r))

		return false, nil
	})
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}

	return strings.Join(quoted, " or ")
}
