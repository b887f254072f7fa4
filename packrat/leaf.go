package packrat

import (
	"errors"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"unicode/utf8"

	"github.com/ardnew/packrat/reader"
)

// PatternRule matches re at the cursor after optional whitespace. re should
// be anchored with `^`. A mismatch records one diagnostic at the start
// cursor.
func PatternRule[S TextReader](re *regexp.Regexp, errType *reader.ErrorType) Rule[S, string] {
	return RuleFunc[S, string](func(st State[S]) Result[string] {
		r := st.Reader()
		r.SkipWhitespace()

		start := r.Cursor()

		text, ok := r.Match(re)
		if !ok {
			st.Diagnostics().Add(start, nil, errType.CreateWithContext(r))

			return Fail[string]()
		}

		return Success(text)
	})
}

// TokenRule reads the runes accepted by accept after optional whitespace.
// A token shorter than minimum runes records one diagnostic at the start
// cursor.
func TokenRule[S TextReader](
	minimum int,
	accept func(rune) bool,
	errType *reader.ErrorType,
) Rule[S, string] {
	return RuleFunc[S, string](func(st State[S]) Result[string] {
		r := st.Reader()
		r.SkipWhitespace()

		start := r.Cursor()

		text := r.ReadWhile(accept)
		if utf8.RuneCountInString(text) < minimum {
			r.SetCursor(start)
			st.Diagnostics().Add(start, nil, errType.CreateWithContext(r))

			return Fail[string]()
		}

		return Success(text)
	})
}

// UnquotedRule reads an unquoted string of at least minimum runes.
func UnquotedRule[S TextReader](minimum int, errType *reader.ErrorType) Rule[S, string] {
	return TokenRule[S](minimum, reader.IsUnquotedRune, errType)
}

// StringRule reads a quoted or unquoted string. A malformed quoted string
// records the reader's own error instead of errType.
func StringRule[S TextReader](errType *reader.ErrorType) Rule[S, string] {
	return RuleFunc[S, string](func(st State[S]) Result[string] {
		r := st.Reader()
		r.SkipWhitespace()

		start := r.Cursor()

		if !r.CanRead() {
			st.Diagnostics().Add(start, nil, errType.CreateWithContext(r))

			return Fail[string]()
		}

		text, err := r.ReadString()
		if err != nil {
			r.SetCursor(start)
			st.Diagnostics().Add(start, nil, err)

			return Fail[string]()
		}

		if r.Cursor() == start {
			st.Diagnostics().Add(start, nil, errType.CreateWithContext(r))

			return Fail[string]()
		}

		return Success(text)
	})
}

var (
	identifierPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	errExpectedKeyword = reader.NewErrorType("expected %s")
)

// IdentifierRule reads a keyword-like identifier: a letter or underscore
// followed by letters, digits and underscores.
func IdentifierRule[S TextReader](errType *reader.ErrorType) Rule[S, string] {
	return PatternRule[S](identifierPattern, errType)
}

// Continuation parses what follows a keyword.
type Continuation[S Reader, T any] func(st State[S], keyword string) Result[T]

// Dispatch selects a continuation by the keyword read through its keyword
// entry. A fatal continuation is recorded as a diagnostic at the keyword
// and reported as an ordinary failure, so enclosing alternatives are still
// tried.
type Dispatch[S TextReader, T any] struct {
	keyword *Entry[S, string]
	unknown *reader.ErrorType
	table   map[string]Continuation[S, T]
}

// NewDispatch returns a dispatch over keyword with no continuations.
// unknown is recorded for keywords with no continuation and receives the
// keyword as its argument.
func NewDispatch[S TextReader, T any](
	keyword *Entry[S, string],
	unknown *reader.ErrorType,
) *Dispatch[S, T] {
	return &Dispatch[S, T]{
		keyword: keyword,
		unknown: unknown,
		table:   make(map[string]Continuation[S, T]),
	}
}

// Handle registers c for keyword.
func (d *Dispatch[S, T]) Handle(keyword string, c Continuation[S, T]) *Dispatch[S, T] {
	d.table[keyword] = c

	return d
}

// Parse implements [Rule].
func (d *Dispatch[S, T]) Parse(st State[S]) Result[T] {
	r := st.Reader()
	r.SkipWhitespace()

	start := r.Cursor()

	kr := Parse(st, d.keyword)
	if kr.IsFatal() {
		return Fatal[T](kr.Err())
	}

	keyword, ok := kr.Get()
	if !ok {
		st.Diagnostics().Add(start, d, errExpectedKeyword.CreateAt(r.Input(), start, quoteAll(d.Keywords())))

		return Fail[T]()
	}

	cont, ok := d.table[keyword]
	if !ok {
		st.Diagnostics().Add(start, d, d.unknown.CreateAt(r.Input(), start, keyword))
		st.SetCursor(start)

		return Fail[T]()
	}

	res := cont(st, keyword)
	if res.IsFatal() && !engineFatal(res.Err()) {
		st.engine().log.Trace("fatal continuation downgraded",
			slog.String("keyword", keyword),
			slog.Int("cursor", start),
			slog.Any("error", res.Err()),
		)
		st.Diagnostics().Add(start, d, res.Err())
		st.SetCursor(start)

		return Fail[T]()
	}

	return res
}

// engineFatal reports whether err is a failure of the engine itself rather
// than of the input. Dispatch never downgrades these.
func engineFatal(err error) bool {
	return errors.Is(err, ErrMaxDepthExceeded) ||
		errors.Is(err, ErrUnboundSymbol) ||
		errors.Is(err, ErrMalformedState)
}

// Keywords returns the registered keywords in sorted order.
func (d *Dispatch[S, T]) Keywords() []string {
	return slices.Sorted(maps.Keys(d.table))
}

// PossibleValues implements [Suggestable].
func (d *Dispatch[S, T]) PossibleValues(State[S]) []string { return d.Keywords() }
