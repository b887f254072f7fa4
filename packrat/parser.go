package packrat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/packrat/reader"
	"github.com/ardnew/packrat/suggest"
)

// Parser parses text with the rule of a top-level symbol. Each call builds a
// fresh [Engine], so a Parser may be used from several goroutines.
type Parser[T any] struct {
	entry *Entry[*reader.String, T]
	opts  []Option
}

// NewParser returns a parser applying the rule bound to top. It fails if
// any symbol referenced from rules has no rule.
func NewParser[T any](
	rules *Rules[*reader.String],
	top *Symbol[T],
	opts ...Option,
) (*Parser[T], error) {
	entry := Lookup(rules, top)

	if err := rules.Validate(); err != nil {
		return nil, err
	}

	return &Parser[T]{entry: entry, opts: opts}, nil
}

// Parse applies the top-level rule at the cursor of r. On failure the error
// describes the furthest point any alternative reached.
func (p *Parser[T]) Parse(r *reader.String) (T, error) {
	st := NewState(r, p.opts...)

	res := StartParsing(st, p.entry)

	v, ok := res.Get()
	if ok {
		return v, nil
	}

	if res.IsFatal() {
		return v, res.Err()
	}

	return v, report(r, st.DiagnosticList())
}

// ParseString parses all of s. Input left after the top-level rule is an
// error.
func (p *Parser[T]) ParseString(s string) (T, error) {
	r := reader.New(s)

	v, err := p.Parse(r)
	if err != nil {
		return v, err
	}

	r.SkipWhitespace()

	if r.CanRead() {
		var zero T

		return zero, ErrTrailingInput.Wrap(reader.ErrTrailingInput.CreateWithContext(r))
	}

	return v, nil
}

// ListSuggestions parses the builder's input from its start and suggests
// the values that could continue the parse where it got furthest.
func (p *Parser[T]) ListSuggestions(ctx context.Context, b *suggest.Builder) *suggest.Future {
	return suggest.Go(ctx, func(context.Context) (suggest.Suggestions, error) {
		r := reader.New(b.Input())
		r.SetCursor(b.Start())

		st := NewState(r, p.opts...)
		res := run(st, p.entry)

		list := st.DiagnosticList()
		far := list.Furthest()

		// Diagnostics behind a successful parse's end are dead ends.
		if far < 0 || res.IsSuccess() && far < st.Cursor() {
			return b.Build(), nil
		}

		off := b.CreateOffset(far)

		for _, d := range list.Report() {
			if d.Source == nil {
				continue
			}

			for _, v := range d.Source.PossibleValues(st) {
				off.Suggest(v)
			}
		}

		return off.Build(), nil
	})
}

// report selects the error describing a failed parse: the first syntax error
// at the furthest cursor, or the only reason there, or all of them joined.
func report(r *reader.String, list *DiagnosticList[*reader.String]) error {
	diags := list.Report()

	if len(diags) == 0 {
		return ErrParse.With(slog.Int("cursor", r.Cursor()))
	}

	for _, d := range diags {
		var se *reader.SyntaxError
		if errors.As(d.Err(), &se) {
			return se
		}
	}

	if len(diags) == 1 {
		return diags[0].Err()
	}

	errs := make([]error, len(diags))
	for i, d := range diags {
		errs[i] = d.Err()
	}

	return ErrParse.With(slog.Int("cursor", diags[0].Cursor)).Wrap(errors.Join(errs...))
}
