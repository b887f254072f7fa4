package packrat

import (
	"errors"
	"fmt"
	"slices"
)

// Suggestable lists the completions that would have let a parse continue
// where a diagnostic was recorded.
type Suggestable[S Reader] interface {
	PossibleValues(st State[S]) []string
}

// Candidates is a fixed list of completions.
type Candidates[S Reader] []string

// PossibleValues implements [Suggestable].
func (c Candidates[S]) PossibleValues(State[S]) []string { return c }

// Diagnostic records why a parse attempt stopped at Cursor.
type Diagnostic[S Reader] struct {
	Cursor int
	Source Suggestable[S] // may be nil
	Reason any
}

// Err returns Reason as an error.
func (d Diagnostic[S]) Err() error {
	switch r := d.Reason.(type) {
	case error:
		return r
	case nil:
		return fmt.Errorf("%w at position %d", ErrParse, d.Cursor)
	default:
		return errors.New(fmt.Sprint(r))
	}
}

func (d Diagnostic[S]) Error() string { return d.Err().Error() }

// Diagnostics is a sink for diagnostics.
type Diagnostics[S Reader] interface {
	Add(cursor int, source Suggestable[S], reason any)
}

type discard[S Reader] struct{}

func (discard[S]) Add(int, Suggestable[S], any) {}

// Discard returns a sink that drops every diagnostic.
func Discard[S Reader]() Diagnostics[S] { return discard[S]{} }

// DiagnosticList accumulates diagnostics for one parse. Only those recorded
// at the furthest cursor are reported.
type DiagnosticList[S Reader] struct {
	entries []Diagnostic[S]
}

// Add implements [Diagnostics].
func (l *DiagnosticList[S]) Add(cursor int, source Suggestable[S], reason any) {
	l.entries = append(l.entries, Diagnostic[S]{
		Cursor: cursor,
		Source: source,
		Reason: reason,
	})
}

// SetCursor confirms progress up to cursor, dropping every diagnostic at or
// before it.
func (l *DiagnosticList[S]) SetCursor(cursor int) {
	l.entries = slices.DeleteFunc(l.entries, func(d Diagnostic[S]) bool {
		return d.Cursor <= cursor
	})
}

// Furthest returns the largest recorded cursor, or -1 if the list is empty.
func (l *DiagnosticList[S]) Furthest() int {
	far := -1
	for _, d := range l.entries {
		far = max(far, d.Cursor)
	}

	return far
}

// Report returns the diagnostics at the furthest cursor in the order they
// were added.
func (l *DiagnosticList[S]) Report() []Diagnostic[S] {
	far := l.Furthest()

	var out []Diagnostic[S]

	for _, d := range l.entries {
		if d.Cursor == far {
			out = append(out, d)
		}
	}

	return out
}

// All returns every retained diagnostic.
func (l *DiagnosticList[S]) All() []Diagnostic[S] { return slices.Clone(l.entries) }

// Len returns the number of retained diagnostics.
func (l *DiagnosticList[S]) Len() int { return len(l.entries) }
