package argument

import (
	"context"
	"slices"

	"github.com/ardnew/packrat/reader"
	"github.com/ardnew/packrat/suggest"
)

var (
	// ErrExpectedValue is returned when no value could be read.
	ErrExpectedValue = reader.NewErrorType("expected value")
	// ErrUnknownChoice receives the value that matched no choice.
	ErrUnknownChoice = reader.NewErrorType("unknown value '%s'")
)

// StringKind selects how much input a [String] parser reads.
type StringKind int

const (
	// Word reads one unquoted word.
	Word StringKind = iota
	// Quotable reads a quoted string or one unquoted word.
	Quotable
	// Greedy reads the rest of the input.
	Greedy
)

// String parses a string of the given kind.
type String struct{ Kind StringKind }

// Parse implements [Parser].
func (s String) Parse(r *reader.String) (string, error) {
	switch s.Kind {
	case Greedy:
		text := r.Remaining()
		r.SetCursor(r.Len())

		return text, nil

	case Quotable:
		start := r.Cursor()

		text, err := r.ReadString()
		if err != nil {
			return "", err
		}

		if r.Cursor() == start {
			return "", ErrExpectedValue.CreateWithContext(r)
		}

		return text, nil

	default:
		text := r.ReadUnquoted()
		if text == "" {
			return "", ErrExpectedValue.CreateWithContext(r)
		}

		return text, nil
	}
}

// ListSuggestions implements [Parser]. Free text has no completions.
func (String) ListSuggestions(_ context.Context, b *suggest.Builder) *suggest.Future {
	return b.BuildFuture()
}

// Choice parses one unquoted word from a fixed set.
type Choice []string

// Parse implements [Parser].
func (c Choice) Parse(r *reader.String) (string, error) {
	start := r.Cursor()

	text := r.ReadUnquoted()
	if text == "" {
		return "", ErrExpectedValue.CreateWithContext(r)
	}

	if !slices.Contains(c, text) {
		r.SetCursor(start)

		return "", ErrUnknownChoice.CreateWithContext(r, text)
	}

	return text, nil
}

// ListSuggestions implements [Parser].
func (c Choice) ListSuggestions(_ context.Context, b *suggest.Builder) *suggest.Future {
	return b.SuggestMatching(c...).BuildFuture()
}
