// Package argument defines suggestion-aware parsers of single values and
// the adapters that compose them.
//
// A [Parser] reads one value at the cursor of a [reader.String] and can list
// completions for partially typed input. [Map] transforms a parsed value,
// and [WithDecoding] runs a [Codec] over it, turning decode failures into
// syntax errors positioned where the value began.
package argument

import (
	"context"

	"github.com/ardnew/packrat/reader"
	"github.com/ardnew/packrat/suggest"
)

// Parser parses one value and suggests completions for it.
type Parser[T any] interface {
	Parse(r *reader.String) (T, error)
	ListSuggestions(ctx context.Context, b *suggest.Builder) *suggest.Future
}

// ErrInvalidValue is the default error type of a failed decode. It receives
// the decoder's error as its argument.
var ErrInvalidValue = reader.NewErrorType("invalid value: %v")

type mapped[T, U any] struct {
	p Parser[T]
	f func(T) U
}

// Map returns a parser applying f to every value p parses. Suggestions are
// those of p.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return mapped[T, U]{p: p, f: f}
}

func (m mapped[T, U]) Parse(r *reader.String) (U, error) {
	v, err := m.p.Parse(r)
	if err != nil {
		var zero U

		return zero, err
	}

	return m.f(v), nil
}

func (m mapped[T, U]) ListSuggestions(ctx context.Context, b *suggest.Builder) *suggest.Future {
	return m.p.ListSuggestions(ctx, b)
}

type decoding[E, T any] struct {
	p       Parser[E]
	codec   Codec[E, T]
	errType *reader.ErrorType
}

// WithDecoding returns a parser that parses an encoded value with p and
// decodes it with codec. When decoding fails the reader is returned to where
// parsing began and the error is errType created with the decode error as
// argument. A nil errType uses [ErrInvalidValue].
func WithDecoding[E, T any](p Parser[E], codec Codec[E, T], errType *reader.ErrorType) Parser[T] {
	if errType == nil {
		errType = ErrInvalidValue
	}

	return decoding[E, T]{p: p, codec: codec, errType: errType}
}

func (d decoding[E, T]) Parse(r *reader.String) (T, error) {
	var zero T

	start := r.Cursor()

	enc, err := d.p.Parse(r)
	if err != nil {
		return zero, err
	}

	v, err := d.codec.Decode(enc)
	if err != nil {
		r.SetCursor(start)

		return zero, d.errType.CreateWithContext(r, err)
	}

	return v, nil
}

func (d decoding[E, T]) ListSuggestions(ctx context.Context, b *suggest.Builder) *suggest.Future {
	return d.p.ListSuggestions(ctx, b)
}

// ParseAll parses all of s with p. Input left after the value is a
// [reader.ErrTrailingInput] error.
func ParseAll[T any](p Parser[T], s string) (T, error) {
	r := reader.New(s)

	v, err := p.Parse(r)
	if err != nil {
		return v, err
	}

	r.SkipWhitespace()

	if r.CanRead() {
		var zero T

		return zero, reader.ErrTrailingInput.CreateWithContext(r)
	}

	return v, nil
}
