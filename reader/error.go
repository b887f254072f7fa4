package reader

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// contextAmount is the number of bytes of input shown before the cursor in
// syntax error messages.
const contextAmount = 10

// Built-in error types raised by [String].
var (
	ErrExpectedStartOfQuote = NewErrorType("expected quote to start a string")
	ErrExpectedEndOfQuote   = NewErrorType("unclosed quoted string")
	ErrInvalidEscape        = NewErrorType("invalid escape sequence '%s' in quoted string")
	ErrExpectedSymbol       = NewErrorType("expected '%s'")
	ErrLiteralIncorrect     = NewErrorType("expected literal %s")
	ErrExpectedEnd          = NewErrorType("expected end of input")
	ErrTrailingInput        = NewErrorType("unexpected trailing input")
)

// ErrorType is a factory for syntax errors sharing one message format.
// Errors created from a type can be recognized with [errors.Is] against
// [ErrorType.Err].
type ErrorType struct {
	format string
	err    error
}

// NewErrorType returns an error type whose messages are produced by
// fmt.Sprintf(format, args...).
func NewErrorType(format string) *ErrorType {
	return &ErrorType{format: format, err: errors.New(format)}
}

// Err returns the sentinel identifying errors of this type.
func (t *ErrorType) Err() error { return t.err }

// Create returns an error of this type with no input context.
func (t *ErrorType) Create(args ...any) *SyntaxError {
	return &SyntaxError{
		typ:    t,
		Msg:    t.message(args...),
		Cursor: -1,
	}
}

// Positioned is anything that can anchor a syntax error.
type Positioned interface {
	Input() string
	Cursor() int
}

// CreateWithContext returns an error of this type anchored at the cursor of
// p.
func (t *ErrorType) CreateWithContext(p Positioned, args ...any) *SyntaxError {
	return t.CreateAt(p.Input(), p.Cursor(), args...)
}

// CreateAt returns an error of this type anchored at cursor within input.
func (t *ErrorType) CreateAt(input string, cursor int, args ...any) *SyntaxError {
	return &SyntaxError{
		typ:    t,
		Msg:    t.message(args...),
		Input:  input,
		Cursor: max(0, min(cursor, len(input))),
	}
}

func (t *ErrorType) message(args ...any) string {
	if len(args) == 0 {
		return t.format
	}

	return fmt.Sprintf(t.format, args...)
}

// SyntaxError is a parse error anchored at a cursor position. It is the
// error leaf rules raise for conditions that should not be retried as
// another alternative, and also the usual reason attached to diagnostics.
type SyntaxError struct {
	typ    *ErrorType
	Msg    string
	Input  string
	Cursor int // -1 when the error has no input context
}

// Error renders the message followed by the input preceding the cursor.
func (e *SyntaxError) Error() string {
	ctx := e.Context()
	if ctx == "" {
		return e.Msg
	}

	return e.Msg + " at position " + strconv.Itoa(e.Cursor) + ": " + ctx
}

// Context returns up to ten bytes of input before the cursor followed by a
// marker, or "" when the error has no context. The excerpt never starts
// inside a multi-byte rune.
func (e *SyntaxError) Context() string {
	if e.Cursor < 0 {
		return ""
	}

	start := max(0, e.Cursor-contextAmount)
	for start > 0 && start < e.Cursor && !utf8.RuneStart(e.Input[start]) {
		start++
	}

	prefix := ""
	if start > 0 {
		prefix = "..."
	}

	return prefix + e.Input[start:e.Cursor] + "<--[HERE]"
}

// Type returns the error type that created e.
func (e *SyntaxError) Type() *ErrorType { return e.typ }

// Is reports whether target is the sentinel of e's type.
func (e *SyntaxError) Is(target error) bool {
	return e.typ != nil && target == e.typ.err
}

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("error", e.Msg)}
	if e.Cursor >= 0 {
		attrs = append(attrs,
			slog.Int("cursor", e.Cursor),
			slog.String("context", e.Context()),
		)
	}

	return slog.GroupValue(attrs...)
}
