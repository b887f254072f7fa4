// Package reader implements a cursor-bearing text scanner and the syntax
// error type anchored to positions within it.
//
// A [String] is deliberately dumb: it knows how to skip whitespace, match
// anchored patterns, and read quoted or unquoted tokens, and nothing about
// grammars. Parsers move its cursor freely, including backwards.
package reader

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	quoteDouble = '"'
	quoteSingle = '\''
	escape      = '\\'
)

// String is a cursor over an immutable input string. The cursor is a byte
// offset.
type String struct {
	input  string
	cursor int
}

// New returns a reader positioned at the start of input.
func New(input string) *String {
	return &String{input: input}
}

// Copy returns an independent reader over the same input at the same cursor.
func (r *String) Copy() *String {
	c := *r

	return &c
}

// Input returns the complete input.
func (r *String) Input() string { return r.input }

// Cursor returns the current byte offset.
func (r *String) Cursor() int { return r.cursor }

// SetCursor moves the cursor, clamped to the input bounds.
func (r *String) SetCursor(cursor int) {
	r.cursor = max(0, min(cursor, len(r.input)))
}

// Len returns the input length in bytes.
func (r *String) Len() int { return len(r.input) }

// Read returns the consumed part of the input.
func (r *String) Read() string { return r.input[:r.cursor] }

// Remaining returns the unconsumed part of the input.
func (r *String) Remaining() string { return r.input[r.cursor:] }

// CanRead reports whether any input remains.
func (r *String) CanRead() bool { return r.cursor < len(r.input) }

// Peek returns the rune at the cursor, or utf8.RuneError at end of input.
func (r *String) Peek() rune {
	if !r.CanRead() {
		return utf8.RuneError
	}

	c, _ := utf8.DecodeRuneInString(r.input[r.cursor:])

	return c
}

// Skip advances past the rune at the cursor.
func (r *String) Skip() {
	if !r.CanRead() {
		return
	}

	_, size := utf8.DecodeRuneInString(r.input[r.cursor:])
	r.cursor += size
}

// SkipWhitespace advances past any Unicode white space.
func (r *String) SkipWhitespace() {
	for r.CanRead() && unicode.IsSpace(r.Peek()) {
		r.Skip()
	}
}

// ReadWhile consumes and returns the longest run of runes accepted by accept.
func (r *String) ReadWhile(accept func(rune) bool) string {
	start := r.cursor

	for r.CanRead() && accept(r.Peek()) {
		r.Skip()
	}

	return r.input[start:r.cursor]
}

// Match matches re anchored at the cursor. On success the match is consumed
// and returned. re should begin with `^` or `\A`; unanchored matches that
// start after the cursor are rejected.
func (r *String) Match(re *regexp.Regexp) (string, bool) {
	loc := re.FindStringIndex(r.input[r.cursor:])
	if loc == nil || loc[0] != 0 {
		return "", false
	}

	text := r.input[r.cursor : r.cursor+loc[1]]
	r.cursor += loc[1]

	return text, true
}

// IsUnquotedRune reports whether c may appear in an unquoted string.
func IsUnquotedRune(c rune) bool {
	return c >= '0' && c <= '9' ||
		c >= 'A' && c <= 'Z' ||
		c >= 'a' && c <= 'z' ||
		c == '_' || c == '-' || c == '.' || c == '+'
}

// IsQuote reports whether c opens a quoted string.
func IsQuote(c rune) bool { return c == quoteDouble || c == quoteSingle }

// ReadUnquoted consumes and returns a possibly empty unquoted string.
func (r *String) ReadUnquoted() string {
	return r.ReadWhile(IsUnquotedRune)
}

// ReadQuoted consumes a quoted string starting at the cursor and returns its
// unescaped contents. An empty input yields an empty string without error.
func (r *String) ReadQuoted() (string, error) {
	if !r.CanRead() {
		return "", nil
	}

	quote := r.Peek()
	if !IsQuote(quote) {
		return "", ErrExpectedStartOfQuote.CreateWithContext(r)
	}

	r.Skip()

	var (
		sb      strings.Builder
		escaped bool
	)

	for r.CanRead() {
		c := r.Peek()
		r.Skip()

		switch {
		case escaped:
			if c != quote && c != escape {
				r.SetCursor(r.cursor - utf8.RuneLen(c))

				return "", ErrInvalidEscape.CreateWithContext(r, string(c))
			}

			sb.WriteRune(c)

			escaped = false

		case c == escape:
			escaped = true

		case c == quote:
			return sb.String(), nil

		default:
			sb.WriteRune(c)
		}
	}

	return "", ErrExpectedEndOfQuote.CreateWithContext(r)
}

// ReadString consumes a quoted string if one starts at the cursor, or an
// unquoted string otherwise.
func (r *String) ReadString() (string, error) {
	if !r.CanRead() {
		return "", nil
	}

	if IsQuote(r.Peek()) {
		return r.ReadQuoted()
	}

	return r.ReadUnquoted(), nil
}

// Expect consumes c or returns a syntax error anchored at the cursor.
func (r *String) Expect(c rune) error {
	if !r.CanRead() || r.Peek() != c {
		return ErrExpectedSymbol.CreateWithContext(r, string(c))
	}

	r.Skip()

	return nil
}

// Position converts a byte offset into a 1-based line and column, counting
// columns in runes.
func (r *String) Position(offset int) (line, col int) {
	offset = max(0, min(offset, len(r.input)))
	prefix := r.input[:offset]
	line = strings.Count(prefix, "\n") + 1

	lineStart := strings.LastIndexByte(prefix, '\n') + 1

	return line, utf8.RuneCountInString(prefix[lineStart:]) + 1
}
