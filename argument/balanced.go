package argument

import (
	"context"
	"strings"

	"github.com/ardnew/packrat/reader"
	"github.com/ardnew/packrat/suggest"
)

// Balanced reads raw text up to the first rune of Stop found outside of
// brackets, braces, parentheses and quotes. A closing bracket with no
// opening one also ends the text. The value is trimmed of surrounding
// whitespace and the cursor stays on the terminating rune.
type Balanced struct{ Stop string }

// Parse implements [Parser].
func (b Balanced) Parse(r *reader.String) (string, error) {
	r.SkipWhitespace()

	start := r.Cursor()
	depth := 0

	for r.CanRead() {
		c := r.Peek()

		switch {
		case reader.IsQuote(c):
			if _, err := r.ReadQuoted(); err != nil {
				return "", err
			}

			continue

		case c == '[' || c == '{' || c == '(':
			depth++

		case c == ']' || c == '}' || c == ')':
			if depth == 0 {
				return b.text(r, start)
			}

			depth--

		case depth == 0 && strings.ContainsRune(b.Stop, c):
			return b.text(r, start)
		}

		r.Skip()
	}

	return b.text(r, start)
}

func (Balanced) text(r *reader.String, start int) (string, error) {
	text := strings.TrimSpace(r.Input()[start:r.Cursor()])
	if text == "" {
		r.SetCursor(start)

		return "", ErrExpectedValue.CreateWithContext(r)
	}

	return text, nil
}

// ListSuggestions implements [Parser]. Raw text has no completions.
func (Balanced) ListSuggestions(_ context.Context, b *suggest.Builder) *suggest.Future {
	return b.BuildFuture()
}
