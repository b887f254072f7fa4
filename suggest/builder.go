package suggest

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Builder collects suggestions that replace Input from Start to its end.
type Builder struct {
	input          string
	start          int
	remaining      string
	remainingLower string
	result         []Suggestion
}

// NewBuilder returns a builder for suggestions starting at start.
func NewBuilder(input string, start int) *Builder {
	start = max(0, min(start, len(input)))

	return &Builder{
		input:          input,
		start:          start,
		remaining:      input[start:],
		remainingLower: strings.ToLower(input[start:]),
	}
}

// Input returns the complete input.
func (b *Builder) Input() string { return b.input }

// Start returns the offset where suggestions begin.
func (b *Builder) Start() int { return b.start }

// Remaining returns the partially typed text being completed.
func (b *Builder) Remaining() string { return b.remaining }

// Suggest adds text as a suggestion unless it equals the remaining input.
func (b *Builder) Suggest(text string) *Builder {
	return b.SuggestTooltip(text, "")
}

// SuggestTooltip adds text with a tooltip unless it equals the remaining
// input.
func (b *Builder) SuggestTooltip(text, tooltip string) *Builder {
	if text == b.remaining {
		return b
	}

	b.result = append(b.result, Suggestion{
		Range:   Range{Start: b.start, End: len(b.input)},
		Text:    text,
		Tooltip: tooltip,
	})

	return b
}

// SuggestMatching adds the candidates that complete the remaining input.
// Case-insensitive prefix matches come first in candidate order, followed by
// fuzzy matches ranked best first. With nothing typed, every candidate is
// suggested.
func (b *Builder) SuggestMatching(candidates ...string) *Builder {
	if b.remaining == "" {
		for _, c := range candidates {
			b.Suggest(c)
		}

		return b
	}

	taken := make(map[int]bool, len(candidates))

	for i, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), b.remainingLower) {
			taken[i] = true

			b.Suggest(c)
		}
	}

	for _, m := range fuzzy.Find(b.remaining, candidates) {
		if !taken[m.Index] {
			b.Suggest(m.Str)
		}
	}

	return b
}

// Add appends everything collected by other.
func (b *Builder) Add(other *Builder) *Builder {
	b.result = append(b.result, other.result...)

	return b
}

// CreateOffset returns an empty builder over the same input starting at
// start.
func (b *Builder) CreateOffset(start int) *Builder {
	return NewBuilder(b.input, start)
}

// Restart returns an empty builder with the same input and start.
func (b *Builder) Restart() *Builder {
	return b.CreateOffset(b.start)
}

// Build returns the collected suggestions.
func (b *Builder) Build() Suggestions {
	return Create(b.input, b.result)
}

// BuildFuture returns a resolved future holding the collected suggestions.
func (b *Builder) BuildFuture() *Future {
	return Resolved(b.Build())
}
