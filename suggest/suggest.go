// Package suggest models completion suggestions for partially typed input.
//
// A [Builder] collects [Suggestion] values that replace the input from a
// start offset to its end. Suggestion listing is asynchronous: providers
// return a [Future] that resolves to the built [Suggestions].
package suggest

import "strings"

// Range is a half-open byte interval [Start, End) of some input.
type Range struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end"   yaml:"end"`
}

// At returns the empty range at pos.
func At(pos int) Range { return Range{Start: pos, End: pos} }

// IsEmpty reports whether r covers no input.
func (r Range) IsEmpty() bool { return r.Start == r.End }

// Encompassing returns the smallest range covering both a and b.
func Encompassing(a, b Range) Range {
	return Range{Start: min(a.Start, b.Start), End: max(a.End, b.End)}
}

// Suggestion replaces the input within Range by Text.
type Suggestion struct {
	Range   Range  `json:"range"             yaml:"range"`
	Text    string `json:"text"              yaml:"text"`
	Tooltip string `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
}

// Apply returns input with s applied.
func (s Suggestion) Apply(input string) string {
	if s.Range.Start == 0 && s.Range.End == len(input) {
		return s.Text
	}

	return input[:s.Range.Start] + s.Text + input[s.Range.End:]
}

// Expand widens s to cover r, copying the surrounding input into the text.
func (s Suggestion) Expand(input string, r Range) Suggestion {
	if s.Range == r {
		return s
	}

	var sb strings.Builder

	if r.Start < s.Range.Start {
		sb.WriteString(input[r.Start:s.Range.Start])
	}

	sb.WriteString(s.Text)

	if r.End > s.Range.End {
		sb.WriteString(input[s.Range.End:r.End])
	}

	return Suggestion{Range: r, Text: sb.String(), Tooltip: s.Tooltip}
}

// Suggestions is an ordered set of suggestions sharing one range.
type Suggestions struct {
	Range Range        `json:"range" yaml:"range"`
	List  []Suggestion `json:"list"  yaml:"list"`
}

// Empty returns suggestions with no entries.
func Empty() Suggestions { return Suggestions{} }

// IsEmpty reports whether there are no suggestions.
func (s Suggestions) IsEmpty() bool { return len(s.List) == 0 }

// Texts returns the text of each suggestion in order.
func (s Suggestions) Texts() []string {
	texts := make([]string, len(s.List))
	for i, sg := range s.List {
		texts[i] = sg.Text
	}

	return texts
}

// Create builds Suggestions from list, widening every entry to the range
// covering all of them and dropping duplicates. Order is preserved.
func Create(input string, list []Suggestion) Suggestions {
	if len(list) == 0 {
		return Empty()
	}

	r := list[0].Range
	for _, s := range list[1:] {
		r = Encompassing(r, s.Range)
	}

	seen := make(map[Suggestion]struct{}, len(list))
	out := make([]Suggestion, 0, len(list))

	for _, s := range list {
		e := s.Expand(input, r)
		if _, ok := seen[e]; ok {
			continue
		}

		seen[e] = struct{}{}
		out = append(out, e)
	}

	return Suggestions{Range: r, List: out}
}

// Merge combines several suggestion sets over the same input.
func Merge(input string, all ...Suggestions) Suggestions {
	switch len(all) {
	case 0:
		return Empty()
	case 1:
		return all[0]
	}

	var list []Suggestion
	for _, s := range all {
		list = append(list, s.List...)
	}

	return Create(input, list)
}
