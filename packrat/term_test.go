package packrat

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/packrat/reader"
)

func matchTerm(input string, term Term[S]) (*Engine[S], bool, error) {
	st := NewState(reader.New(input))
	st.Scope().PushFrame()

	ok, err := term.Match(st, st.Scope(), NoCut)

	return st, ok, err
}

func TestRepeated(t *testing.T) {
	word := NewEntry(NewSymbol[string]("word"), wordRule())
	list := NewSymbol[[]string]("words")

	tests := []struct {
		name       string
		input      string
		minimum    int
		wantOK     bool
		want       []string
		wantCursor int
	}{
		{name: "several", input: "ab cd ef!", want: []string{"ab", "cd", "ef"}, wantOK: true, wantCursor: 8},
		{name: "none allowed", input: "123", want: []string{}, wantOK: true, wantCursor: 0},
		{name: "too few", input: "ab 12", minimum: 2, wantOK: false, wantCursor: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok, err := matchTerm(tt.input, Repeated(word, list, tt.minimum))
			if err != nil {
				t.Fatalf("Match() unexpected error: %v", err)
			}

			if ok != tt.wantOK {
				t.Fatalf("Match(%q) = %v, want %v", tt.input, ok, tt.wantOK)
			}

			if got, _ := Get(st.Scope(), list); ok && !slices.Equal(got, tt.want) {
				t.Errorf("list = %q, want %q", got, tt.want)
			}

			if st.Cursor() != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", st.Cursor(), tt.wantCursor)
			}
		})
	}
}

func TestRepeatedWithSeparator(t *testing.T) {
	word := NewEntry(NewSymbol[string]("word"), wordRule())
	list := NewSymbol[[]string]("words")

	tests := []struct {
		name       string
		input      string
		trailing   bool
		wantOK     bool
		want       []string
		wantCursor int
	}{
		{name: "list", input: "a, b,c", wantOK: true, want: []string{"a", "b", "c"}, wantCursor: 6},
		{name: "empty", input: "", wantOK: true, want: []string{}, wantCursor: 0},
		{name: "trailing rejected", input: "a,b,", wantOK: false, wantCursor: 0},
		{name: "trailing accepted", input: "a,b,", trailing: true, wantOK: true, want: []string{"a", "b"}, wantCursor: 4},
		{name: "stops before other", input: "a,b;c", wantOK: true, want: []string{"a", "b"}, wantCursor: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := RepeatedWithSeparator(word, list, Char[S](','), 0)
			if tt.trailing {
				term = RepeatedWithTrailingSeparator(word, list, Char[S](','), 0)
			}

			st, ok, err := matchTerm(tt.input, term)
			if err != nil {
				t.Fatalf("Match() unexpected error: %v", err)
			}

			if ok != tt.wantOK {
				t.Fatalf("Match(%q) = %v, want %v", tt.input, ok, tt.wantOK)
			}

			if got, _ := Get(st.Scope(), list); ok && !slices.Equal(got, tt.want) {
				t.Errorf("list = %q, want %q", got, tt.want)
			}

			if st.Cursor() != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", st.Cursor(), tt.wantCursor)
			}
		})
	}
}

func TestRepeatedWithSeparator_EmptyElement(t *testing.T) {
	empty := NewEntry(NewSymbol[string]("empty"), RuleFunc[S, string](func(State[S]) Result[string] {
		return Success("")
	}))
	list := NewSymbol[[]string]("empties")

	st, ok, err := matchTerm("x", RepeatedWithSeparator(empty, list, Optional(Char[S](',')), 0))
	if err != nil || !ok {
		t.Fatalf("Match() = %v, %v, want true, nil", ok, err)
	}

	if got, _ := Get(st.Scope(), list); len(got) != 1 {
		t.Errorf("list = %q, want one element", got)
	}

	if st.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", st.Cursor())
	}
}

func TestRepeated_NegativeMinimum(t *testing.T) {
	word := NewEntry(NewSymbol[string]("word"), wordRule())
	list := NewSymbol[[]string]("words")

	terms := map[string]Term[S]{
		"repeated":  Repeated(word, list, -1),
		"separated": RepeatedWithSeparator(word, list, Char[S](','), -1),
	}

	for name, term := range terms {
		t.Run(name, func(t *testing.T) {
			st, ok, err := matchTerm("ab", term)
			if err != nil || !ok {
				t.Fatalf("Match(%q) = %v, %v, want true, nil", "ab", ok, err)
			}

			if got, _ := Get(st.Scope(), list); !slices.Equal(got, []string{"ab"}) {
				t.Errorf("list = %q, want %q", got, []string{"ab"})
			}
		})
	}
}

func TestTerms_Simple(t *testing.T) {
	flag := NewSymbol[bool]("flag")
	errX := errors.New("x")

	tests := []struct {
		name       string
		term       Term[S]
		input      string
		wantOK     bool
		wantCursor int
		wantDiags  int
	}{
		{name: "epsilon", term: Epsilon[S](), input: "abc", wantOK: true},
		{name: "fail", term: FailWith[S]("nope"), input: "abc", wantOK: false, wantDiags: 1},
		{name: "optional miss", term: Optional(Literal[S]("x")), input: "abc", wantOK: true, wantDiags: 1},
		{name: "optional hit", term: Optional(Literal[S]("ab")), input: "abc", wantOK: true, wantCursor: 2},
		{name: "sequence restores", term: Sequence(Literal[S]("ab"), Literal[S]("x")), input: "abc", wantOK: false, wantDiags: 1},
		{name: "end", term: Sequence(Literal[S]("abc"), End[S]()), input: "abc  ", wantOK: true, wantCursor: 5},
		{name: "end miss", term: End[S](), input: "abc", wantOK: false, wantDiags: 1},
		{name: "char set", term: Char[S]('x', 'a'), input: "abc", wantOK: true, wantCursor: 1},
		{name: "always", term: Always[S](flag, true), input: "", wantOK: true},
		{
			name: "fatal propagates",
			term: AnyOf[S](
				TermFunc[S](func(State[S], *Scope, Cut) (bool, error) { return false, errX }),
				Epsilon[S](),
			),
			input: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok, err := matchTerm(tt.input, tt.term)
			if tt.name == "fatal propagates" {
				if !errors.Is(err, errX) {
					t.Errorf("Match() error = %v, want %v", err, errX)
				}

				if st.Scope().Depth() != 1 || st.cuts.depth() != 0 {
					t.Errorf("depths = %d, %d, want 1, 0", st.Scope().Depth(), st.cuts.depth())
				}

				return
			}

			if err != nil {
				t.Fatalf("Match() unexpected error: %v", err)
			}

			if ok != tt.wantOK {
				t.Errorf("Match(%q) = %v, want %v", tt.input, ok, tt.wantOK)
			}

			if st.Cursor() != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", st.Cursor(), tt.wantCursor)
			}

			if n := st.DiagnosticList().Len(); n != tt.wantDiags {
				t.Errorf("recorded %d diagnostics, want %d", n, tt.wantDiags)
			}
		})
	}
}

func TestRules(t *testing.T) {
	rules := NewRules[S]()
	word := NewSymbol[string]("word")
	missing := NewSymbol[int]("missing")

	ref := RefTo(rules, word)
	RefTo(rules, missing)

	if err := rules.Validate(); !errors.Is(err, ErrUnboundSymbol) {
		t.Fatalf("Validate() = %v, want %v", err, ErrUnboundSymbol)
	}

	Set(rules, word, wordRule())
	Set(rules, missing, RuleFunc[S, int](func(State[S]) Result[int] { return Success(0) }))

	if err := rules.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	if rules.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rules.Len())
	}

	st, ok, _ := matchTerm("hi", ref)
	if !ok || MustGet(st.Scope(), word) != "hi" {
		t.Errorf("forward reference did not bind %q", "hi")
	}

	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, ErrDuplicateSymbol) {
			t.Errorf("recovered %v, want %v", err, ErrDuplicateSymbol)
		}
	}()

	Set(rules, word, wordRule())
}
