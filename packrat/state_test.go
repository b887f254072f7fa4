package packrat

import (
	"errors"
	"regexp"
	"testing"

	"github.com/ardnew/packrat/reader"
)

type S = *reader.String

var (
	errWord    = reader.NewErrorType("expected word")
	errIdent   = reader.NewErrorType("expected identifier")
	errUnknown = reader.NewErrorType("unknown key '%s'")
	errBoom    = reader.NewErrorType("boom")

	lowerPattern = regexp.MustCompile(`^[a-z]+`)
)

// counting wraps r, incrementing *calls on every invocation.
func counting[T any](calls *int, r Rule[S, T]) Rule[S, T] {
	return RuleFunc[S, T](func(st State[S]) Result[T] {
		*calls++

		return r.Parse(st)
	})
}

func wordRule() Rule[S, string] { return PatternRule[S](lowerPattern, errWord) }

func TestParse_MemoizedIdempotence(t *testing.T) {
	calls := 0
	entry := NewEntry(NewSymbol[string]("word"), counting(&calls, wordRule()))
	st := NewState(reader.New("abc123"))

	first := Parse(st, entry)
	firstCursor := st.Cursor()

	st.SetCursor(0)

	second := Parse(st, entry)
	secondCursor := st.Cursor()

	if calls != 1 {
		t.Errorf("rule invoked %d times, want 1", calls)
	}

	if first.Value() != "abc" || second.Value() != "abc" {
		t.Errorf("values = %q, %q, want %q twice", first.Value(), second.Value(), "abc")
	}

	if firstCursor != 3 || secondCursor != 3 {
		t.Errorf("cursors = %d, %d, want 3 twice", firstCursor, secondCursor)
	}
}

func TestParse_FailureMemoized(t *testing.T) {
	calls := 0
	entry := NewEntry(NewSymbol[string]("never"), counting[string](&calls,
		RuleFunc[S, string](func(st State[S]) Result[string] {
			st.Diagnostics().Add(st.Cursor(), nil, "never")

			return Fail[string]()
		})))
	st := NewState(reader.New("xyz"))

	for i := range 2 {
		if r := Parse(st, entry); !r.IsFail() {
			t.Errorf("call %d = %v, want fail", i, r)
		}
	}

	if calls != 1 {
		t.Errorf("rule invoked %d times, want 1", calls)
	}

	if st.DiagnosticList().Len() != 1 {
		t.Errorf("recorded %d diagnostics, want 1", st.DiagnosticList().Len())
	}
}

func TestParse_SymbolIdentity(t *testing.T) {
	calls := 0
	rule := counting(&calls, wordRule())

	a := NewEntry(NewSymbol[string]("word"), rule)
	b := NewEntry(NewSymbol[string]("word"), rule)

	if a.Symbol().ID() == b.Symbol().ID() {
		t.Fatal("expected distinct symbol ids")
	}

	st := NewState(reader.New("abc"))

	Parse(st, a)
	st.SetCursor(0)
	Parse(st, b)

	if calls != 2 {
		t.Errorf("rule invoked %d times, want 2", calls)
	}
}

func TestParse_MemoGrowth(t *testing.T) {
	calls := 0
	entry := NewEntry(NewSymbol[string]("word"), counting(&calls, wordRule()))

	input := make([]byte, 3*initialMemoSize)
	for i := range input {
		input[i] = ' '
	}

	input[len(input)-1] = 'z'

	st := NewState(reader.New(string(input)))

	for _, pos := range []int{0, len(input) - 1, initialMemoSize + 1, len(input) - 1} {
		st.SetCursor(pos)
		Parse(st, entry)
	}

	if calls != 3 {
		t.Errorf("rule invoked %d times, want 3", calls)
	}
}

func TestStartParsing_EndToEnd(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		wantOK     bool
		wantCursor int
		wantDiags  []int
	}{
		{name: "match", input: "abc123", want: "abc", wantOK: true, wantCursor: 3},
		{name: "mismatch", input: "123abc", wantOK: false, wantCursor: 0, wantDiags: []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewEntry(NewSymbol[string]("word"), wordRule())
			st := NewState(reader.New(tt.input))

			got, ok := StartParsing(st, entry).Get()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("StartParsing(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}

			if st.Cursor() != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", st.Cursor(), tt.wantCursor)
			}

			diags := st.DiagnosticList().All()
			if len(diags) != len(tt.wantDiags) {
				t.Fatalf("got %d diagnostics, want %d", len(diags), len(tt.wantDiags))
			}

			for i, d := range diags {
				if d.Cursor != tt.wantDiags[i] {
					t.Errorf("diagnostic %d at %d, want %d", i, d.Cursor, tt.wantDiags[i])
				}
			}
		})
	}
}

func TestStartParsing_ConfirmsProgress(t *testing.T) {
	rules := NewRules[S]()
	word := NewSymbol[string]("word")
	top := NewSymbol[string]("top")

	Set(rules, word, wordRule())
	entry := Define(rules, top,
		Sequence(RefTo(rules, word), Optional(Char[S]('!'))),
		Returning[S](func(sc *Scope) string { return MustGet(sc, word) }),
	)

	st := NewState(reader.New("ab?"))

	if got := StartParsing(st, entry).Value(); got != "ab" {
		t.Fatalf("StartParsing() = %q, want %q", got, "ab")
	}

	if n := st.DiagnosticList().Len(); n != 0 {
		t.Errorf("retained %d diagnostics at or before the confirmed cursor, want 0", n)
	}
}

func TestStartParsing_LeftRecursion(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		maxDepth int
	}{
		{name: "default guard", maxDepth: DefaultMaxDepth},
		{name: "custom guard", opts: []Option{WithMaxDepth(16)}, maxDepth: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := NewRules[S]()
			a := NewSymbol[string]("A")

			calls := 0
			entry := Set(rules, a, counting(&calls, FromTerm(
				AnyOf(
					Sequence(RefTo(rules, a), Char[S]('x')),
					Char[S]('y'),
				),
				Returning[S](func(*Scope) string { return "A" }),
			)))

			st := NewState(reader.New("yx"), tt.opts...)

			r := StartParsing(st, entry)
			if !r.IsFatal() {
				t.Fatalf("StartParsing() = %v, want fatal", r)
			}

			if !errors.Is(r.Err(), ErrMaxDepthExceeded) {
				t.Errorf("error = %v, want %v", r.Err(), ErrMaxDepthExceeded)
			}

			if calls != tt.maxDepth {
				t.Errorf("rule invoked %d times, want %d", calls, tt.maxDepth)
			}
		})
	}
}

func TestStartParsing_UnboundSymbol(t *testing.T) {
	rules := NewRules[S]()
	entry := Lookup(rules, NewSymbol[string]("later"))

	r := StartParsing(NewState(reader.New("x")), entry)
	if !r.IsFatal() || !errors.Is(r.Err(), ErrUnboundSymbol) {
		t.Errorf("StartParsing() = %v (%v), want fatal %v", r, r.Err(), ErrUnboundSymbol)
	}
}

func TestStartParsing_Unbalanced(t *testing.T) {
	tests := []struct {
		name string
		rule Rule[S, int]
	}{
		{
			name: "frame left pushed",
			rule: RuleFunc[S, int](func(st State[S]) Result[int] {
				st.Scope().PushFrame()

				return Success(1)
			}),
		},
		{
			name: "cut left pushed",
			rule: RuleFunc[S, int](func(st State[S]) Result[int] {
				st.PushCutter()

				return Fail[int]()
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				err, ok := recover().(error)
				if !ok || !errors.Is(err, ErrMalformedState) {
					t.Errorf("recovered %v, want %v", err, ErrMalformedState)
				}
			}()

			StartParsing(NewState(reader.New("")), NewEntry(NewSymbol[int]("bad"), tt.rule))
		})
	}
}

func TestCutStack_Pooled(t *testing.T) {
	st := NewState(reader.New(""))

	first := st.PushCutter()
	first.Cut()
	st.PopCutter()

	second := st.PushCutter()
	defer st.PopCutter()

	if first != second {
		t.Error("expected the handle at the same depth to be reused")
	}

	if second.IsCut() {
		t.Error("expected a reused handle to be reset")
	}

	NoCut.Cut()

	if NoCut.IsCut() {
		t.Error("expected NoCut to ignore cuts")
	}
}

func TestResult(t *testing.T) {
	if v, ok := Success(3).Get(); !ok || v != 3 {
		t.Errorf("Success(3).Get() = %d, %v, want 3, true", v, ok)
	}

	if !Fail[int]().IsFail() {
		t.Error("expected Fail to be a failure")
	}

	errX := errors.New("x")

	mapped := MapResult(Fatal[int](errX), func(int) string { return "" })
	if !mapped.IsFatal() || !errors.Is(mapped.Err(), errX) {
		t.Errorf("MapResult(Fatal) = %v, want fatal %v", mapped, errX)
	}

	if got := MapResult(Success(2), func(i int) int { return i * 2 }).Value(); got != 4 {
		t.Errorf("MapResult(Success(2)) = %d, want 4", got)
	}
}
