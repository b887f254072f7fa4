package packrat

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/packrat/reader"
)

func keyDispatch(calls *int) *Dispatch[S, int] {
	keyword := NewEntry(NewSymbol[string]("keyword"), IdentifierRule[S](errIdent))

	return NewDispatch[S, int](keyword, errUnknown).
		Handle("one", func(State[S], string) Result[int] { return Success(1) }).
		Handle("boom", func(st State[S], _ string) Result[int] {
			*calls++

			return Fatal[int](errBoom.CreateWithContext(st.Reader()))
		})
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       int
		wantOK     bool
		wantCursor int
		wantDiag   int
		wantErr    *reader.ErrorType
	}{
		{name: "known keyword", input: "one", want: 1, wantOK: true, wantCursor: 3, wantDiag: -1},
		{name: "fatal downgraded", input: "  boom", wantCursor: 2, wantDiag: 2, wantErr: errBoom},
		{name: "unknown keyword", input: "two", wantCursor: 0, wantDiag: 0, wantErr: errUnknown},
		{name: "no keyword", input: "42", wantCursor: 0, wantDiag: 0, wantErr: errIdent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			entry := NewEntry[S](NewSymbol[int]("dispatch"), keyDispatch(&calls))
			st := NewState(reader.New(tt.input))

			r := Parse(st, entry)
			if r.IsFatal() {
				t.Fatalf("Parse(%q) = fatal %v, want no fatal", tt.input, r.Err())
			}

			if got, ok := r.Get(); ok != tt.wantOK || got != tt.want {
				t.Errorf("Parse(%q) = %d, %v, want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}

			if st.Cursor() != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", st.Cursor(), tt.wantCursor)
			}

			report := st.DiagnosticList().Report()
			if tt.wantDiag < 0 {
				if len(report) != 0 {
					t.Errorf("Report() = %v, want none", report)
				}

				return
			}

			if len(report) == 0 || report[0].Cursor != tt.wantDiag {
				t.Fatalf("Report() = %v, want diagnostics at %d", report, tt.wantDiag)
			}

			if !errors.Is(report[0].Err(), tt.wantErr.Err()) {
				t.Errorf("diagnostic = %v, want %v", report[0].Err(), tt.wantErr.Err())
			}
		})
	}
}

func TestDispatch_DowngradeIsBacktrackable(t *testing.T) {
	calls := 0
	value := NewSymbol[int]("value")
	dispatch := NewEntry[S](value, keyDispatch(&calls))

	entry := NewEntry(NewSymbol[int]("top"), FromTerm(
		AnyOf(
			Sequence(Ref(dispatch), End[S]()),
			Always[S](value, -1),
		),
		Returning[S](func(sc *Scope) int { return MustGet(sc, value) }),
	))

	st := NewState(reader.New("boom"))

	r := Parse(st, entry)
	if got := r.Value(); got != -1 {
		t.Errorf("Parse() = %d (%v), want -1", got, r)
	}

	if calls != 1 {
		t.Errorf("continuation invoked %d times, want 1", calls)
	}

	all := st.DiagnosticList().All()
	if len(all) != 1 || all[0].Cursor != 0 {
		t.Fatalf("diagnostics = %v, want one at 0", all)
	}

	if got := all[0].Source.PossibleValues(st); !slices.Equal(got, []string{"boom", "one"}) {
		t.Errorf("PossibleValues() = %v, want [boom one]", got)
	}
}

func TestDispatch_KeepsEngineFatals(t *testing.T) {
	keyword := NewEntry(NewSymbol[string]("keyword"), IdentifierRule[S](errIdent))
	value := NewSymbol[int]("value")
	dispatch := NewDispatch[S, int](keyword, errUnknown)
	entry := NewEntry[S](value, dispatch)

	dispatch.Handle("go", func(st State[S], _ string) Result[int] {
		st.SetCursor(0)

		return Parse(st, entry)
	})

	st := NewState(reader.New("go"), WithMaxDepth(50))

	r := StartParsing(st, entry)
	if !r.IsFatal() {
		t.Fatalf("StartParsing() = %v, want fatal", r)
	}

	if !errors.Is(r.Err(), ErrMaxDepthExceeded) {
		t.Errorf("StartParsing() error = %v, want %v", r.Err(), ErrMaxDepthExceeded)
	}
}

func TestLeafRules(t *testing.T) {
	tests := []struct {
		name       string
		rule       Rule[S, string]
		input      string
		want       string
		wantOK     bool
		wantCursor int
		wantErr    *reader.ErrorType
	}{
		{name: "token", rule: TokenRule[S](2, isDigit, errWord), input: " 123x", want: "123", wantOK: true, wantCursor: 4},
		{name: "token too short", rule: TokenRule[S](2, isDigit, errWord), input: "1x", wantErr: errWord},
		{name: "unquoted", rule: UnquotedRule[S](1, errWord), input: "a.b-c d", want: "a.b-c", wantOK: true, wantCursor: 5},
		{name: "string quoted", rule: StringRule[S](errWord), input: ` "a b"`, want: "a b", wantOK: true, wantCursor: 6},
		{name: "string empty quoted", rule: StringRule[S](errWord), input: `''`, want: "", wantOK: true, wantCursor: 2},
		{name: "string unterminated", rule: StringRule[S](errWord), input: `"ab`, wantErr: reader.ErrExpectedEndOfQuote},
		{name: "string missing", rule: StringRule[S](errWord), input: `]`, wantErr: errWord},
		{name: "identifier", rule: IdentifierRule[S](errIdent), input: "_a1 b", want: "_a1", wantOK: true, wantCursor: 3},
		{name: "identifier digit", rule: IdentifierRule[S](errIdent), input: "1a", wantErr: errIdent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewState(reader.New(tt.input))

			got, ok := tt.rule.Parse(st).Get()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Parse(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}

			if tt.wantErr == nil {
				if st.Cursor() != tt.wantCursor {
					t.Errorf("cursor = %d, want %d", st.Cursor(), tt.wantCursor)
				}

				return
			}

			report := st.DiagnosticList().Report()
			if len(report) != 1 || !errors.Is(report[0].Err(), tt.wantErr.Err()) {
				t.Errorf("Report() = %v, want one %v", report, tt.wantErr.Err())
			}
		})
	}
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }
