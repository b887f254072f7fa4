package suggest

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func TestSuggestion_Apply(t *testing.T) {
	tests := []struct {
		name  string
		input string
		sg    Suggestion
		want  string
	}{
		{name: "replace all", input: "ab", sg: Suggestion{Range: Range{0, 2}, Text: "abc"}, want: "abc"},
		{name: "insert at end", input: "a[", sg: Suggestion{Range: At(2), Text: "]"}, want: "a[]"},
		{name: "replace middle", input: "a.b.c", sg: Suggestion{Range: Range{2, 3}, Text: "xy"}, want: "a.xy.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sg.Apply(tt.input); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuilder_Suggest(t *testing.T) {
	b := NewBuilder("foo ba", 4)

	got := b.Suggest("bar").Suggest("ba").SuggestTooltip("baz", "z").Build()

	if want := []string{"bar", "baz"}; !slices.Equal(got.Texts(), want) {
		t.Errorf("Texts() = %v, want %v", got.Texts(), want)
	}

	if got.Range != (Range{Start: 4, End: 6}) {
		t.Errorf("Range = %+v, want {4 6}", got.Range)
	}

	if got.List[1].Tooltip != "z" {
		t.Errorf("Tooltip = %q, want %q", got.List[1].Tooltip, "z")
	}
}

func TestBuilder_SuggestMatching(t *testing.T) {
	candidates := []string{"table", "apple", "block", "BLUE"}

	tests := []struct {
		name      string
		remaining string
		want      []string
	}{
		{name: "nothing typed", remaining: "", want: candidates},
		{name: "prefix first", remaining: "bl", want: []string{"block", "BLUE", "table"}},
		{name: "no match", remaining: "zz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBuilder(tt.remaining, 0).SuggestMatching(candidates...).Build()

			texts := got.Texts()
			if !slices.Equal(texts, tt.want) {
				t.Errorf("SuggestMatching(%q) = %v, want %v", tt.remaining, texts, tt.want)
			}
		})
	}
}

func TestBuilder_CreateOffset(t *testing.T) {
	b := NewBuilder("key=va", 0)
	o := b.CreateOffset(4)

	if o.Remaining() != "va" || o.Start() != 4 {
		t.Errorf("CreateOffset(4) = %q@%d, want %q@4", o.Remaining(), o.Start(), "va")
	}

	if NewBuilder("abc", 9).Start() != 3 {
		t.Error("expected start to be clamped to the input length")
	}
}

func TestMerge(t *testing.T) {
	input := "ab"

	a := NewBuilder(input, 0).Suggest("abc").Build()
	b := NewBuilder(input, 1).Suggest("bd").Suggest("bc").Build()

	got := Merge(input, a, b)

	if want := []string{"abc", "abd"}; !slices.Equal(got.Texts(), want) {
		t.Errorf("Merge() = %v, want %v", got.Texts(), want)
	}

	if got.Range != (Range{Start: 0, End: 2}) {
		t.Errorf("Range = %+v, want {0 2}", got.Range)
	}

	if !Merge(input).IsEmpty() {
		t.Error("expected merging nothing to be empty")
	}
}

func TestFuture_Await(t *testing.T) {
	ctx := context.Background()

	f := Go(ctx, func(context.Context) (Suggestions, error) {
		return NewBuilder("", 0).Suggest("x").Build(), nil
	})

	got, err := f.Await(ctx)
	if err != nil {
		t.Fatalf("Await() unexpected error: %v", err)
	}

	if !slices.Equal(got.Texts(), []string{"x"}) {
		t.Errorf("Await() = %v, want [x]", got.Texts())
	}
}

func TestFuture_AwaitCanceled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	f := Go(context.Background(), func(context.Context) (Suggestions, error) {
		<-block

		return Empty(), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Await() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestGather(t *testing.T) {
	ctx := context.Background()
	input := "b"

	got, err := Gather(ctx, input,
		NewBuilder(input, 0).Suggest("bar").BuildFuture(),
		Go(ctx, func(context.Context) (Suggestions, error) {
			return NewBuilder(input, 0).Suggest("baz").Build(), nil
		}),
	).Await(ctx)
	if err != nil {
		t.Fatalf("Gather() unexpected error: %v", err)
	}

	if want := []string{"bar", "baz"}; !slices.Equal(got.Texts(), want) {
		t.Errorf("Gather() = %v, want %v", got.Texts(), want)
	}

	errBoom := errors.New("boom")

	_, err = Gather(ctx, input, Resolved(Empty()), Failed(errBoom)).Await(ctx)
	if !errors.Is(err, errBoom) {
		t.Errorf("Gather() error = %v, want %v", err, errBoom)
	}
}
