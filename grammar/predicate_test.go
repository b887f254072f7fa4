package grammar

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/packrat/packrat"
	"github.com/ardnew/packrat/reader"
	"github.com/ardnew/packrat/suggest"
)

func testSchema() Schema {
	return Schema{
		Items: []Ident{NewIdent("sword"), NewIdent("stone")},
		Tags:  []Ident{NewIdent("weapons")},
		Fields: map[string]Field{
			"damage":    {Kind: KindNumber},
			"name":      {Kind: KindString},
			"enchanted": {Kind: KindBool},
			"legacy":    {Kind: KindAny, Removed: true},
		},
	}
}

func predicateParser(t *testing.T) *packrat.Parser[Predicate] {
	t.Helper()

	p, err := NewPredicateParser(testSchema())
	if err != nil {
		t.Fatalf("NewPredicateParser() unexpected error: %v", err)
	}

	return p
}

func TestPredicate_Parse(t *testing.T) {
	p := predicateParser(t)
	sword := NewIdent("sword")
	weapons := NewIdent("weapons")

	tests := []struct {
		input string
		want  Predicate
	}{
		{input: "core:sword", want: Predicate{Type: TypeTest{Kind: TypeItem, ID: &sword}}},
		{input: "sword[]", want: Predicate{Type: TypeTest{Kind: TypeItem, ID: &sword}}},
		{
			input: "#weapons[damage=5]",
			want: Predicate{
				Type:       TypeTest{Kind: TypeTag, ID: &weapons},
				Conditions: [][]Test{{{Field: "damage", Op: OpEqual, Value: uint64(5)}}},
			},
		},
		{
			input: "* [ name | !enchanted , !!damage ]",
			want: Predicate{
				Type: TypeTest{Kind: TypeAny},
				Conditions: [][]Test{
					{{Field: "name", Op: OpPresent}, {Field: "enchanted", Op: OpPresent, Negate: true}},
					{{Field: "damage", Op: OpPresent}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) unexpected error: %v", tt.input, err)
			}

			if got.Type.Kind != tt.want.Type.Kind {
				t.Errorf("type = %v, want %v", got.Type.Kind, tt.want.Type.Kind)
			}

			if tt.want.Type.ID != nil && (got.Type.ID == nil || *got.Type.ID != *tt.want.Type.ID) {
				t.Errorf("type id = %v, want %v", got.Type.ID, *tt.want.Type.ID)
			}

			if !slices.EqualFunc(got.Conditions, tt.want.Conditions, func(a, b []Test) bool {
				return slices.EqualFunc(a, b, func(x, y Test) bool {
					return x.Field == y.Field && x.Op == y.Op && x.Negate == y.Negate && equal(x.Value, y.Value)
				})
			}) {
				t.Errorf("conditions = %+v, want %+v", got.Conditions, tt.want.Conditions)
			}
		})
	}
}

func TestPredicate_ParseErrors(t *testing.T) {
	p := predicateParser(t)

	tests := []struct {
		input      string
		wantErr    *reader.ErrorType
		wantCursor int
	}{
		{input: "core:axe", wantErr: ErrUnknownItem, wantCursor: 0},
		{input: "#tools", wantErr: ErrUnknownTag, wantCursor: 1},
		{input: "*[color]", wantErr: ErrUnknownField, wantCursor: 2},
		{input: "*[legacy]", wantErr: ErrRemovedField, wantCursor: 2},
		{input: "*[damage=abc]", wantErr: ErrFieldKind, wantCursor: 9},
		{input: "*[damage=[1, 2]", wantErr: ErrFieldKind, wantCursor: 9},
		{input: "*[damage= {a: 1", wantErr: ErrInvalidValue, wantCursor: 10},
		{input: `*[damage~"1 +"]`, wantErr: ErrInvalidExpr, wantCursor: 9},
		{input: "*[damage=5", wantErr: reader.ErrLiteralIncorrect, wantCursor: 10},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := p.ParseString(tt.input)
			if !errors.Is(err, tt.wantErr.Err()) {
				t.Fatalf("ParseString(%q) error = %v, want %v", tt.input, err, tt.wantErr.Err())
			}

			var se *reader.SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("ParseString(%q) error %T is not a syntax error", tt.input, err)
			}

			if se.Cursor != tt.wantCursor {
				t.Errorf("error cursor = %d, want %d", se.Cursor, tt.wantCursor)
			}
		})
	}
}

func TestPredicate_Match(t *testing.T) {
	p := predicateParser(t)

	var item Item

	err := yaml.Unmarshal([]byte("id: sword\ntags: [weapons]\ncomponents: {damage: 5, name: Blade}\n"), &item)
	if err != nil {
		t.Fatalf("yaml.Unmarshal() unexpected error: %v", err)
	}

	tests := []struct {
		input string
		want  bool
	}{
		{input: "core:sword", want: true},
		{input: "stone", want: false},
		{input: "#weapons", want: true},
		{input: "*[damage=5]", want: true},
		{input: "*[damage=5.0]", want: true},
		{input: "*[damage=4]", want: false},
		{input: `*[name="Blade"]`, want: true},
		{input: "*[!name]", want: false},
		{input: "*[enchanted|name]", want: true},
		{input: "*[damage=5,!enchanted]", want: true},
		{input: "*[damage=5,enchanted]", want: false},
		{input: `*[damage~"value > 3"]`, want: true},
		{input: `*[enchanted~"!present"]`, want: true},
		{input: `*[damage~"value > 7"]`, want: false},
		{input: `*[enchanted~"value > 3"]`, want: false},
		{input: `*[!enchanted~"value > 3"]`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pred, err := p.ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) unexpected error: %v", tt.input, err)
			}

			got, err := pred.Match(item)
			if err != nil || got != tt.want {
				t.Errorf("Match(%q) = %v, %v, want %v", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestPredicate_ListSuggestions(t *testing.T) {
	p := predicateParser(t)
	ctx := context.Background()

	tests := []struct {
		input     string
		want      []string
		wantStart int
	}{
		{input: "", want: []string{"core:sword", "core:stone", "#", "*"}, wantStart: 0},
		{input: "#", want: []string{"core:weapons"}, wantStart: 1},
		{input: "*[", want: []string{"damage", "enchanted", "legacy", "name", "!", "]"}, wantStart: 2},
		{input: "*[damage", want: []string{"=", "~", "|", ",", "]"}, wantStart: 8},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.ListSuggestions(ctx, suggest.NewBuilder(tt.input, 0)).Await(ctx)
			if err != nil {
				t.Fatalf("ListSuggestions(%q) unexpected error: %v", tt.input, err)
			}

			if !slices.Equal(got.Texts(), tt.want) {
				t.Errorf("ListSuggestions(%q) = %v, want %v", tt.input, got.Texts(), tt.want)
			}

			if got.Range.Start != tt.wantStart {
				t.Errorf("Range.Start = %d, want %d", got.Range.Start, tt.wantStart)
			}
		})
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		kind  Kind
		value any
		want  bool
	}{
		{kind: KindAny, value: nil, want: true},
		{kind: KindNumber, value: uint64(1), want: true},
		{kind: KindNumber, value: "1", want: false},
		{kind: KindString, value: "a", want: true},
		{kind: KindBool, value: true, want: true},
		{kind: KindList, value: []any{1}, want: true},
		{kind: KindMap, value: map[string]any{}, want: true},
		{kind: KindMap, value: []any{}, want: false},
	}

	for _, tt := range tests {
		if got := tt.kind.Accepts(tt.value); got != tt.want {
			t.Errorf("%v.Accepts(%v) = %v, want %v", tt.kind, tt.value, got, tt.want)
		}
	}

	var k Kind
	if err := k.UnmarshalText([]byte("list")); err != nil || k != KindList {
		t.Errorf("UnmarshalText(%q) = %v, %v, want %v", "list", k, err, KindList)
	}

	if err := k.UnmarshalText([]byte("tuple")); err == nil {
		t.Errorf("UnmarshalText(%q) expected an error", "tuple")
	}
}
