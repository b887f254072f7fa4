package grammar

import (
	"log/slog"
	"reflect"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/packrat/argument"
	"github.com/ardnew/packrat/packrat"
)

// ErrMatch is returned when a predicate cannot be evaluated against an item.
var ErrMatch = packrat.NewError("predicate evaluation failed")

// Kind is the type of value a component holds.
type Kind int

// Component kinds.
const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

var kindNames = [...]string{"any", "string", "number", "bool", "list", "map"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindAny]
	}

	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	i := slices.Index(kindNames[:], string(text))
	if i < 0 {
		return packrat.NewError("unknown kind").With(slog.String("kind", string(text)))
	}

	*k = Kind(i)

	return nil
}

// Accepts reports whether a decoded value v is of kind k.
func (k Kind) Accepts(v any) bool {
	switch k {
	case KindString:
		_, ok := v.(string)

		return ok
	case KindNumber:
		_, ok := toFloat(v)

		return ok
	case KindBool:
		_, ok := v.(bool)

		return ok
	case KindList:
		_, ok := v.([]any)

		return ok
	case KindMap:
		switch v.(type) {
		case map[string]any, map[any]any:
			return true
		}

		return false
	default:
		return true
	}
}

// Field describes one component an item may carry.
type Field struct {
	Kind    Kind `json:"kind"              yaml:"kind"`
	Removed bool `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// Schema lists the item identifiers, tags and component fields a predicate
// may name. Empty Items or Tags accept any identifier.
type Schema struct {
	Items  []Ident          `json:"items,omitempty"  yaml:"items,omitempty"`
	Tags   []Ident          `json:"tags,omitempty"   yaml:"tags,omitempty"`
	Fields map[string]Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Item is the subject of a predicate.
type Item struct {
	ID         Ident          `json:"id"                   yaml:"id"`
	Tags       []Ident        `json:"tags,omitempty"       yaml:"tags,omitempty"`
	Components map[string]any `json:"components,omitempty" yaml:"components,omitempty"`
}

// TypeKind selects how a predicate matches an item's identity.
type TypeKind string

// Type kinds.
const (
	TypeAny  TypeKind = "any"
	TypeItem TypeKind = "item"
	TypeTag  TypeKind = "tag"
)

// TypeTest matches an item by identifier or tag.
type TypeTest struct {
	Kind TypeKind `json:"kind"         yaml:"kind"`
	ID   *Ident   `json:"id,omitempty" yaml:"id,omitempty"`
}

func (t TypeTest) match(item Item) bool {
	switch t.Kind {
	case TypeItem:
		return item.ID == *t.ID
	case TypeTag:
		return slices.Contains(item.Tags, *t.ID)
	default:
		return true
	}
}

// Op is the comparison a [Test] applies to a component.
type Op string

// Test operators.
const (
	OpPresent Op = "present"
	OpEqual   Op = "="
	OpExpr    Op = "~"
)

// Test checks one component of an item.
type Test struct {
	Negate bool   `json:"negate,omitempty" yaml:"negate,omitempty"`
	Field  string `json:"field"            yaml:"field"`
	Op     Op     `json:"op"               yaml:"op"`
	Value  any    `json:"value,omitempty"  yaml:"value,omitempty"`
	Expr   string `json:"expr,omitempty"   yaml:"expr,omitempty"`

	program *vm.Program
}

// exprOptions compile the source of `~` tests. The expression sees the
// component as value, whether it is present, and the item id.
var exprOptions = []expr.Option{expr.AsBool(), expr.AllowUndefinedVariables()}

func compileExpr() argument.Codec[string, *vm.Program] {
	return argument.Expr(exprOptions...)
}

// Match reports whether item satisfies t.
func (t Test) Match(item Item) (bool, error) {
	v, present := item.Components[t.Field]

	var ok bool

	switch t.Op {
	case OpEqual:
		ok = present && equal(v, t.Value)

	case OpExpr:
		prog := t.program
		if prog == nil {
			var err error
			if prog, err = compileExpr().Decode(t.Expr); err != nil {
				return false, ErrMatch.Wrap(err).With(slog.String("field", t.Field))
			}
		}

		out, err := expr.Run(prog, map[string]any{
			"value":   v,
			"present": present,
			"id":      item.ID.String(),
		})
		switch {
		case err == nil:
			ok, _ = out.(bool)
		case !present:
			// An expression that cannot evaluate a missing component does
			// not match it.
			ok = false
		default:
			return false, ErrMatch.Wrap(err).With(slog.String("field", t.Field))
		}

	default:
		ok = present
	}

	return ok != t.Negate, nil
}

// Predicate matches items by type and a conjunction of conditions, each of
// which is a disjunction of tests.
type Predicate struct {
	Type       TypeTest `json:"type"                 yaml:"type"`
	Conditions [][]Test `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Match reports whether item satisfies p.
func (p Predicate) Match(item Item) (bool, error) {
	if !p.Type.match(item) {
		return false, nil
	}

	for _, alts := range p.Conditions {
		ok, err := anyMatch(alts, item)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func anyMatch(alts []Test, item Item) (bool, error) {
	for _, t := range alts {
		ok, err := t.Match(item)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}
	}

	return false, nil
}

// equal compares decoded values, treating all numbers as float64.
func equal(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v any) any {
	if f, ok := toFloat(v); ok {
		return f
	}

	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = normalize(e)
		}

		return out
	}

	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}

	return 0, false
}
