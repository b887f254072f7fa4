package grammar

import (
	"slices"

	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/packrat/argument"
	"github.com/ardnew/packrat/packrat"
	"github.com/ardnew/packrat/reader"
)

// Errors recorded while parsing predicates.
var (
	ErrExpectedField = reader.NewErrorType("expected field")
	ErrUnknownField  = reader.NewErrorType("unknown field '%s'")
	ErrRemovedField  = reader.NewErrorType("field '%s' has been removed")
	ErrUnknownItem   = reader.NewErrorType("unknown item '%s'")
	ErrUnknownTag    = reader.NewErrorType("unknown tag '%s'")
	ErrFieldKind     = reader.NewErrorType("field '%s' expects a %s value")
	ErrInvalidValue  = reader.NewErrorType("invalid value: %v")
	ErrInvalidExpr   = reader.NewErrorType("invalid expression: %v")
)

type fieldRef struct {
	name string
	Field
}

type compiled struct {
	source  string
	program *vm.Program
}

// NewPredicateParser returns a parser of item predicates over schema:
//
//	top          := type '[' CUT conditions? ']' | type
//	type         := ident | '#' CUT ident | '*'
//	conditions   := alternatives (',' conditions)?
//	alternatives := term ('|' alternatives)?
//	term         := test | '!' term
//	test         := field '=' CUT value | field '~' CUT expr | field
//
// Fields are dispatched by name. Naming a removed field is an error at the
// field, but the remaining alternatives are still tried. Values are YAML
// flow text checked against the field kind, and expressions are quoted
// expr-lang source evaluating to a bool.
func NewPredicateParser(schema Schema, opts ...packrat.Option) (*packrat.Parser[Predicate], error) {
	rs := packrat.NewRules[input]()

	var (
		top     = packrat.NewSymbol[Predicate]("top")
		typ     = packrat.NewSymbol[TypeTest]("type")
		element = packrat.NewSymbol[TypeTest]("element_type")
		tag     = packrat.NewSymbol[TypeTest]("tag_type")
		anyType = packrat.NewSymbol[TypeTest]("any_type")
		conds   = packrat.NewSymbol[[][]Test]("conditions")
		alts    = packrat.NewSymbol[[]Test]("alternatives")
		term    = packrat.NewSymbol[Test]("term")
		test    = packrat.NewSymbol[Test]("test")
		field   = packrat.NewSymbol[fieldRef]("field")
		valueAt = packrat.NewSymbol[int]("value_start")
		value   = packrat.NewSymbol[any]("value")
		program = packrat.NewSymbol[compiled]("expr")
		id      = packrat.NewSymbol[Ident]("id")
	)

	idEntry := packrat.Set(rs, id, IdentRule[input](ErrExpectedIdent))

	packrat.Define(rs, top,
		packrat.AnyOf(
			packrat.Sequence(
				packrat.RefTo(rs, typ),
				packrat.Char[input]('['),
				packrat.Cutting[input](),
				packrat.Optional(packrat.RefTo(rs, conds)),
				packrat.Char[input](']'),
			),
			packrat.RefTo(rs, typ),
		),
		packrat.Returning[input](func(sc *packrat.Scope) Predicate {
			return Predicate{
				Type:       packrat.MustGet(sc, typ),
				Conditions: packrat.GetOr(sc, conds, nil),
			}
		}),
	)

	packrat.Define(rs, typ,
		packrat.AnyOf(
			packrat.RefTo(rs, element),
			packrat.Sequence(packrat.Char[input]('#'), packrat.Cutting[input](), packrat.RefTo(rs, tag)),
			packrat.RefTo(rs, anyType),
		),
		packrat.Returning[input](func(sc *packrat.Scope) TypeTest {
			if t, ok := packrat.Get(sc, element); ok {
				return t
			}

			if t, ok := packrat.Get(sc, tag); ok {
				return t
			}

			return packrat.MustGet(sc, anyType)
		}),
	)

	packrat.Define(rs, anyType, packrat.Char[input]('*'),
		packrat.Returning[input](func(*packrat.Scope) TypeTest { return TypeTest{Kind: TypeAny} }))
	packrat.Set(rs, element, knownIdent(idEntry, schema.Items, TypeItem, ErrUnknownItem))
	packrat.Set(rs, tag, knownIdent(idEntry, schema.Tags, TypeTag, ErrUnknownTag))

	packrat.Define(rs, conds,
		packrat.Sequence(
			packrat.RefTo(rs, alts),
			packrat.Optional(packrat.Sequence(packrat.Char[input](','), packrat.RefTo(rs, conds))),
		),
		packrat.Returning[input](func(sc *packrat.Scope) [][]Test {
			return append([][]Test{packrat.MustGet(sc, alts)}, packrat.GetOr(sc, conds, nil)...)
		}),
	)

	packrat.Define(rs, alts,
		packrat.Sequence(
			packrat.RefTo(rs, term),
			packrat.Optional(packrat.Sequence(packrat.Char[input]('|'), packrat.RefTo(rs, alts))),
		),
		packrat.Returning[input](func(sc *packrat.Scope) []Test {
			return append([]Test{packrat.MustGet(sc, term)}, packrat.GetOr(sc, alts, nil)...)
		}),
	)

	packrat.Define(rs, term,
		packrat.AnyOf(
			packrat.RefTo(rs, test),
			packrat.Sequence(packrat.Char[input]('!'), packrat.RefTo(rs, term)),
		),
		packrat.Returning[input](func(sc *packrat.Scope) Test {
			if t, ok := packrat.Get(sc, test); ok {
				return t
			}

			t := packrat.MustGet(sc, term)
			t.Negate = !t.Negate

			return t
		}),
	)

	packrat.Define(rs, test,
		packrat.AnyOf(
			packrat.Sequence(
				packrat.RefTo(rs, field),
				packrat.Char[input]('='),
				packrat.Cutting[input](),
				mark(valueAt),
				packrat.RefTo(rs, value),
			),
			packrat.Sequence(
				packrat.RefTo(rs, field),
				packrat.Char[input]('~'),
				packrat.Cutting[input](),
				packrat.RefTo(rs, program),
			),
			packrat.RefTo(rs, field),
		),
		func(st packrat.State[input], sc *packrat.Scope) packrat.Result[Test] {
			f := packrat.MustGet(sc, field)
			t := Test{Field: f.name, Op: OpPresent}

			if v, ok := packrat.Get(sc, value); ok {
				if !f.Kind.Accepts(v) {
					at := packrat.MustGet(sc, valueAt)
					st.Diagnostics().Add(at, nil, ErrFieldKind.CreateAt(st.Reader().Input(), at, f.name, f.Kind))

					return packrat.Fail[Test]()
				}

				t.Op, t.Value = OpEqual, v
			} else if c, ok := packrat.Get(sc, program); ok {
				t.Op, t.Expr, t.program = OpExpr, c.source, c.program
			}

			return packrat.Success(t)
		},
	)

	packrat.Set[input](rs, field, fieldDispatch(schema.Fields))

	packrat.Set(rs, value, Argument(argument.WithDecoding(
		argument.Balanced{Stop: ",|"},
		argument.YAML[any](),
		ErrInvalidValue,
	)))

	packrat.Set(rs, program, Argument(argument.WithDecoding(
		argument.String{Kind: argument.Quotable},
		argument.CodecFunc[string, compiled](func(src string) (compiled, error) {
			prog, err := compileExpr().Decode(src)

			return compiled{source: src, program: prog}, err
		}),
		ErrInvalidExpr,
	)))

	return packrat.NewParser(rs, top, opts...)
}

func fieldDispatch(fields map[string]Field) *packrat.Dispatch[input, fieldRef] {
	keyword := packrat.NewEntry(
		packrat.NewSymbol[string]("field_name"),
		packrat.IdentifierRule[input](ErrExpectedField),
	)
	d := packrat.NewDispatch[input, fieldRef](keyword, ErrUnknownField)

	for name, f := range fields {
		if f.Removed {
			d.Handle(name, func(st packrat.State[input], kw string) packrat.Result[fieldRef] {
				return packrat.Fatal[fieldRef](
					ErrRemovedField.CreateAt(st.Reader().Input(), st.Cursor()-len(kw), kw))
			})

			continue
		}

		d.Handle(name, func(packrat.State[input], string) packrat.Result[fieldRef] {
			return packrat.Success(fieldRef{name: name, Field: f})
		})
	}

	return d
}

// knownIdent reads an identifier through id and accepts it if known is
// empty or contains it. Its diagnostics suggest the known identifiers.
func knownIdent(
	id *packrat.Entry[input, Ident],
	known []Ident,
	kind TypeKind,
	errType *reader.ErrorType,
) packrat.Rule[input, TypeTest] {
	names := make(packrat.Candidates[input], len(known))
	for i, k := range known {
		names[i] = k.String()
	}

	return packrat.RuleFunc[input, TypeTest](func(st packrat.State[input]) packrat.Result[TypeTest] {
		r := st.Reader()
		r.SkipWhitespace()

		start := r.Cursor()

		res := packrat.Parse(st, id)
		if res.IsFatal() {
			return packrat.Fatal[TypeTest](res.Err())
		}

		v, ok := res.Get()
		if !ok {
			st.Diagnostics().Add(start, names, nil)

			return packrat.Fail[TypeTest]()
		}

		if len(known) > 0 && !slices.Contains(known, v) {
			st.Diagnostics().Add(start, names, errType.CreateAt(r.Input(), start, v))
			st.SetCursor(start)

			return packrat.Fail[TypeTest]()
		}

		return packrat.Success(TypeTest{Kind: kind, ID: &v})
	})
}
