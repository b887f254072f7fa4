package grammar

import (
	"regexp"

	"github.com/ardnew/packrat/packrat"
	"github.com/ardnew/packrat/reader"
)

// DefaultNamespace is the namespace of identifiers written without one.
const DefaultNamespace = "core"

var (
	// ErrExpectedIdent is recorded where no identifier could be read.
	ErrExpectedIdent = reader.NewErrorType("expected identifier")

	identPattern = regexp.MustCompile(`^(?:([a-z0-9_.-]+):)?([a-z0-9_./-]+)`)
)

// Ident is a namespaced identifier.
type Ident struct {
	Namespace string
	Path      string
}

// NewIdent returns the identifier path in the default namespace.
func NewIdent(path string) Ident {
	return Ident{Namespace: DefaultNamespace, Path: path}
}

// String returns the identifier as namespace:path.
func (id Ident) String() string { return id.Namespace + ":" + id.Path }

// MarshalText implements encoding.TextMarshaler.
func (id Ident) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Ident) UnmarshalText(text []byte) error {
	v, err := ParseIdent(string(text))
	if err != nil {
		return err
	}

	*id = v

	return nil
}

// IdentRule reads an identifier after optional whitespace.
func IdentRule[S packrat.TextReader](errType *reader.ErrorType) packrat.Rule[S, Ident] {
	return packrat.RuleFunc[S, Ident](func(st packrat.State[S]) packrat.Result[Ident] {
		r := st.Reader()
		r.SkipWhitespace()

		start := r.Cursor()

		text, ok := r.Match(identPattern)
		if !ok {
			st.Diagnostics().Add(start, nil, errType.CreateWithContext(r))

			return packrat.Fail[Ident]()
		}

		return packrat.Success(splitIdent(text))
	})
}

func splitIdent(text string) Ident {
	m := identPattern.FindStringSubmatch(text)
	if m[1] == "" {
		return NewIdent(m[2])
	}

	return Ident{Namespace: m[1], Path: m[2]}
}

// NewIdentParser returns a parser for a single identifier.
func NewIdentParser(opts ...packrat.Option) (*packrat.Parser[Ident], error) {
	rules := packrat.NewRules[*reader.String]()
	sym := packrat.NewSymbol[Ident]("ident")
	packrat.Set(rules, sym, IdentRule[*reader.String](ErrExpectedIdent))

	return packrat.NewParser(rules, sym, opts...)
}

var identParser = func() *packrat.Parser[Ident] {
	p, err := NewIdentParser()
	if err != nil {
		panic(err)
	}

	return p
}()

// ParseIdent parses s as a complete identifier.
func ParseIdent(s string) (Ident, error) {
	return identParser.ParseString(s)
}
