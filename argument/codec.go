package argument

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
)

// Codec decodes an encoded value of type E into a T.
type Codec[E, T any] interface {
	Decode(enc E) (T, error)
}

// CodecFunc adapts a function to [Codec].
type CodecFunc[E, T any] func(enc E) (T, error)

// Decode implements [Codec].
func (f CodecFunc[E, T]) Decode(enc E) (T, error) { return f(enc) }

// YAML returns a codec unmarshaling YAML text, which includes flow-style
// values such as `[1, 2]` and `{a: b}`, into a T.
func YAML[T any](opts ...yaml.DecodeOption) Codec[string, T] {
	return CodecFunc[string, T](func(enc string) (T, error) {
		var v T

		err := yaml.UnmarshalWithOptions([]byte(enc), &v, opts...)

		return v, err
	})
}

// Expr returns a codec compiling expr-lang source with opts.
func Expr(opts ...expr.Option) Codec[string, *vm.Program] {
	return CodecFunc[string, *vm.Program](func(enc string) (*vm.Program, error) {
		return expr.Compile(enc, opts...)
	})
}
