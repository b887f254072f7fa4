package packrat

type outcome uint8

const (
	outcomeFail outcome = iota
	outcomeSuccess
	outcomeFatal
)

func (o outcome) String() string {
	switch o {
	case outcomeSuccess:
		return "success"
	case outcomeFatal:
		return "fatal"
	default:
		return "fail"
	}
}

// Result is the outcome of applying a rule: a value, an ordinary
// backtrackable failure, or a fatal error that is not retried as another
// alternative.
type Result[T any] struct {
	value T
	err   error
	kind  outcome
}

// Success returns a successful result holding v.
func Success[T any](v T) Result[T] { return Result[T]{value: v, kind: outcomeSuccess} }

// Fail returns an ordinary failure.
func Fail[T any]() Result[T] { return Result[T]{} }

// Fatal returns a failure that propagates past alternatives.
func Fatal[T any](err error) Result[T] { return Result[T]{err: err, kind: outcomeFatal} }

// Get returns the value and whether r is a success.
func (r Result[T]) Get() (T, bool) { return r.value, r.kind == outcomeSuccess }

// Value returns the value, or the zero value unless r is a success.
func (r Result[T]) Value() T { return r.value }

// Err returns the fatal error, or nil.
func (r Result[T]) Err() error { return r.err }

func (r Result[T]) IsSuccess() bool { return r.kind == outcomeSuccess }
func (r Result[T]) IsFail() bool    { return r.kind == outcomeFail }
func (r Result[T]) IsFatal() bool   { return r.kind == outcomeFatal }

func (r Result[T]) String() string { return r.kind.String() }

// MapResult applies f to a successful value and carries failures across
// result types unchanged.
func MapResult[T, U any](r Result[T], f func(T) U) Result[U] {
	switch r.kind {
	case outcomeSuccess:
		return Success(f(r.value))
	case outcomeFatal:
		return Fatal[U](r.err)
	default:
		return Fail[U]()
	}
}
