package packrat

import (
	"log/slog"

	"github.com/ardnew/packrat/log"
)

// DefaultMaxDepth bounds dispatch nesting unless overridden by
// [WithMaxDepth].
const DefaultMaxDepth = 1000

// Reader is the minimal contract the engine needs from its input: a
// cursor that can be read and moved freely.
type Reader interface {
	Cursor() int
	SetCursor(cursor int)
}

// State is the context a rule runs with. It is implemented by [*Engine]
// and by the view returned from its Suppressing method.
type State[S Reader] interface {
	Reader() S
	Cursor() int
	SetCursor(cursor int)
	Diagnostics() Diagnostics[S]
	Scope() *Scope
	PushCutter() Cut
	PopCutter()
	// Suppressing returns a view whose own Diagnostics sink discards.
	// Rules dispatched through the view still run with the owning state.
	Suppressing() State[S]

	engine() *Engine[S]
}

// Engine owns the mutable context of one parse: the reader, memo table,
// cut stack, scope and diagnostics. It must not be shared across
// goroutines or reused for another parse.
type Engine[S Reader] struct {
	reader   S
	memo     memo
	cuts     cutStack
	scope    Scope
	diags    DiagnosticList[S]
	depth    int
	maxDepth int
	log      log.Logger
}

type config struct {
	log      log.Logger
	maxDepth int
}

// Option configures an [Engine].
type Option func(config) config

// WithLogger sets the logger receiving trace-level dispatch events.
func WithLogger(l log.Logger) Option {
	return func(c config) config {
		c.log = l

		return c
	}
}

// WithMaxDepth bounds dispatch nesting. Past the bound, dispatch returns a
// fatal [ErrMaxDepthExceeded]. A depth of zero or less removes the bound,
// and a left-recursive grammar then recurses until the stack overflows.
func WithMaxDepth(depth int) Option {
	return func(c config) config {
		c.maxDepth = depth

		return c
	}
}

// NewState returns an engine over r.
func NewState[S Reader](r S, opts ...Option) *Engine[S] {
	c := config{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		c = opt(c)
	}

	return &Engine[S]{
		reader:   r,
		maxDepth: c.maxDepth,
		log:      c.log,
	}
}

func (e *Engine[S]) Reader() S                   { return e.reader }
func (e *Engine[S]) Cursor() int                 { return e.reader.Cursor() }
func (e *Engine[S]) SetCursor(cursor int)        { e.reader.SetCursor(cursor) }
func (e *Engine[S]) Diagnostics() Diagnostics[S] { return &e.diags }
func (e *Engine[S]) Scope() *Scope               { return &e.scope }
func (e *Engine[S]) PushCutter() Cut             { return e.cuts.push() }
func (e *Engine[S]) PopCutter()                  { e.cuts.pop() }
func (e *Engine[S]) engine() *Engine[S]          { return e }

// DiagnosticList returns the diagnostics recorded so far.
func (e *Engine[S]) DiagnosticList() *DiagnosticList[S] { return &e.diags }

// Suppressing returns the error-suppressing view of e.
func (e *Engine[S]) Suppressing() State[S] { return suppressed[S]{e} }

// suppressed shares everything with its engine except the diagnostics sink.
type suppressed[S Reader] struct{ *Engine[S] }

func (suppressed[S]) Diagnostics() Diagnostics[S] { return Discard[S]() }

func (v suppressed[S]) Suppressing() State[S] { return v }

// Parse applies entry at the cursor of st, consulting the memo table first.
// A rule runs at most once per position: later calls replay its value and
// end cursor, or its failure. The rule always runs with the owning engine,
// even when st is a suppressing view.
func Parse[S Reader, T any](st State[S], entry *Entry[S, T]) Result[T] {
	return dispatch(st.engine(), entry)
}

func dispatch[S Reader, T any](e *Engine[S], entry *Entry[S, T]) Result[T] {
	pos := e.Cursor()
	sym := entry.sym
	col := e.memo.at(pos)

	i := col.find(sym.id)
	if i < 0 {
		i = col.reserve(sym.id)
	} else {
		switch s := col.slots[i]; s.state {
		case slotResolved:
			e.trace("memo hit", sym, pos, slotResolved.String())
			e.SetCursor(s.after)

			v, _ := s.value.(T)

			return Success(v)

		case slotFailed:
			e.trace("memo hit", sym, pos, slotFailed.String())

			return Fail[T]()
		}
		// A reserved slot means sym is being applied at pos further up the
		// stack: the grammar is left-recursive here.
	}

	if e.maxDepth > 0 && e.depth >= e.maxDepth {
		err := ErrMaxDepthExceeded.With(
			slog.String("symbol", sym.name),
			slog.Int("cursor", pos),
			slog.Int("depth", e.depth),
		)
		e.log.Trace("dispatch aborted", slog.Any("error", err))

		return Fatal[T](err)
	}

	if entry.rule == nil {
		return Fatal[T](ErrUnboundSymbol.With(slog.String("symbol", sym.name)))
	}

	e.depth++
	r := entry.rule.Parse(e)
	e.depth--

	switch {
	case r.IsSuccess():
		col.resolve(i, r.value, e.Cursor())
	case r.IsFail():
		col.fail(i)
	}

	e.trace("dispatch", sym, pos, r.String())

	return r
}

// StartParsing applies entry as the root of a parse. On success, progress up
// to the final cursor is confirmed in the diagnostic list. It panics with
// [ErrMalformedState] if a rule left a scope frame or cut handle pushed.
func StartParsing[S Reader, T any](st State[S], entry *Entry[S, T]) Result[T] {
	e := st.engine()

	r := run(e, entry)
	if r.IsSuccess() {
		e.diags.SetCursor(e.Cursor())
	}

	return r
}

func run[S Reader, T any](e *Engine[S], entry *Entry[S, T]) Result[T] {
	r := dispatch(e, entry)

	if e.scope.Depth() != 0 || e.cuts.depth() != 0 {
		panic(ErrMalformedState.With(
			slog.String("symbol", entry.sym.name),
			slog.Int("frames", e.scope.Depth()),
			slog.Int("cuts", e.cuts.depth()),
		))
	}

	return r
}

func (e *Engine[S]) trace(msg string, sym interface{ Name() string }, pos int, result string) {
	if !e.log.Tracing() {
		return
	}

	e.log.Trace(msg,
		slog.String("symbol", sym.Name()),
		slog.Int("cursor", pos),
		slog.String("outcome", result),
		slog.Int("depth", e.depth),
	)
}
