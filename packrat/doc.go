// Package packrat implements a memoizing, cut-aware recursive-descent
// parsing engine.
//
// Grammars are written directly in Go. A [Symbol] names a production, an
// [Entry] binds it to a [Rule], and rules are usually built from [Term]
// combinators with [Define]:
//
//	stmt := packrat.NewSymbol[string]("stmt")
//	packrat.Define(rules, stmt,
//		packrat.AnyOf(
//			packrat.Sequence(packrat.Char[S]('('), packrat.Cutting[S](), expr, packrat.Char[S](')')),
//			ident,
//		),
//		action,
//	)
//
// Every (position, symbol) pair is evaluated at most once per parse; the
// [Engine] replays memoized values and failures. A [Cutting] term commits
// the enclosing [AnyOf] to its current alternative. Failures record a
// diagnostic, and only those at the furthest cursor are reported.
//
// Rules return a three-way [Result]: a value, an ordinary failure that lets
// enclosing choices try other alternatives, or a fatal error that does not.
// [Dispatch] shows the one place the engine turns a fatal error back into an
// ordinary failure.
package packrat
