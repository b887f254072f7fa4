// Package profile runs [github.com/pkg/profile] around a command.
//
// Profiling is compiled in only with the build tag `pprof`:
//
//	go build -tags pprof .
//	packrat --pprof-mode cpu parse 'core:sword[damage=5]'
//	go tool pprof -http=: ~/.cache/packrat/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
package profile
