package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`

// Stopper ends a running profile and flushes it to disk.
type Stopper interface{ Stop() }

// Profiler selects a profiling mode and output directory. The zero value
// profiles nothing.
type Profiler struct {
	Mode  string
	Dir   string
	Quiet bool
}

// Start begins profiling. An empty or unsupported Mode returns a no-op
// [Stopper].
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return nop{}
	}

	return start(p)
}

type nop struct{}

func (nop) Stop() {}
