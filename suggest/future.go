package suggest

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Future is the eventual result of an asynchronous suggestion listing.
type Future struct {
	done chan struct{}
	val  Suggestions
	err  error
}

// Go runs fn on a new goroutine and returns its future.
func Go(ctx context.Context, fn func(context.Context) (Suggestions, error)) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		f.val, f.err = fn(ctx)
	}()

	return f
}

// Resolved returns a future that already holds s.
func Resolved(s Suggestions) *Future {
	f := &Future{done: make(chan struct{}), val: s}
	close(f.done)

	return f
}

// Failed returns a future that already holds err.
func Failed(err error) *Future {
	f := &Future{done: make(chan struct{}), err: err}
	close(f.done)

	return f
}

// Done returns a channel closed once the future is resolved.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until the future resolves or ctx is done.
func (f *Future) Await(ctx context.Context) (Suggestions, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return Empty(), ctx.Err()
	}
}

// Gather awaits every future concurrently and merges their suggestions over
// input. The first error cancels the remaining waits.
func Gather(ctx context.Context, input string, futures ...*Future) *Future {
	return Go(ctx, func(ctx context.Context) (Suggestions, error) {
		g, gctx := errgroup.WithContext(ctx)
		all := make([]Suggestions, len(futures))

		for i, f := range futures {
			g.Go(func() error {
				s, err := f.Await(gctx)
				all[i] = s

				return err
			})
		}

		if err := g.Wait(); err != nil {
			return Empty(), err
		}

		return Merge(input, all...), nil
	})
}
