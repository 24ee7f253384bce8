package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CompileAll runs fn on every unit concurrently, at most GOMAXPROCS at a
// time. Units share nothing, so fn needs no locking. The first failure
// cancels the context passed to the remaining calls and is returned.
func CompileAll(ctx context.Context, units []*Compilation, fn func(ctx context.Context, c *Compilation) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, c); err != nil {
				return fmt.Errorf("unit %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// RunAll runs p on every unit concurrently.
func (p *Pipeline) RunAll(ctx context.Context, units []*Compilation) error {
	return CompileAll(ctx, units, func(_ context.Context, c *Compilation) error {
		return p.Run(c)
	})
}
