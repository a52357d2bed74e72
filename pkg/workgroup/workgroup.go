package workgroup

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group runs a set of workers sharing a context. The context handed to
// workers is canceled as soon as any of them returns an error.
type Group struct {
	ctx   context.Context
	group *errgroup.Group
}

// WithContext returns a Group whose workers derive from ctx.
func WithContext(ctx context.Context) *Group {
	group, gctx := errgroup.WithContext(ctx)
	return &Group{
		ctx:   gctx,
		group: group,
	}
}

// Work starts fn in its own goroutine.
func (g *Group) Work(fn func(context.Context) error) {
	g.group.Go(func() error {
		return fn(g.ctx)
	})
}

// Wait blocks until all workers return, reporting the first error.
func (g *Group) Wait() error {
	return g.group.Wait()
}
