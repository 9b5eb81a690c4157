package factor

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/panics"
)

// groupTask is the signature for a task running within a Group. It receives the group context
// (canceled when a sibling fails) and the pools of the next depth for scheduling its own
// sub-tasks.
type groupTask func(ctx context.Context, pools *Pools) error

// Group joins a dynamically growing tree of tasks: its Wait returns only once every task
// spawned within it, transitively through nested groups opened by those tasks, has completed.
//
// The first failure among tasks cancels the group context, so siblings still waiting on a pool
// slot or polling the context stand down, and becomes the error returned by Wait. Panics inside
// tasks are recovered with their stack and reported the same way.
//
// A Group is single-use: do not call Go after Wait has returned.
type Group struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	wg     sync.WaitGroup

	errOnce sync.Once
	err     error
}

// NewGroup creates a Group whose context is derived from ctx: canceling ctx cancels every task
// in the group, and the first task failure cancels the rest.
func NewGroup(ctx context.Context) *Group {
	ctx, cancel := context.WithCancelCause(ctx)
	return &Group{ctx: ctx, cancel: cancel}
}

// Context returns the group context.
func (g *Group) Context() context.Context {
	return g.ctx
}

// Go schedules fn through pools: it runs on the current depth's goroutine pool when one is
// available, in the calling goroutine otherwise. Either way the task is accounted for by Wait.
//
// A task scheduled after the group context was canceled is skipped without running; the
// cancellation cause becomes the group error unless a sibling failure was recorded first.
func (g *Group) Go(pools *Pools, fn groupTask) {
	g.wg.Add(1)
	run := func(next *Pools) {
		defer g.wg.Done()

		if g.ctx.Err() != nil {
			// A sibling already failed or the caller canceled; skip execution. The cause is
			// recorded so a skipped task cannot pass for a completed one: without it, an
			// externally canceled group would return nil from Wait and the stream would close
			// cleanly on an incomplete factor multiset.
			g.fail(context.Cause(g.ctx))
			return
		}

		var err error
		if recovered := panics.Try(func() { err = fn(g.ctx, next) }); recovered != nil {
			err = recovered.AsError()
		}
		if err != nil {
			g.fail(err)
		}
	}

	if err := pools.submit(run); err != nil {
		// The pool refused the task, so run never executed. The error is recorded before the
		// task is un-counted, so a Wait racing past wg.Wait cannot read a not-yet-set err.
		g.fail(err)
		g.wg.Done()
	}
}

// Wait blocks until every task in the group has completed, then cancels the group context and
// returns the first recorded failure, if any.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.cancel(nil)
	return g.err
}

// fail records the first error and cancels the siblings. Later errors are dropped: they are
// almost always cancellation fallout of the first one.
func (g *Group) fail(err error) {
	g.errOnce.Do(func() {
		g.err = err
		g.cancel(err)
	})
}
