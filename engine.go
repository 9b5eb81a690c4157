package factor

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNonPositive is returned by [Engine.Factorize] when n is nil or smaller than 1.
	ErrNonPositive = errors.New("input must be at least 1")

	// ErrCompositeEmission reports a composite value about to be emitted as a final factor.
	// Only produced when [WithEmitCheck] is set.
	ErrCompositeEmission = errors.New("emitted value is not prime")
)

// Engine orchestrates recursive parallel factorization. The zero-configuration engine runs the
// whole recursion inline in one goroutine; see [WithPools] for parallel splits.
//
// An Engine is immutable after creation and safe for concurrent use.
type Engine struct {
	cfg config
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{cfg: cfg}
}

// Factorize starts factoring n and returns the result stream without blocking.
//
// The consumer pulls factors from the stream until io.EOF; the product of all delivered factors
// equals n. The stream is closed exactly once, after every task in the recursion tree has
// completed: cleanly on success, with a terminal error if a branch failed or ctx was canceled.
// Factors emitted before a failure remain readable.
//
// n smaller than 1 is rejected synchronously with [ErrNonPositive], before any task is spawned.
// Factorize(1) returns an immediately closed, empty stream.
func (e *Engine) Factorize(ctx context.Context, n *big.Int) (*Stream, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, fmt.Errorf("factorize %v: %w", n, ErrNonPositive)
	}

	stream := newStream(e.cfg.buffer)
	if n.Cmp(one) == 0 {
		stream.Close()
		return stream, nil
	}

	root := new(big.Int).Set(n) // the task tree owns its own copy

	go func() {
		g := NewGroup(ctx)
		g.Go(e.cfg.pools, func(ctx context.Context, pools *Pools) error {
			return e.factor(ctx, pools, root, stream)
		})
		if err := g.Wait(); err != nil {
			e.cfg.logger.Debug("factorization failed", "n", root, "err", err)
			stream.closeWithError(err)
			return
		}
		e.cfg.logger.Debug("factorization complete", "n", root)
		stream.Close()
	}()

	return stream, nil
}

// factor consumes one work item: it either emits a terminal factor or forks two child
// factorizations and waits on their join. It never does both, and returns only once everything
// it transitively spawned has completed.
func (e *Engine) factor(ctx context.Context, pools *Pools, n *big.Int, stream *Stream) error {
	if n.Cmp(one) == 0 {
		return nil
	}

	if e.cfg.primeCheck && n.ProbablyPrime(primalityRounds) {
		return e.emit(ctx, stream, n)
	}

	pair, err := e.cfg.finder(ctx, n)
	if err != nil {
		return fmt.Errorf("split %v: %w", n, err)
	}
	if pair.D.Cmp(one) == 0 {
		return e.emit(ctx, stream, pair.M)
	}
	if pair.M.Cmp(one) == 0 {
		return e.emit(ctx, stream, pair.D)
	}

	e.cfg.logger.Debug("fork", "n", n, "d", pair.D, "m", pair.M)

	g := NewGroup(ctx)
	g.Go(pools, func(ctx context.Context, next *Pools) error {
		return e.factor(ctx, next, pair.D, stream)
	})
	g.Go(pools, func(ctx context.Context, next *Pools) error {
		return e.factor(ctx, next, pair.M, stream)
	})
	return g.Wait()
}

func (e *Engine) emit(ctx context.Context, stream *Stream, v *big.Int) error {
	if e.cfg.emitCheck && !v.ProbablyPrime(primalityRounds) {
		return fmt.Errorf("factor %v: %w", v, ErrCompositeEmission)
	}
	e.cfg.logger.Debug("emit", "factor", v)
	return stream.Send(ctx, v)
}

// All factors every input concurrently and collects the factor slices in input order. The first
// failing input cancels the others.
func (e *Engine) All(ctx context.Context, ns ...*big.Int) ([][]*big.Int, error) {
	results := make([][]*big.Int, len(ns))
	eg, ctx := errgroup.WithContext(ctx)
	for i, n := range ns {
		i, n := i, n
		eg.Go(func() error {
			stream, err := e.Factorize(ctx, n)
			if err != nil {
				return err
			}
			factors, err := stream.Collect(ctx)
			if err != nil {
				return err
			}
			results[i] = factors // safe: each goroutine writes a unique index
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Factorize factors n on a throwaway engine. See [Engine.Factorize].
func Factorize(ctx context.Context, n *big.Int, opts ...Option) (*Stream, error) {
	return New(opts...).Factorize(ctx, n)
}
