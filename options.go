package factor

import (
	"context"
	"io"
	"log/slog"
	"math/big"
)

// primalityRounds is the Miller-Rabin round count passed to big.Int.ProbablyPrime. Inputs below
// 2⁶⁴ are classified exactly whatever the count; above that the error probability is at most
// 4^-rounds.
const primalityRounds = 20

// defaultStreamBuffer holds a comfortable margin over the factor count of any realistic input,
// which is O(log n), so producers rarely block on the consumer.
const defaultStreamBuffer = 64

// DivisorFunc finds a divisor pair of n. The engine uses [FindDivisor] unless
// [WithDivisorFinder] installs another implementation.
type DivisorFunc func(ctx context.Context, n *big.Int) (DivisorPair, error)

type config struct {
	pools      *Pools
	buffer     int
	primeCheck bool
	emitCheck  bool
	finder     DivisorFunc
	logger     *slog.Logger
}

// Option configures an [Engine].
type Option func(*config)

func defaultConfig() config {
	return config{
		buffer:     defaultStreamBuffer,
		primeCheck: true,
		finder:     FindDivisor,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithPools sets the depth pools used to schedule recursive splits. Without pools, the whole
// recursion runs in the root task's goroutine, sequentially.
//
// The engine does not release the pools; the caller keeps ownership.
func WithPools(p *Pools) Option {
	return func(c *config) {
		c.pools = p
	}
}

// WithStreamBuffer sets the result stream's buffer capacity. Producers block while the buffer
// is full. It panics if n is negative; zero makes every emission rendezvous with the consumer.
func WithStreamBuffer(n int) Option {
	return func(c *config) {
		if n < 0 {
			panic("factor: stream buffer must be non-negative")
		}
		c.buffer = n
	}
}

// WithoutPrimeCheck disables the primality test run before each divisor search.
//
// By default the engine emits a probable prime directly instead of searching it for divisors,
// because the rho cycle on a prime p only closes after a number of rounds that grows with √p.
// Disabling the check restores the raw recursion; only do so when the cost profile of the
// inputs is known.
func WithoutPrimeCheck() Option {
	return func(c *config) {
		c.primeCheck = false
	}
}

// WithEmitCheck makes the engine verify that a value is a probable prime before emitting it,
// failing the factorization otherwise.
//
// The recursion emits the non-unit half of a trivial divisor pair as a final factor without
// proving it prime. A divisor search that degenerates (gcd hit n itself) would then report a
// composite as if it were prime; with this option that branch fails loudly instead.
func WithEmitCheck() Option {
	return func(c *config) {
		c.emitCheck = true
	}
}

// WithDivisorFinder replaces the divisor search. Useful to plug a different splitting strategy
// or to bound the search for adversarial inputs.
func WithDivisorFinder(fn DivisorFunc) Option {
	return func(c *config) {
		if fn == nil {
			panic("factor: divisor finder must not be nil")
		}
		c.finder = fn
	}
}

// WithLogger sets the logger for engine events (forks, emissions, stream closure), logged at
// debug level. Events are silently dropped by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
