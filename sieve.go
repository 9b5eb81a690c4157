package factor

import (
	"context"
	"errors"
	"math/big"
)

// ErrNegativeLimit is returned by [PrimesUpTo] when limit is nil or negative.
var ErrNegativeLimit = errors.New("prime limit must be non-negative")

// PrimesUpTo streams the primes not greater than limit, in increasing order. The sequence is
// lazy: the next candidate is only examined when the consumer makes room in the buffer. It is
// finite and non-restartable; re-invoke to enumerate again.
//
// The sieve is incremental: each candidate is tested against the primes already produced, up to
// its square root, so memory grows with the prime count rather than with limit.
func PrimesUpTo(ctx context.Context, limit *big.Int) (*Stream, error) {
	if limit == nil || limit.Sign() < 0 {
		return nil, ErrNegativeLimit
	}

	stream := newStream(defaultStreamBuffer)
	bound := new(big.Int).Set(limit)

	go func() {
		var (
			found []*big.Int
			rem   = new(big.Int)
			sq    = new(big.Int)
		)
		for c := big.NewInt(2); c.Cmp(bound) <= 0; c = new(big.Int).Add(c, one) {
			prime := true
			for _, p := range found {
				if sq.Mul(p, p); sq.Cmp(c) > 0 {
					break
				}
				if rem.Rem(c, p).Sign() == 0 {
					prime = false
					break
				}
			}
			if !prime {
				continue
			}
			found = append(found, c)
			if err := stream.Send(ctx, c); err != nil {
				stream.closeWithError(err)
				return
			}
		}
		stream.Close()
	}()

	return stream, nil
}
