package factor

import (
	"context"
	"fmt"
	"math/big"
)

// TrialDivision streams the prime factors of n in increasing order, smallest divisor first, by
// sequential trial division. It is the non-parallel reference strategy: same stream contract as
// [Engine.Factorize] (product of the delivered factors equals n, close exactly once at the
// end), no concurrency.
//
// n smaller than 1 is rejected synchronously with [ErrNonPositive]. TrialDivision(1) returns an
// immediately closed, empty stream.
func TrialDivision(ctx context.Context, n *big.Int) (*Stream, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, fmt.Errorf("trial division of %v: %w", n, ErrNonPositive)
	}

	stream := newStream(defaultStreamBuffer)
	rest := new(big.Int).Set(n)

	go func() {
		var (
			rem = new(big.Int)
			sq  = new(big.Int)
		)
		for d := big.NewInt(2); ; d.Add(d, one) {
			if sq.Mul(d, d); sq.Cmp(rest) > 0 {
				break
			}
			for rem.Rem(rest, d).Sign() == 0 {
				rest.Quo(rest, d)
				if err := stream.Send(ctx, new(big.Int).Set(d)); err != nil {
					stream.closeWithError(err)
					return
				}
			}
		}
		// Whatever survived trial division up to √n is prime.
		if rest.Cmp(one) > 0 {
			if err := stream.Send(ctx, rest); err != nil {
				stream.closeWithError(err)
				return
			}
		}
		stream.Close()
	}()

	return stream, nil
}
