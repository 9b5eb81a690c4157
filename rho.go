package factor

import (
	"context"
	"errors"
	"math/big"
)

// ErrDivisorRange is returned by [FindDivisor] when n is nil or not greater than 1.
var ErrDivisorRange = errors.New("divisor search requires n > 1")

// cancelPollRounds is how many rho rounds run between two context polls. Each round is a pair
// of big.Int squarings plus a gcd, so polling every round would cost more than the arithmetic
// on small inputs.
const cancelPollRounds = 1024

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// DivisorPair is an ordered pair (D, M) with D*M equal to the searched number. Each call to
// [FindDivisor] produces a fresh pair; the engine hands each half to its own branch, so the
// values are never shared between tasks.
type DivisorPair struct {
	D *big.Int
	M *big.Int
}

// FindDivisor returns a divisor pair (d, n/d) of n using Pollard's rho.
//
// Divisibility by 2 and 3 is checked first. Otherwise the cycle search iterates
// f(v) = (v² - 1) mod n from the fixed seed 2, advancing one value once and the other twice per
// round, and stops at the first d = gcd(|x-y|, n) different from 1. The search is deterministic:
// two calls on the same n return the same pair.
//
// For prime n the cycle eventually closes on x == y and the pair (n, 1) is returned, but the
// number of rounds before that grows with the square root of n. Callers that cannot bound n
// should test primality first rather than rely on the search terminating quickly. The only
// early exit is ctx, polled every few rounds.
func FindDivisor(ctx context.Context, n *big.Int) (DivisorPair, error) {
	if n == nil || n.Cmp(one) <= 0 {
		return DivisorPair{}, ErrDivisorRange
	}

	d := new(big.Int)
	if d.Rem(n, two).Sign() == 0 {
		return DivisorPair{D: new(big.Int).Set(two), M: new(big.Int).Quo(n, two)}, nil
	}
	if d.Rem(n, three).Sign() == 0 {
		return DivisorPair{D: new(big.Int).Set(three), M: new(big.Int).Quo(n, three)}, nil
	}

	x := big.NewInt(2)
	y := big.NewInt(2)
	diff := new(big.Int)

	for round := 0; ; round++ {
		if round%cancelPollRounds == 0 {
			select {
			case <-ctx.Done():
				return DivisorPair{}, ctx.Err()
			default:
			}
		}

		rhoStep(x, n)
		rhoStep(y, n)
		rhoStep(y, n)

		diff.Sub(x, y)
		diff.Abs(diff)
		if diff.Sign() == 0 {
			// The cycle closed on x == y: gcd(0, n) is n itself.
			d.Set(n)
		} else {
			d.GCD(nil, nil, diff, n)
		}
		if d.Cmp(one) != 0 {
			break
		}
	}

	return DivisorPair{D: d, M: new(big.Int).Quo(n, d)}, nil
}

// rhoStep advances v to (v² - 1) mod n in place.
func rhoStep(v, n *big.Int) {
	v.Mul(v, v)
	v.Sub(v, one)
	v.Mod(v, n)
}
