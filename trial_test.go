package factor_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/fogfactory/factor"
	"github.com/maxatome/go-testdeep/td"
)

func TestTrialDivision(t *testing.T) {
	ctx := context.Background()

	t.Run("success_factors_in_increasing_order", func(t *testing.T) {
		// Act
		stream, err := factor.TrialDivision(ctx, big.NewInt(360))

		// Assert
		td.Require(t).CmpNoError(err)
		td.Cmp(t, bigToInt64(mustCollect(t, ctx, stream)), []int64{2, 2, 2, 3, 3, 5})
	})

	t.Run("success_prime_input", func(t *testing.T) {
		// Act
		stream, err := factor.TrialDivision(ctx, big.NewInt(101))

		// Assert
		td.Require(t).CmpNoError(err)
		td.Cmp(t, bigToInt64(mustCollect(t, ctx, stream)), []int64{101})
	})

	t.Run("success_one_yields_closed_empty_stream", func(t *testing.T) {
		// Act
		stream, err := factor.TrialDivision(ctx, big.NewInt(1))

		// Assert
		td.Require(t).CmpNoError(err)
		td.CmpLen(t, mustCollect(t, ctx, stream), 0)
	})

	t.Run("success_same_contract_as_engine", func(t *testing.T) {
		// Arrange
		n := big.NewInt(4294967297)

		// Act
		sequential, err := factor.TrialDivision(ctx, n)
		td.Require(t).CmpNoError(err)
		parallel, err := factor.Factorize(ctx, n)
		td.Require(t).CmpNoError(err)

		// Assert: both strategies deliver the same factor multiset.
		td.CmpBag(t, bigToInt64(mustCollect(t, ctx, sequential)), []any{int64(641), int64(6700417)})
		td.CmpBag(t, bigToInt64(mustCollect(t, ctx, parallel)), []any{int64(641), int64(6700417)})
	})

	t.Run("error_domain", func(t *testing.T) {
		for _, n := range []*big.Int{nil, big.NewInt(-5), big.NewInt(0)} {
			// Act
			stream, err := factor.TrialDivision(ctx, n)

			// Assert
			td.CmpErrorIs(t, err, factor.ErrNonPositive)
			td.CmpNil(t, stream)
		}
	})

	t.Run("error_cancellation_ends_stream", func(t *testing.T) {
		// Arrange: 2^100 has more factors than the stream buffer, so with no consumer the
		// producer ends up blocked in Send and cancellation is its only way out.
		runCtx, cancel := context.WithCancel(ctx)
		stream, err := factor.TrialDivision(runCtx, new(big.Int).Lsh(big.NewInt(1), 100))
		td.Require(t).CmpNoError(err)

		// Act
		cancel()
		<-stream.Done()

		// Assert
		td.CmpErrorIs(t, stream.Err(), context.Canceled)
	})
}

func mustCollect(t testing.TB, ctx context.Context, stream *factor.Stream) []*big.Int {
	factors, err := stream.Collect(ctx)
	td.Require(t).CmpNoError(err)
	return factors
}
