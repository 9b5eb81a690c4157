/*
factor runs parallel recursive integer factorization with bounded and stacked pools of goroutine.

Factorize splits a number into two candidate divisors with Pollard's rho, launches concurrent
sub-factorizations for each non-trivial divisor, and streams discovered factors to a consumer.
The engine closes the result stream exactly once, after the whole dynamically growing task tree
has finished, so no factor is lost or duplicated whatever the scheduling interleaving.

The recursion depth and fan-out are unbounded, so the engine does not spawn one goroutine per
split. Instead each recursion depth has its own goroutine pool: a split is submitted to the pool
of its depth while the parent keeps its own slot waiting on the join. When a depth has no pool
left, the split runs in the parent routine. This bounds the total goroutine count without
deadlocking the recursive join.

Pool sizing can be tuned to mitigate between latency and memory imprint. Splitting a number is
pure CPU (big.Int squarings and gcd), so sizing each depth to a fraction of cpu count is a good
starting point. However, these are general consideration. As for any performance tuning, you
should try and tune.

The result Stream supports concurrent writers and a blocking consumer. Reads block while the
stream is open and empty, and return io.EOF once it is closed and drained. A failure anywhere in
the task tree cancels the remaining branches and surfaces as a terminal stream error; factors
emitted before the failure stay readable.

PrimesUpTo and TrialDivision provide the sequential reference strategies with the same stream
contract, useful to cross-check results or when parallelism is not worth the setup cost.
*/

package factor
