package benchmark

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/fogfactory/factor"
	"github.com/samber/lo"
)

// Profile generates a CPU profile of one parallel factorization and compares it against
// sequential trial division of the same input. The profile is outputted as
// factor_{date}_{poolsizes}.prof.
//
//   - input: decimal representation of the number to factor.
//   - poolSizes: pool sizes. Its length also defines how deep the recursion stays parallel.
//
// use pprof to read the file (go install github.com/google/pprof@latest).
func Profile(input string, poolSizes ...int) {
	n, ok := new(big.Int).SetString(input, 10)
	if !ok {
		fmt.Println("invalid input:", input)
		os.Exit(1)
	}

	// Profile file
	f, err := os.Create(fmt.Sprintf("factor_%s_%s.prof",
		strings.ReplaceAll(time.Now().Truncate(time.Second).Format(time.DateTime), " ", "-"),
		strings.Join(lo.Map(poolSizes, func(item, _ int) string { return fmt.Sprint(item) }), "-")))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	// Init engine
	pools, err := factor.NewPools(poolSizes...)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer pools.Release()
	engine := factor.New(factor.WithPools(pools))
	ctx := context.Background()

	// Start profiling
	func() {
		_ = pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()

		start := time.Now()
		stream, err := engine.Factorize(ctx, n)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		factors, err := stream.Collect(ctx)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("(par: %s, %d factors)\n", time.Since(start), len(factors))
	}()

	// sequential equivalent
	start := time.Now()
	stream, err := factor.TrialDivision(ctx, n)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	factors, err := stream.Collect(ctx)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("(seq: %s, %d factors)\n", time.Since(start), len(factors))
	fmt.Printf("profile:%s\n", f.Name())

	// Call pprof on a file
	// pprof -http=:8080 $file
	// On all files
	// source <(ls | grep .prof | nl | awk '{print "pprof -http=:"$1 + 8080, $2,$3,"&"}')
}
