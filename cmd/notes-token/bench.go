package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goNotes/jwt"
	"github.com/MrEthical07/goNotes/password"
)

func runBench(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	tokens := fs.Int("tokens", 1000, "number of distinct tokens to mint")
	ops := fs.Int("ops", 200000, "verify operations")
	kdfOps := fs.Int("kdf-ops", 64, "password verify operations")
	concurrency := fs.Int("concurrency", 64, "number of concurrent workers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *tokens <= 0 || *ops <= 0 || *kdfOps <= 0 || *concurrency <= 0 {
		return fmt.Errorf("%w: tokens, ops, kdf-ops and concurrency must be > 0", errUsage)
	}

	secret := []byte("notes-token-bench")
	minted := make([]string, *tokens)
	for i := range minted {
		t, err := jwt.Mint(jwt.Claims{jwt.ClaimSubject: fmt.Sprintf("user-%d", i)}, secret, jwt.WithExpiresIn("1h"))
		if err != nil {
			return err
		}
		minted[i] = t
	}

	stored, err := password.Hash("password123")
	if err != nil {
		return err
	}

	verifyStats := runPhase(*ops, *concurrency, func(r *rand.Rand) bool {
		_, err := jwt.Verify(minted[r.Intn(len(minted))], secret)
		return err == nil
	})
	kdfStats := runPhase(*kdfOps, *concurrency, func(*rand.Rand) bool {
		return password.Verify("password123", stored)
	})

	fmt.Fprintln(stdout, "---- results ----")
	printStats(stdout, "verify", verifyStats)
	printStats(stdout, "kdf", kdfStats)
	return nil
}

// runPhase spreads ops calls of op across concurrency workers and records each latency.
func runPhase(ops, concurrency int, op func(r *rand.Rand) bool) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				ok := op(r)
				d := time.Since(t0)
				if !ok {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(w io.Writer, name string, s phaseStats) {
	fmt.Fprintf(w, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
