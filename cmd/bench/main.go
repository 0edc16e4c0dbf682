// Command bench runs a synthetic account workload against the cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/rankcache/account"
	pmet "github.com/IvanBrykalov/rankcache/metrics/prom"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (accounts)")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 70, "GetByID percentage [0..100]")
		topPct   = flag.Int("top", 5, "Top3 percentage [0..100]")

		keys       = flag.Int("keys", 1_000_000, "account ID space")
		maxBalance = flag.Int64("max_balance", 1_000_000, "balances are drawn from [0, max_balance) cents")
		zipfS      = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV      = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload    = flag.Int("preload", 0, "preload accounts (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
		verbose     = flag.Bool("v", false, "log every account update (debug level)")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *readPct+*topPct > 100 || *readPct < 0 || *topPct < 0 {
		logger.Error("invalid mix", "reads", *readPct, "top", *topPct)
		os.Exit(2)
	}
	if *maxBalance <= 0 {
		logger.Error("max_balance must be > 0", "max_balance", *maxBalance)
		os.Exit(2)
	}

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			logger.Info("pprof: serving", "addr", *pprofAddr)
			logger.Error("pprof server stopped", "err", http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "rankcache", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		logger.Info("metrics: serving", "addr", *metricsAddr)
		logger.Error("metrics server stopped", "err", http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	var updates atomic.Uint64
	ac, err := account.NewCache(account.Options{Capacity: *capacity, Metrics: metrics})
	if err != nil {
		logger.Error("build cache", "err", err)
		os.Exit(2)
	}
	defer func() { _ = ac.Close() }()
	ac.SubscribeForUpdates(func(a account.Account) {
		updates.Add(1)
		logger.Debug("account update", "id", a.ID, "balance", a.Balance)
	})

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	pr := rand.New(rand.NewSource(*seed))
	for i := 0; i < pl; i++ {
		ac.Put(account.New(int64(i), decimal.New(pr.Int63n(*maxBalance), -2)))
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal, topPctVal := *readPct, *topPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal, zipfVVal := *zipfS, *zipfV
	maxBal := *maxBalance
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var reads, writes, tops, hits, total atomic.Uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		w := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(w)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}

				total.Add(1)
				id := int64(localZipf.Uint64())
				switch n := int(localR.Int31n(100)); {
				case n < topPctVal:
					tops.Add(1)
					ac.Top3()
				case n < topPctVal+readPctVal:
					reads.Add(1)
					if _, ok := ac.GetByID(id); ok {
						hits.Add(1)
					}
				default:
					writes.Add(1)
					ac.Put(account.New(id, decimal.New(localR.Int63n(maxBal), -2)))
				}
			}
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := total.Load()
	readsN, hitsN := reads.Load(), hits.Load()

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("cap=%d workers=%d keys=%d dur=%v seed=%d\n",
		*capacity, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  top3=%d  updates=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writes.Load(), tops.Load(), updates.Load())
	fmt.Printf("hits=%d (HitCount=%d)  hit-rate=%.2f%%\n", hitsN, ac.HitCount(), hitRate)
	for i, a := range ac.Top3() {
		fmt.Printf("top%d: %v\n", i+1, a)
	}
	fmt.Printf("Len()=%d\n", ac.Len())
}
