package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/poolcache/cache"
	"github.com/IvanBrykalov/poolcache/internal/config"
	"github.com/IvanBrykalov/poolcache/internal/util"
	pmet "github.com/IvanBrykalov/poolcache/metrics/prom"
	"github.com/IvanBrykalov/poolcache/pool"
)

type benchOptions struct {
	workers  int
	duration time.Duration
	keys     int
	zipfS    float64
	zipfV    float64
	seed     int64
	pprof    string
	progress time.Duration
}

var benchOpt benchOptions

func init() {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a synthetic Zipf workload",
		Long: `The bench command runs independent cache+arena pairs, one per worker
goroutine, over a Zipf-distributed key stream and reports throughput and hit rate.
Caches are never shared between workers.

Example:
  poolcache bench --capacity 256 --workers 4 --duration 5s --metrics-addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd.Context(), cmd.OutOrStdout(), cfg, benchOpt, logger)
		},
	}
	f := cmd.Flags()
	f.IntVar(&benchOpt.workers, "workers", util.DefaultWorkers(), "number of worker goroutines")
	f.DurationVar(&benchOpt.duration, "duration", 5*time.Second, "benchmark duration")
	f.IntVar(&benchOpt.keys, "keys", 4096, "keyspace size")
	f.Float64Var(&benchOpt.zipfS, "zipf-s", 1.1, "Zipf s > 1 (skew)")
	f.Float64Var(&benchOpt.zipfV, "zipf-v", 1.0, "Zipf v >= 1")
	f.Int64Var(&benchOpt.seed, "seed", time.Now().UnixNano(), "random seed")
	f.StringVar(&benchOpt.pprof, "pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
	f.DurationVar(&benchOpt.progress, "progress", time.Second, "log progress every interval (0 = disabled)")
	rootCmd.AddCommand(cmd)
}

// payload is the benchmark value: a key plus a fixed-size body.
type payload struct {
	key  int
	body [6]uint64
}

func (p payload) Equal(k int) bool { return p.key == k }

type benchResult struct {
	ops, hits uint64
	elapsed   time.Duration
}

func (r benchResult) hitRate() float64 {
	if r.ops == 0 {
		return 0
	}
	return float64(r.hits) / float64(r.ops) * 100
}

func runBench(ctx context.Context, out io.Writer, cfg config.Config, opt benchOptions, logger *log.Logger) error {
	switch {
	case opt.workers <= 0:
		return errors.New("bench: --workers must be > 0")
	case opt.keys < 2:
		return errors.New("bench: --keys must be >= 2")
	case opt.zipfS <= 1 || opt.zipfV < 1:
		return fmt.Errorf("bench: invalid Zipf parameters s=%g v=%g", opt.zipfS, opt.zipfV)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// ---- pprof server (on DefaultServeMux) ----
	if opt.pprof != "" {
		go func() {
			logger.Info("pprof: serving", "addr", opt.pprof)
			logger.Warn("pprof stopped", "err", http.ListenAndServe(opt.pprof, nil))
		}()
	}

	// ---- Prometheus metrics ----
	reg := prometheus.NewRegistry()
	cm := pmet.New(reg, "poolcache", "bench", nil)
	pm := pmet.NewPool(reg, "poolcache", "arena", nil)
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("metrics: serving", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "err", err)
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	ctx, cancel := context.WithTimeout(ctx, opt.duration)
	defer cancel()

	ops, hits := util.NewCounters(opt.workers), util.NewCounters(opt.workers)
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	if opt.progress > 0 {
		g.Go(func() error {
			t := time.NewTicker(opt.progress)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-t.C:
					logger.Info("progress", "ops", humanize.Comma(int64(ops.Sum())), "hits", humanize.Comma(int64(hits.Sum())))
				}
			}
		})
	}
	for w := range opt.workers {
		g.Go(func() error {
			c, _, err := cache.NewPooled(cache.Options[int, payload]{
				Capacity: cfg.Capacity,
				New:      func(k int) payload { return payload{key: k} },
				Policy:   policyFor[int, payload](cfg.Policy, cfg.Capacity),
				Metrics:  cm,
				Logger:   logger,
			}, pool.Options{MinPower: cfg.MinPower, MaxPower: cfg.MaxPower, Metrics: pm, Logger: logger})
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			defer func() { _ = c.Close() }()

			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			r := rand.New(rand.NewSource(opt.seed + int64(w)*9973))
			z := rand.NewZipf(r, opt.zipfS, opt.zipfV, uint64(opt.keys-1))

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				k := int(z.Uint64())
				if c.Contains(k) {
					hits[w].Add(1)
				}
				if _, err := c.Get(k); err != nil {
					return fmt.Errorf("worker %d: get %d: %w", w, k, err)
				}
				ops[w].Add(1)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	res := benchResult{ops: ops.Sum(), hits: hits.Sum(), elapsed: time.Since(start)}
	fmt.Fprintf(out, "policy=%s cap=%d workers=%d keys=%s dur=%v seed=%d\n",
		cfg.Policy, cfg.Capacity, opt.workers, humanize.Comma(int64(opt.keys)), res.elapsed.Round(time.Millisecond), opt.seed)
	fmt.Fprintf(out, "ops=%s (%s ops/s)  hit-rate=%.2f%%\n",
		humanize.Comma(int64(res.ops)), humanize.Comma(int64(float64(res.ops)/res.elapsed.Seconds())), res.hitRate())
	return nil
}
