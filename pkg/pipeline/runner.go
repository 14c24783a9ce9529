package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pfannkuchen/pkg/cache"
	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/fannkuch"
	"github.com/matzehuels/pfannkuchen/pkg/observability"
	"github.com/matzehuels/pfannkuchen/pkg/runs"
)

// Runner executes computations with caching and run history.
// Both CLI and API use it so the caching logic lives in one place.
//
// The Runner holds no per-computation state. Multiple goroutines can safely
// use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  runs.Store
	Logger *log.Logger

	// ResultTTL is the expiry of cached results. Zero means cache.TTLResult.
	ResultTTL time.Duration
}

// NewRunner creates a runner. Nil arguments fall back to NullCache,
// DefaultKeyer, NullStore and the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, store runs.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if store == nil {
		store = runs.NullStore{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  store,
		Logger: logger,
	}
}

// Execute computes (maxFlips, checksum) for opts.N.
//
// Sizes outside [0, 12] return the sentinel result without error and are
// not recorded. Sizes 0 and 1 return (0, 0). Otherwise the cached result is
// used unless opts.Refresh is set; a fresh result is written back to the
// cache. Every in-range run is saved to the history store; failing to save
// is logged, not returned.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	if !opts.InRange() {
		opts.Logger.Warn("size out of range", "n", opts.N, "max", fannkuch.MaxN)
		return sentinel(opts.N), nil
	}

	plan, err := fannkuch.NewPlan(opts.N, opts.Chunks)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "plan n=%d", opts.N)
	}

	start := time.Now()
	opts.Hooks.OnComputeStart(ctx, opts.N, len(plan.Tasks))

	res, err := r.compute(ctx, plan, opts)
	elapsed := time.Since(start)
	opts.Hooks.OnComputeComplete(ctx, opts.N, elapsed, err)
	if err != nil {
		return nil, err
	}

	res.Stats.Elapsed = elapsed
	opts.Logger.Info("computed",
		"n", res.N,
		"max_flips", res.MaxFlips,
		"checksum", res.Checksum,
		"tasks", res.Tasks,
		"workers", res.Workers,
		"cache_hit", res.CacheHit,
		"duration", elapsed)

	r.record(ctx, res)
	return res, nil
}

func (r *Runner) compute(ctx context.Context, plan *fannkuch.Plan, opts Options) (*Result, error) {
	res := &Result{
		N:       plan.N,
		Tasks:   len(plan.Tasks),
		Workers: opts.Workers,
		Stats:   Stats{Permutations: plan.Permutations()},
	}
	if plan.Trivial() {
		return res, nil
	}

	key := r.Keyer.ResultKey(plan.N)
	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key); ok {
			res.MaxFlips, res.Checksum = cached.MaxFlips, cached.Checksum
			res.CacheHit = true
			return res, nil
		}
	}

	chunks, err := RunChunks(ctx, plan, opts.Workers, opts.Hooks)
	if err != nil {
		return nil, err
	}
	agg := fannkuch.Aggregate(plan.N, chunks)
	res.MaxFlips, res.Checksum = agg.MaxFlips, agg.Checksum

	r.store(ctx, key, agg)
	return res, nil
}

// RunChunks executes every task of plan on at most workers goroutines and
// returns the chunk results in task order. Cancellation is checked before
// each task starts; a task that has started runs to completion.
func RunChunks(ctx context.Context, plan *fannkuch.Plan, workers int, hooks observability.ComputeHooks) ([]fannkuch.ChunkResult, error) {
	if hooks == nil {
		hooks = observability.NoopComputeHooks{}
	}
	results := make([]fannkuch.ChunkResult, len(plan.Tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, t := range plan.Tasks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := fannkuch.RunChunk(plan.Fact, t)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "task %d of n=%d", t.Index, plan.N)
			}
			results[i] = res
			hooks.OnChunkComplete(ctx, plan.N, t.Index, res.MaxFlips, res.Checksum)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if pkgerrors.GetCode(err) != "" {
		return nil, err
	}
	if err != nil {
		return nil, canceled(err, plan.N)
	}
	return results, nil
}

func canceled(err error, n int) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.ErrCodeTimeout, err, "computation of n=%d timed out", n)
	}
	return pkgerrors.Wrap(pkgerrors.ErrCodeCanceled, err, "computation of n=%d canceled", n)
}

// lookup reads a cached result. Read failures and corrupt entries count as
// misses.
func (r *Runner) lookup(ctx context.Context, key string) (fannkuch.Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, key)
		return fannkuch.Result{}, false
	}
	var cached fannkuch.Result
	if err := json.Unmarshal(data, &cached); err != nil {
		r.Logger.Warn("discarding corrupt cache entry", "key", key, "err", err)
		hooks.OnCacheMiss(ctx, key)
		return fannkuch.Result{}, false
	}
	hooks.OnCacheHit(ctx, key)
	return cached, true
}

func (r *Runner) store(ctx context.Context, key string, res fannkuch.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	ttl := r.ResultTTL
	if ttl <= 0 {
		ttl = cache.TTLResult
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

func (r *Runner) record(ctx context.Context, res *Result) {
	run := runs.New(res.N)
	run.MaxFlips = res.MaxFlips
	run.Checksum = res.Checksum
	run.Tasks = res.Tasks
	run.Workers = res.Workers
	run.Elapsed = res.Stats.Elapsed
	run.CacheHit = res.CacheHit

	if err := r.Store.Save(ctx, run); err != nil {
		r.Logger.Warn("failed to record run", "n", res.N, "err", err)
		return
	}
	res.RunID = run.ID
}

// Close releases the cache and the history store.
func (r *Runner) Close() error {
	return errors.Join(r.Cache.Close(), r.Store.Close())
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
