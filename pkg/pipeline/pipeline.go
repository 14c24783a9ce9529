// Package pipeline runs fannkuch-redux computations end to end.
//
// This package ties the engine in [fannkuch] to the infrastructure around
// it, so the CLI and the API server behave identically:
//
//  1. Validate options and apply defaults
//  2. Look the result up in the [cache]
//  3. On a miss, run every chunk on a bounded worker pool and aggregate
//  4. Store the result and record the run in the [runs] history
//
// Results depend only on n, never on how the work was chunked or how many
// workers ran it, so the cache key is derived from n alone.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{N: 10})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Checksum)                     // 73196
//	fmt.Printf("Pfannkuchen(10) = %d\n", res.MaxFlips) // 38
//
// Sizes outside [0, 12] are not an error: the result carries the sentinel
// pair (-1, -1) and OutOfRange is set.
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/fannkuch"
	"github.com/matzehuels/pfannkuchen/pkg/observability"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultChunks is the default target number of tasks.
const DefaultChunks = fannkuch.DefaultChunks

// DefaultWorkers returns the default worker count, GOMAXPROCS.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one computation. The struct tags let the API decode
// request parameters straight into it.
type Options struct {
	N       int  `json:"n" mapstructure:"n"`
	Chunks  int  `json:"chunks,omitempty" mapstructure:"chunks"`
	Workers int  `json:"workers,omitempty" mapstructure:"workers"`
	Refresh bool `json:"refresh,omitempty" mapstructure:"refresh"`

	// Runtime options (not serialized)
	Logger *log.Logger                `json:"-" mapstructure:"-"`
	Hooks  observability.ComputeHooks `json:"-" mapstructure:"-"`

	validated bool
}

// ValidateAndSetDefaults checks chunk and worker counts and fills in
// defaults. It does not reject n: out-of-range sizes produce the sentinel
// result. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := pkgerrors.ValidateChunks(o.Chunks); err != nil {
		return err
	}
	if err := pkgerrors.ValidateWorkers(o.Workers); err != nil {
		return err
	}
	if o.Chunks == 0 {
		o.Chunks = DefaultChunks
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Hooks == nil {
		o.Hooks = observability.Compute()
	}
	o.validated = true
	return nil
}

// InRange reports whether N is a size the engine computes.
func (o *Options) InRange() bool {
	return pkgerrors.ValidateSize(o.N) == nil
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of one computation.
type Result struct {
	N          int    `json:"n"`
	MaxFlips   int    `json:"max_flips"`
	Checksum   int    `json:"checksum"`
	OutOfRange bool   `json:"out_of_range,omitempty"`
	Tasks      int    `json:"tasks"`
	Workers    int    `json:"workers"`
	Stats      Stats  `json:"stats"`
	CacheHit   bool   `json:"cache_hit"`
	RunID      string `json:"run_id,omitempty"`
}

// Stats contains execution statistics.
type Stats struct {
	Permutations int           `json:"permutations"`
	Elapsed      time.Duration `json:"elapsed_ns"`
}

// sentinel is the result for sizes outside [0, MaxN].
func sentinel(n int) *Result {
	return &Result{N: n, MaxFlips: -1, Checksum: -1, OutOfRange: true}
}
