package pipeline

import (
	"context"

	"github.com/matzehuels/pfannkuchen/pkg/cache"
	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/fannkuch"
	"github.com/matzehuels/pfannkuchen/pkg/observability"
	"github.com/matzehuels/pfannkuchen/pkg/render"
)

// TraceOptions selects a permutation and an output format.
type TraceOptions struct {
	N       int    `json:"n" mapstructure:"n"`
	Index   int    `json:"index" mapstructure:"index"`
	Format  string `json:"format,omitempty" mapstructure:"format"`
	Refresh bool   `json:"refresh,omitempty" mapstructure:"refresh"`
}

// Validate checks the size, the index and the format. An empty format
// becomes render.FormatJSON.
func (o *TraceOptions) Validate() error {
	if o.Format == "" {
		o.Format = render.FormatJSON
	}
	if err := render.ValidateFormat(o.Format); err != nil {
		return err
	}
	return pkgerrors.ValidateIndex(o.N, o.Index)
}

// Trace renders the flip trace of the permutation at opts.Index and
// reports whether it came from the cache.
func (r *Runner) Trace(ctx context.Context, opts TraceOptions) ([]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	hooks := observability.Cache()
	key := r.Keyer.TraceKey(opts.N, opts.Index, opts.Format)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, key)
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, key)
	}

	tr, err := fannkuch.TraceAt(opts.N, opts.Index)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidIndex, err, "trace n=%d index=%d", opts.N, opts.Index)
	}
	data, err := render.Render(ctx, tr, opts.Format)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "render trace")
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLTrace); err == nil {
		hooks.OnCacheSet(ctx, key, len(data))
	}
	return data, false, nil
}
