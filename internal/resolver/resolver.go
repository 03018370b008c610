// Package resolver coordinates keyword normalization, cache lookups and
// external image searches.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"menupix/internal/keyword"
	"menupix/internal/metrics"
	"menupix/internal/models"
	"menupix/internal/search"
	"menupix/internal/store"
)

// Resolver resolves raw dish keywords to image URLs. It keeps no state
// between calls; the injected store is the only shared state.
type Resolver struct {
	store    store.Store
	provider search.Provider
	group    singleflight.Group
}

// Resolution is the outcome of a successful resolution.
type Resolution struct {
	Keyword   string // original raw keyword
	Canonical string // cache key derived from it
	URL       string
	CacheHit  bool
}

// Result pairs one bulk input element with its resolution or failure.
type Result struct {
	Keyword    string
	Resolution *Resolution
	Err        error
}

// New creates a resolver backed by the given cache store and search
// provider.
func New(st store.Store, provider search.Provider) *Resolver {
	return &Resolver{store: st, provider: provider}
}

// Resolve turns a raw keyword into an image URL: normalize, cache read,
// and on a miss one external search followed by a best-effort cache write.
// Validation failures are ErrInvalid-classed and occur before any store or
// network access; provider failures pass through unchanged and are never
// cached.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Resolution, error) {
	canonical, err := keyword.Normalize(raw)
	if err != nil {
		metrics.RecordResolution(models.OutcomeInvalid)
		return nil, err
	}

	url, err := r.store.Get(ctx, canonical)
	if err == nil {
		metrics.RecordResolution(models.OutcomeHit)
		return &Resolution{Keyword: raw, Canonical: canonical, URL: url, CacheHit: true}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		// A read failure is treated as a miss so a degraded cache never
		// blocks resolution.
		slog.Warn("cache read failed, falling through to search",
			"keyword", canonical, "error", err)
	}

	// Coalesce concurrent misses per canonical key so identical requests
	// in flight share a single external search.
	v, err, _ := r.group.Do(canonical, func() (any, error) {
		return r.fetchAndCache(ctx, canonical)
	})
	if err != nil {
		if errors.Is(err, search.ErrNoResult) {
			metrics.RecordResolution(models.OutcomeNoResult)
		} else {
			metrics.RecordResolution(models.OutcomeUpstreamError)
		}
		return nil, err
	}

	metrics.RecordResolution(models.OutcomeMiss)
	return &Resolution{Keyword: raw, Canonical: canonical, URL: v.(string)}, nil
}

func (r *Resolver) fetchAndCache(ctx context.Context, canonical string) (string, error) {
	// Another flight may have cached the key while this one waited.
	if url, err := r.store.Get(ctx, canonical); err == nil {
		return url, nil
	}

	url, err := r.provider.Search(ctx, canonical)
	if err != nil {
		if errors.Is(err, search.ErrNoResult) {
			metrics.RecordSearch(models.OutcomeNoResult)
		} else {
			metrics.RecordSearch(models.OutcomeUpstreamError)
		}
		// Negative results and provider errors are never cached.
		return "", err
	}
	metrics.RecordSearch("success")

	if err := r.store.Put(ctx, canonical, url); err != nil {
		// A failed cache write must not downgrade a successful search;
		// the next request for this key simply misses again.
		slog.Error("failed to cache image url", "keyword", canonical, "error", err)
		metrics.RecordCacheWriteError()
	}

	return url, nil
}

// ResolveMany resolves every element of raws and returns one Result per
// input, in input order, duplicates included. Element failures are captured
// in their Result and never abort the batch. A concurrency limit of zero or
// less means unbounded fan-out.
func (r *Resolver) ResolveMany(ctx context.Context, raws []string, concurrency int) []Result {
	results := make([]Result, len(raws))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, raw := range raws {
		g.Go(func() error {
			res, err := r.Resolve(ctx, raw)
			results[i] = Result{Keyword: raw, Resolution: res, Err: err}
			return nil
		})
	}
	// Errors live in the per-element results; the group never carries one.
	_ = g.Wait()

	return results
}

// FailureCode maps a resolution error to its machine-readable code for
// bulk responses.
func FailureCode(err error) string {
	switch {
	case errors.Is(err, keyword.ErrInvalid):
		return models.OutcomeInvalid
	case errors.Is(err, search.ErrNoResult):
		return models.OutcomeNoResult
	default:
		return models.OutcomeUpstreamError
	}
}
