package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"

	"menupix/internal/keyword"
	"menupix/internal/models"
	"menupix/internal/search"
	"menupix/internal/store"
)

// fakeProvider serves canned URLs and counts its calls.
type fakeProvider struct {
	mu    sync.Mutex
	urls  map[string]string
	err   error
	calls int
}

func (p *fakeProvider) Search(_ context.Context, query string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	url, ok := p.urls[query]
	if !ok {
		return "", search.ErrNoResult
	}
	return url, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// failingStore misses every read and fails every write.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) { return "", store.ErrNotFound }
func (failingStore) Put(context.Context, string, string) error {
	return errors.New("disk full")
}
func (failingStore) Ping(context.Context) error { return nil }
func (failingStore) Close() error               { return nil }

func TestResolveMissThenHit(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	provider := &fakeProvider{urls: map[string]string{"pizza": "https://img.example.com/pizza.jpg"}}
	r := New(st, provider)

	first, err := r.Resolve(ctx, "pizza")
	if err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	if first.URL != "https://img.example.com/pizza.jpg" {
		t.Errorf("first URL = %q, want provider result", first.URL)
	}
	if first.CacheHit {
		t.Error("first resolution should be a miss")
	}
	if provider.callCount() != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.callCount())
	}

	cached, err := st.Get(ctx, "pizza")
	if err != nil || cached != first.URL {
		t.Fatalf("store.Get after miss = (%q, %v), want the fetched URL cached", cached, err)
	}

	// Different casing, same canonical key: must hit the cache with no
	// further provider call.
	second, err := r.Resolve(ctx, "Pizza")
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if !second.CacheHit {
		t.Error("second resolution should be a cache hit")
	}
	if second.URL != first.URL {
		t.Errorf("second URL = %q, want %q", second.URL, first.URL)
	}
	if provider.callCount() != 1 {
		t.Errorf("provider calls = %d after hit, want still 1", provider.callCount())
	}
}

func TestResolveHitNeverCallsProvider(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.Put(ctx, "sushi", "https://img.example.com/sushi.jpg"); err != nil {
		t.Fatalf("seed Put failed: %v", err)
	}
	provider := &fakeProvider{}
	r := New(st, provider)

	res, err := r.Resolve(ctx, "Sushi")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.CacheHit || res.URL != "https://img.example.com/sushi.jpg" {
		t.Errorf("Resolve = %+v, want cache hit with stored URL", res)
	}
	if provider.callCount() != 0 {
		t.Errorf("provider calls = %d, want 0 on a cache hit", provider.callCount())
	}
}

func TestResolveValidationFailure(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{}
	r := New(store.NewMemory(), provider)

	for _, raw := range []string{"", "a", "42!?"} {
		_, err := r.Resolve(ctx, raw)
		if !errors.Is(err, keyword.ErrInvalid) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalid", raw, err)
		}
	}
	if provider.callCount() != 0 {
		t.Errorf("provider calls = %d, want 0 for rejected keywords", provider.callCount())
	}
}

func TestResolveNoResultNotCached(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	provider := &fakeProvider{urls: map[string]string{}}
	r := New(st, provider)

	_, err := r.Resolve(ctx, "unknown dish")
	if !errors.Is(err, search.ErrNoResult) {
		t.Fatalf("Resolve = %v, want ErrNoResult", err)
	}

	if _, err := st.Get(ctx, "unknown dish"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("store.Get = %v, want ErrNotFound (negative results must not be cached)", err)
	}
}

func TestResolveProviderErrorNotCached(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	provider := &fakeProvider{err: errors.New("quota exceeded")}
	r := New(st, provider)

	_, err := r.Resolve(ctx, "pizza")
	if err == nil {
		t.Fatal("Resolve should fail when the provider errors")
	}
	if errors.Is(err, keyword.ErrInvalid) || errors.Is(err, search.ErrNoResult) {
		t.Errorf("provider errors must stay distinct, got %v", err)
	}
	if _, err := st.Get(ctx, "pizza"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("store.Get = %v, want ErrNotFound after provider error", err)
	}
}

// A failed cache write must not surface as a resolution failure.
func TestResolveCacheWriteFailureStillReturnsURL(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{urls: map[string]string{"pizza": "https://img.example.com/pizza.jpg"}}
	r := New(failingStore{}, provider)

	res, err := r.Resolve(ctx, "pizza")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.URL != "https://img.example.com/pizza.jpg" {
		t.Errorf("URL = %q, want the freshly fetched URL", res.URL)
	}
}

func TestResolveManyMixedValidity(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	provider := &fakeProvider{urls: map[string]string{
		"pizza": "https://img.example.com/pizza.jpg",
		"sushi": "https://img.example.com/sushi.jpg",
	}}
	r := New(st, provider)

	results := r.ResolveMany(ctx, []string{"pizza", "a", "Sushi"}, 4)
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	if results[0].Err != nil || results[0].Resolution.URL != "https://img.example.com/pizza.jpg" {
		t.Errorf("results[0] = %+v, want pizza resolved", results[0])
	}
	if !errors.Is(results[1].Err, keyword.ErrInvalid) {
		t.Errorf("results[1].Err = %v, want ErrInvalid", results[1].Err)
	}
	if results[2].Err != nil || results[2].Resolution.URL != "https://img.example.com/sushi.jpg" {
		t.Errorf("results[2] = %+v, want sushi resolved", results[2])
	}
	if results[2].Keyword != "Sushi" {
		t.Errorf("results[2].Keyword = %q, original keyword must be preserved", results[2].Keyword)
	}
}

func TestResolveManyDuplicatesShareOneSearch(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	provider := &fakeProvider{urls: map[string]string{"pizza": "https://img.example.com/pizza.jpg"}}
	r := New(st, provider)

	// Sequential processing: the second duplicate must be served by the
	// cache written by the first.
	results := r.ResolveMany(ctx, []string{"pizza", "Pizza"}, 1)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("results[%d].Err = %v", i, res.Err)
		}
		if res.Resolution.URL != "https://img.example.com/pizza.jpg" {
			t.Errorf("results[%d].URL = %q", i, res.Resolution.URL)
		}
	}
	if provider.callCount() != 1 {
		t.Errorf("provider calls = %d, want 1 for duplicate keywords", provider.callCount())
	}
}

func TestResolveManyAllFailuresStillComplete(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{urls: map[string]string{}}
	r := New(store.NewMemory(), provider)

	results := r.ResolveMany(ctx, []string{"", "a", "no such dish"}, 2)
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want a complete result list", len(results))
	}
	for i, res := range results {
		if res.Err == nil {
			t.Errorf("results[%d].Err = nil, want a failure", i)
		}
	}
}

func TestFailureCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation", keyword.ErrTooShort, models.OutcomeInvalid},
		{"no result", search.ErrNoResult, models.OutcomeNoResult},
		{"upstream", errors.New("boom"), models.OutcomeUpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FailureCode(tt.err); got != tt.expected {
				t.Errorf("FailureCode(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}
