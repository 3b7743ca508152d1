package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-profile-gallery/internal/metrics"
	"github.com/pribylovaa/go-profile-gallery/internal/models"
	"github.com/pribylovaa/go-profile-gallery/pkg/log"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// stubFetcher — управляемый источник: считает вызовы, может блокироваться и падать.
type stubFetcher struct {
	calls   atomic.Int32
	err     atomic.Pointer[error]
	release chan struct{}
	entered chan struct{}
}

func (f *stubFetcher) FetchProfile(_ context.Context, slug string) (*models.Profile, error) {
	n := f.calls.Add(1)
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.release != nil {
		<-f.release
	}
	if e := f.err.Load(); e != nil {
		return nil, *e
	}

	return &models.Profile{
		ID:       slug,
		Name:     "user-" + slug,
		Headline: "v" + string(rune('0'+n)),
		Pictures: []models.Picture{{ID: "1", URLToken: "tok", Rating: models.RatingNeutral, IsPublic: true}},
		Extra:    map[string]json.RawMessage{"location": json.RawMessage(`"Berlin"`)},
	}, nil
}

func (f *stubFetcher) failWith(err error) { f.err.Store(&err) }

func newTestCache(t *testing.T, f Fetcher) (*Revalidating, *MemoryStore, *fakeClock, *prometheus.Registry) {
	t.Helper()

	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = clock.Now

	reg := prometheus.NewRegistry()
	r := NewRevalidating(f, store, Options{
		Revalidate: 5 * time.Minute,
		StaleTTL:   time.Hour,
		Metrics:    metrics.New(reg),
	})
	r.now = clock.Now

	return r, store, clock, reg
}

func cacheLookups(t *testing.T, reg *prometheus.Registry, result string) float64 {
	t.Helper()

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "gallery_cache_lookups_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == result {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestNewRevalidating_Defaults(t *testing.T) {
	r := NewRevalidating(&stubFetcher{}, NewMemoryStore(), Options{})
	require.Equal(t, DefaultRevalidate, r.revalidate)
	require.Equal(t, DefaultStaleTTL, r.staleTTL)

	r = NewRevalidating(&stubFetcher{}, NewMemoryStore(), Options{Revalidate: time.Hour, StaleTTL: time.Minute})
	require.Equal(t, time.Hour, r.staleTTL)
}

func TestRevalidating_MissThenHit(t *testing.T) {
	f := &stubFetcher{}
	r, _, _, reg := newTestCache(t, f)
	ctx := context.Background()

	p1, err := r.FetchProfile(ctx, "alice")
	require.NoError(t, err)
	p2, err := r.FetchProfile(ctx, "alice")
	require.NoError(t, err)

	require.EqualValues(t, 1, f.calls.Load())
	require.Equal(t, p1, p2)
	require.NotSame(t, p1, p2)
	require.JSONEq(t, `"Berlin"`, string(p2.Extra["location"]))

	require.Equal(t, 1.0, cacheLookups(t, reg, metrics.CacheMiss))
	require.Equal(t, 1.0, cacheLookups(t, reg, metrics.CacheHit))
}

func TestRevalidating_RefetchesAfterRevalidateWindow(t *testing.T) {
	f := &stubFetcher{}
	r, _, clock, _ := newTestCache(t, f)
	ctx := context.Background()

	p, err := r.FetchProfile(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "v1", p.Headline)

	clock.Advance(4 * time.Minute)
	p, err = r.FetchProfile(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "v1", p.Headline)

	clock.Advance(2 * time.Minute)
	p, err = r.FetchProfile(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "v2", p.Headline)
	require.EqualValues(t, 2, f.calls.Load())
}

func TestRevalidating_ServesStaleOnUpstreamError(t *testing.T) {
	f := &stubFetcher{}
	r, _, clock, reg := newTestCache(t, f)
	ctx := context.Background()

	_, err := r.FetchProfile(ctx, "alice")
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	f.failWith(errors.New("upstream down"))

	p, err := r.FetchProfile(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "v1", p.Headline)
	require.Equal(t, 1.0, cacheLookups(t, reg, metrics.CacheStale))
}

func TestRevalidating_ErrorWithoutEntryIsReturnedUnchanged(t *testing.T) {
	f := &stubFetcher{}
	upstreamErr := errors.New("boom")
	f.failWith(upstreamErr)
	r, _, clock, _ := newTestCache(t, f)

	_, err := r.FetchProfile(context.Background(), "alice")
	require.Same(t, upstreamErr, err)

	// После StaleTTL устаревшей записи нет — ошибка тоже пробрасывается.
	f.err.Store(nil)
	_, err = r.FetchProfile(context.Background(), "bob")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	f.failWith(upstreamErr)
	_, err = r.FetchProfile(context.Background(), "bob")
	require.Same(t, upstreamErr, err)
}

func TestRevalidating_CollapsesConcurrentMisses(t *testing.T) {
	f := &stubFetcher{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	r, _, _, _ := newTestCache(t, f)

	const n = 10
	var wg sync.WaitGroup
	results := make([]*models.Profile, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.FetchProfile(context.Background(), "alice")
		}(i)
	}

	<-f.entered
	time.Sleep(50 * time.Millisecond)
	close(f.release)
	wg.Wait()

	require.EqualValues(t, 1, f.calls.Load())
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "user-alice", results[i].Name)
		if i > 0 {
			require.NotSame(t, results[0], results[i])
		}
	}
}

func TestRevalidating_CallerCancelDoesNotAbortRefresh(t *testing.T) {
	f := &stubFetcher{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	r, store, _, _ := newTestCache(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := r.FetchProfile(ctx, "alice")
		done <- err
	}()

	<-f.entered
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(f.release)
	require.Eventually(t, func() bool {
		_, ok, _ := store.Get(context.Background(), "alice")
		return ok
	}, time.Second, 10*time.Millisecond)
}

type failingStore struct{ *MemoryStore }

func (failingStore) Get(context.Context, string) (*Entry, bool, error) {
	return nil, false, errors.New("store unavailable")
}

func TestRevalidating_StoreErrorFallsThroughToUpstream(t *testing.T) {
	f := &stubFetcher{}
	reg := prometheus.NewRegistry()
	r := NewRevalidating(f, failingStore{NewMemoryStore()}, Options{Metrics: metrics.New(reg)})

	p, err := r.FetchProfile(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "user-alice", p.Name)
	require.Equal(t, 1.0, cacheLookups(t, reg, metrics.CacheError))
	require.Equal(t, 1.0, cacheLookups(t, reg, metrics.CacheMiss))
	require.Equal(t, 2, testutil.CollectAndCount(reg, "gallery_cache_lookups_total"))
}

func TestMemoryStore_TTLAndIsolation(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := NewMemoryStore()
	s.now = clock.Now
	ctx := context.Background()

	body := []byte(`{"id":"1"}`)
	require.NoError(t, s.Set(ctx, "k", &Entry{Body: body, StoredAt: clock.Now()}, time.Minute))
	body[2] = 'X'

	e, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":"1"}`, string(e.Body))

	e.Body[2] = 'Y'
	e, _, _ = s.Get(ctx, "k")
	require.Equal(t, `{"id":"1"}`, string(e.Body))

	clock.Advance(time.Minute)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Close())
}

// attrRecorder — slog.Handler, запоминающий атрибуты логгера (With) по сообщению.
type attrRecorder struct {
	mu    sync.Mutex
	base  []slog.Attr
	byMsg map[string]map[string]any
}

func (h *attrRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *attrRecorder) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]any, len(h.base))
	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}
	if h.byMsg == nil {
		h.byMsg = make(map[string]map[string]any)
	}
	h.byMsg[r.Message] = out
	return nil
}

func (h *attrRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.base = append(h.base, attrs...)
	return h
}

func (h *attrRecorder) WithGroup(string) slog.Handler { return h }

// fetcherFunc адаптирует функцию к Fetcher.
type fetcherFunc func(ctx context.Context, slug string) (*models.Profile, error)

func (f fetcherFunc) FetchProfile(ctx context.Context, slug string) (*models.Profile, error) {
	return f(ctx, slug)
}

func TestRevalidating_UpstreamContextCarriesOpAndSlug(t *testing.T) {
	h := &attrRecorder{}

	f := fetcherFunc(func(ctx context.Context, slug string) (*models.Profile, error) {
		log.From(ctx).Info("upstream_call")
		return &models.Profile{ID: "1", Name: slug}, nil
	})

	r := NewRevalidating(f, NewMemoryStore(), Options{Logger: slog.New(h)})

	p, err := r.FetchProfile(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", p.Name)

	attrs := h.byMsg["upstream_call"]
	require.Equal(t, "cache.Revalidating.FetchProfile", attrs["op"])
	require.Equal(t, "alice", attrs["slug"])
}

func TestRevalidating_RequestLoggerWinsOverOptionsLogger(t *testing.T) {
	optsH, reqH := &attrRecorder{}, &attrRecorder{}

	f := fetcherFunc(func(ctx context.Context, slug string) (*models.Profile, error) {
		log.From(ctx).Info("upstream_call")
		return &models.Profile{ID: "1", Name: slug}, nil
	})

	r := NewRevalidating(f, NewMemoryStore(), Options{Logger: slog.New(optsH)})

	ctx := log.Into(context.Background(), slog.New(reqH).With(slog.String("request_id", "rid-1")))
	_, err := r.FetchProfile(ctx, "bob")
	require.NoError(t, err)

	require.Empty(t, optsH.byMsg)
	require.Equal(t, "rid-1", reqH.byMsg["upstream_call"]["request_id"])
	require.Equal(t, "bob", reqH.byMsg["upstream_call"]["slug"])
}
