package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pribylovaa/go-profile-gallery/internal/metrics"
	"github.com/pribylovaa/go-profile-gallery/internal/models"
	"github.com/pribylovaa/go-profile-gallery/pkg/log"
)

const (
	DefaultRevalidate = 300 * time.Second
	DefaultStaleTTL   = 24 * time.Hour
)

// Options — параметры Revalidating. Нулевые значения заменяются на Default*.
type Options struct {
	Revalidate time.Duration
	StaleTTL   time.Duration
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// Revalidating — Fetcher поверх другого Fetcher и Store.
//
// Свежая запись отдаётся без обращения к апстриму. Промахи по одному slug
// схлопываются в один запрос (singleflight). Запрос к апстриму не зависит от
// отмены контекста отдельного вызывающего и ограничен таймаутом клиента.
// Каждый вызов получает собственную копию профиля.
type Revalidating struct {
	next       Fetcher
	store      Store
	revalidate time.Duration
	staleTTL   time.Duration
	log        *slog.Logger
	metrics    *metrics.Metrics
	group      singleflight.Group
	now        func() time.Time
}

func NewRevalidating(next Fetcher, store Store, opts Options) *Revalidating {
	r := &Revalidating{
		next:       next,
		store:      store,
		revalidate: opts.Revalidate,
		staleTTL:   opts.StaleTTL,
		log:        opts.Logger,
		metrics:    opts.Metrics,
		now:        time.Now,
	}

	if r.revalidate <= 0 {
		r.revalidate = DefaultRevalidate
	}
	if r.staleTTL <= 0 {
		r.staleTTL = DefaultStaleTTL
	}
	if r.staleTTL < r.revalidate {
		r.staleTTL = r.revalidate
	}

	return r
}

// withLogger кладёт в ctx Options.Logger, если логгера запроса там нет.
func (r *Revalidating) withLogger(ctx context.Context) context.Context {
	if log.From(ctx) == slog.Default() && r.log != nil {
		return log.Into(ctx, r.log)
	}

	return ctx
}

// FetchProfile возвращает профиль из хранилища или апстрима.
// Ошибка апстрима возвращается как есть, если устаревшей записи нет.
func (r *Revalidating) FetchProfile(ctx context.Context, slug string) (*models.Profile, error) {
	const op = "cache.Revalidating.FetchProfile"

	// op и slug попадают и в записи апстрима при обновлении.
	ctx, l := log.With(r.withLogger(ctx), slog.String("op", op), slog.String("slug", slug))

	cached, ok, err := r.store.Get(ctx, slug)
	if err != nil {
		r.metrics.ObserveCache(metrics.CacheError)
		l.Warn("cache_get_failed", slog.String("err", err.Error()))
		ok = false
	}

	var stale *models.Profile
	if ok {
		p, err := decode(cached.Body)
		switch {
		case err != nil:
			l.Warn("cache_decode_failed", slog.String("err", err.Error()))
		case r.now().Sub(cached.StoredAt) < r.revalidate:
			r.metrics.ObserveCache(metrics.CacheHit)
			return p, nil
		default:
			stale = p
		}
	}

	ch := r.group.DoChan(slug, func() (any, error) {
		return r.refresh(context.WithoutCancel(ctx), slug, l)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	if res.Err != nil {
		if stale != nil {
			r.metrics.ObserveCache(metrics.CacheStale)
			l.Warn("cache_serve_stale", slog.String("err", res.Err.Error()))
			return stale, nil
		}
		return nil, res.Err
	}

	r.metrics.ObserveCache(metrics.CacheMiss)

	return decode(res.Val.([]byte))
}

// refresh идёт в апстрим и сохраняет результат; возвращает JSON профиля,
// чтобы каждый ожидающий вызов декодировал собственную копию.
func (r *Revalidating) refresh(ctx context.Context, slug string, l *slog.Logger) ([]byte, error) {
	p, err := r.next.FetchProfile(ctx, slug)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	e := &Entry{Body: body, StoredAt: r.now()}
	if err := r.store.Set(ctx, slug, e, r.staleTTL); err != nil {
		l.Warn("cache_set_failed", slog.String("err", err.Error()))
	}

	return body, nil
}

func decode(body []byte) (*models.Profile, error) {
	var p models.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}

	return &p, nil
}
