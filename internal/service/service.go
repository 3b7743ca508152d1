// service содержит бизнес-логику gallery-service:
// получение профиля через ProfileFetcher, выборку фотографий и сборку
// метаданных страницы поверх чистых функций internal/pictures и internal/seo.
//
// Основные аспекты:
//   - Service не хранит состояние запроса и безопасен для конкурентного
//     использования при условии, что ProfileFetcher потокобезопасен.
//   - Ошибки апстрима маппятся на сентинелы ниже; исходная ошибка остаётся
//     в цепочке (errors.As находит *profiles.APIError / *profiles.TimeoutError).
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-profile-gallery/internal/clients/profiles"
	"github.com/pribylovaa/go-profile-gallery/internal/config"
	"github.com/pribylovaa/go-profile-gallery/internal/models"
	"github.com/pribylovaa/go-profile-gallery/internal/pictures"
)

var (
	// ErrNotFound — апстрим ответил 404.
	// Транспорт: codes.NotFound (HTTP 404).
	ErrNotFound = errors.New("profile not found")

	// ErrUpstream — апстрим ответил статусом вне 2xx (кроме 404).
	// Транспорт: codes.Unavailable (HTTP 502).
	ErrUpstream = errors.New("upstream error")

	// ErrUpstreamTimeout — апстрим не уложился в таймаут.
	// Транспорт: codes.DeadlineExceeded (HTTP 504).
	ErrUpstreamTimeout = errors.New("upstream timeout")

	// ErrInvalidArgument — некорректные данные профиля или параметры запроса.
	// Транспорт: codes.InvalidArgument (HTTP 400).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnavailable — сеть, разбор ответа и прочие ошибки получения профиля.
	// Транспорт: codes.Unavailable (HTTP 503).
	ErrUnavailable = errors.New("profile source unavailable")
)

// ProfileFetcher — источник профилей: *profiles.Client или *cache.Revalidating.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, slug string) (*models.Profile, error)
}

// Service описывает бизнес-логику gallery-service.
type Service struct {
	fetcher ProfileFetcher
	cfg     config.Config
}

// New создаёт новый экземпляр Service.
func New(fetcher ProfileFetcher, cfg config.Config) *Service {
	return &Service{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

// resolveSlug — пустой slug заменяется на upstream.default_slug.
func (s *Service) resolveSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug != "" {
		return slug
	}
	if s.cfg.Upstream.DefaultSlug != "" {
		return s.cfg.Upstream.DefaultSlug
	}

	return profiles.DefaultSlug
}

// normalizeLimit:
//   - limit <= 0 -> cfg.Limits.Default;
//   - limit > max или всё ещё без ограничения -> cfg.Limits.Max.
//
// 0 на выходе — без ограничения (только при Max == 0).
func (s *Service) normalizeLimit(limit int) int {
	if limit <= 0 {
		limit = s.cfg.Limits.Default
	}
	if s.cfg.Limits.Max > 0 && (limit <= 0 || limit > s.cfg.Limits.Max) {
		limit = s.cfg.Limits.Max
	}

	return limit
}

// pictureOptions переводит GalleryOptions в опции internal/pictures.
func (s *Service) pictureOptions(opts models.GalleryOptions) []pictures.Option {
	out := []pictures.Option{
		pictures.WithPublicOnly(opts.PublicOnly),
		pictures.WithSafeOnly(opts.SafeOnly),
	}
	if limit := s.normalizeLimit(opts.Limit); limit > 0 {
		out = append(out, pictures.WithLimit(limit))
	}

	return out
}

// mapFetchErr маппит ошибку источника профилей на сентинел сервиса.
// Отмена запроса вызывающим пробрасывается как есть (с op).
func mapFetchErr(op string, err error) error {
	var (
		timeoutErr *profiles.TimeoutError
		apiErr     *profiles.APIError
	)

	switch {
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, ErrUpstreamTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	case errors.As(err, &apiErr):
		if apiErr.Status == http.StatusNotFound {
			return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		}
		return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
}

// mapBuildErr маппит ошибки internal/pictures и internal/seo.
func mapBuildErr(op string, err error) error {
	if errors.Is(err, pictures.ErrInvalidArgument) {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
