package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pribylovaa/go-profile-gallery/internal/models"
	"github.com/pribylovaa/go-profile-gallery/internal/pictures"
	"github.com/pribylovaa/go-profile-gallery/internal/seo"
	"github.com/pribylovaa/go-profile-gallery/pkg/log"
)

// Profile возвращает профиль как есть (включая Extra).
//
// Ошибки: ErrNotFound, ErrUpstream, ErrUpstreamTimeout, ErrUnavailable;
// отмена ctx — context.Canceled.
func (s *Service) Profile(ctx context.Context, slug string) (*models.Profile, error) {
	const op = "service.gallery.Profile"

	slug = s.resolveSlug(slug)

	lg := log.From(ctx)
	lg.Info("profile_request",
		slog.String("op", op),
		slog.String("slug", slug),
	)

	p, err := s.fetch(ctx, op, slug)
	if err != nil {
		return nil, err
	}

	lg.Info("profile_ok",
		slog.String("op", op),
		slog.String("slug", slug),
		slog.Int("pictures", len(p.Pictures)),
	)

	return p, nil
}

// Gallery возвращает отфильтрованные фотографии с URL, обложку и статистику.
//
// Фильтры применяются в порядке publicOnly → safeOnly → limit; элементы Items
// идут в исходном порядке. Обложка с пустым url_token опускается.
func (s *Service) Gallery(ctx context.Context, slug string, opts models.GalleryOptions) (*models.Gallery, error) {
	const op = "service.gallery.Gallery"

	slug = s.resolveSlug(slug)

	lg := log.From(ctx)
	lg.Info("gallery_request",
		slog.String("op", op),
		slog.String("slug", slug),
		slog.Bool("public_only", opts.PublicOnly),
		slog.Bool("safe_only", opts.SafeOnly),
		slog.Int("limit", opts.Limit),
	)

	p, err := s.fetch(ctx, op, slug)
	if err != nil {
		return nil, err
	}

	popts := s.pictureOptions(opts)

	urls, err := pictures.ImageURLs(p, popts...)
	if err != nil {
		lg.Warn("gallery_invalid_picture",
			slog.String("op", op),
			slog.String("slug", slug),
			slog.String("err", err.Error()),
		)

		return nil, mapBuildErr(op, err)
	}

	// Filter и ImageURLs сохраняют порядок, limit отрезает хвост — пары совпадают по индексу.
	pics := pictures.Filter(p, popts...)
	items := make([]models.GalleryItem, len(urls))
	for i, u := range urls {
		items[i] = models.GalleryItem{Picture: pics[i], URL: u}
	}

	preview, ok, err := pictures.PreviewImageURL(p)
	if err != nil {
		lg.Warn("gallery_invalid_preview",
			slog.String("op", op),
			slog.String("slug", slug),
			slog.String("err", err.Error()),
		)
	}
	if !ok {
		preview = ""
	}

	g := &models.Gallery{
		ProfileID:  p.ID,
		Name:       p.Name,
		Headline:   p.Headline,
		PreviewURL: preview,
		Items:      items,
		Stats:      Stats(p),
	}

	lg.Info("gallery_ok",
		slog.String("op", op),
		slog.String("slug", slug),
		slog.Int("items", len(items)),
	)

	return g, nil
}

// ImageURLs возвращает только URL изображений с теми же правилами выборки, что и Gallery.
func (s *Service) ImageURLs(ctx context.Context, slug string, opts models.GalleryOptions) ([]string, error) {
	const op = "service.gallery.ImageURLs"

	slug = s.resolveSlug(slug)

	lg := log.From(ctx)
	lg.Info("image_urls_request",
		slog.String("op", op),
		slog.String("slug", slug),
		slog.Int("limit", opts.Limit),
	)

	p, err := s.fetch(ctx, op, slug)
	if err != nil {
		return nil, err
	}

	urls, err := pictures.ImageURLs(p, s.pictureOptions(opts)...)
	if err != nil {
		lg.Warn("image_urls_invalid_picture",
			slog.String("op", op),
			slog.String("slug", slug),
			slog.String("err", err.Error()),
		)

		return nil, mapBuildErr(op, err)
	}

	lg.Info("image_urls_ok",
		slog.String("op", op),
		slog.String("slug", slug),
		slog.Int("urls", len(urls)),
	)

	return urls, nil
}

// Metadata возвращает SEO-метаданные и JSON-LD страницы профиля.
func (s *Service) Metadata(ctx context.Context, slug string) (*seo.Page, error) {
	const op = "service.gallery.Metadata"

	slug = s.resolveSlug(slug)

	lg := log.From(ctx)
	lg.Info("metadata_request",
		slog.String("op", op),
		slog.String("slug", slug),
	)

	p, err := s.fetch(ctx, op, slug)
	if err != nil {
		return nil, err
	}

	page, err := seo.BuildPage(p, s.cfg.SEO.SiteName)
	if err != nil {
		lg.Warn("metadata_build_failed",
			slog.String("op", op),
			slog.String("slug", slug),
			slog.String("err", err.Error()),
		)

		return nil, mapBuildErr(op, err)
	}

	lg.Info("metadata_ok",
		slog.String("op", op),
		slog.String("slug", slug),
	)

	return page, nil
}

// Stats — счётчики по всем фотографиям профиля.
func Stats(p *models.Profile) models.GalleryStats {
	if p == nil {
		return models.GalleryStats{}
	}

	return models.GalleryStats{
		Total:  len(p.Pictures),
		Public: len(pictures.PublicPictures(p)),
		Safe:   len(pictures.SafePictures(p)),
	}
}

// fetch получает профиль и маппит ошибку с логированием по уровню серьёзности.
func (s *Service) fetch(ctx context.Context, op, slug string) (*models.Profile, error) {
	lg := log.From(ctx)

	p, err := s.fetcher.FetchProfile(ctx, slug)
	if err == nil {
		return p, nil
	}

	mapped := mapFetchErr(op, err)

	attrs := []any{
		slog.String("op", op),
		slog.String("slug", slug),
		slog.String("err", err.Error()),
	}
	switch {
	case errors.Is(mapped, ErrNotFound):
		lg.Warn("profile_not_found", attrs...)
	case ctx.Err() != nil:
		lg.Warn("profile_request_canceled", attrs...)
	default:
		lg.Error("profile_fetch_failed", attrs...)
	}

	return nil, mapped
}
