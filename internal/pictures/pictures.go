// pictures — чистые функции выборки фотографий профиля и сборки URL изображений.
//
// Функции не выполняют I/O, не мутируют вход и безопасны для конкурентного вызова.
// Порядок фотографий всегда сохраняется: результаты можно сопоставлять по индексу.
package pictures

import (
	"errors"
	"fmt"

	"github.com/pribylovaa/go-profile-gallery/internal/models"
)

// ImageBaseURL — корень, от которого строятся URL изображений.
const ImageBaseURL = "https://www.hunqz.com/img/usr/original/0x0"

// ErrInvalidArgument — нарушено предусловие (например, пустой url_token).
var ErrInvalidArgument = errors.New("invalid argument")

// BuildImageURL возвращает {ImageBaseURL}/{token}.jpg.
// Пустой token — ErrInvalidArgument, "битый" URL вида .../.jpg не строится.
func BuildImageURL(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("url_token is required: %w", ErrInvalidArgument)
	}

	return ImageBaseURL + "/" + token + ".jpg", nil
}

// PublicPictures — фотографии с is_public=true в исходном порядке.
func PublicPictures(p *models.Profile) []models.Picture {
	return Filter(p, WithSafeOnly(false))
}

// SafePictures — публичные фотографии с рейтингом NEUTRAL или APP_SAFE.
func SafePictures(p *models.Profile) []models.Picture {
	return Filter(p)
}

// PreviewImageURL возвращает URL обложки.
// ok=false, если preview_pic отсутствует; ошибка BuildImageURL пробрасывается.
func PreviewImageURL(p *models.Profile) (string, bool, error) {
	if p == nil || p.PreviewPic == nil {
		return "", false, nil
	}

	u, err := BuildImageURL(p.PreviewPic.URLToken)
	if err != nil {
		return "", false, err
	}

	return u, true, nil
}

// Filter применяет фильтры publicOnly и safeOnly (по умолчанию оба включены).
// Limit здесь не учитывается — он относится к итоговому списку URL.
func Filter(p *models.Profile, opts ...Option) []models.Picture {
	o := newOptions(opts)

	if p == nil {
		return []models.Picture{}
	}

	out := make([]models.Picture, 0, len(p.Pictures))
	for _, pic := range p.Pictures {
		if o.publicOnly && !pic.IsPublic {
			continue
		}
		if o.safeOnly && !pic.Rating.Safe() {
			continue
		}
		out = append(out, pic)
	}

	return out
}

// ImageURLs строит URL изображений профиля.
//
// Порядок шагов фиксирован:
//  1. publicOnly (по умолчанию true);
//  2. safeOnly (по умолчанию true);
//  3. BuildImageURL для каждой оставшейся фотографии;
//  4. limit — первые N URL.
//
// Ошибки: ErrInvalidArgument при пустом url_token у отобранной фотографии
// или при отрицательном limit.
func ImageURLs(p *models.Profile, opts ...Option) ([]string, error) {
	o := newOptions(opts)

	if o.limit != nil && *o.limit < 0 {
		return nil, fmt.Errorf("limit must be >= 0, got %d: %w", *o.limit, ErrInvalidArgument)
	}

	pics := Filter(p, opts...)

	urls := make([]string, 0, len(pics))
	for _, pic := range pics {
		u, err := BuildImageURL(pic.URLToken)
		if err != nil {
			return nil, fmt.Errorf("picture %q: %w", pic.ID, err)
		}
		urls = append(urls, u)
	}

	if o.limit != nil && *o.limit < len(urls) {
		urls = urls[:*o.limit]
	}

	return urls, nil
}
