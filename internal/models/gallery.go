package models

// GalleryOptions — параметры выборки галереи.
// Limit <= 0 — лимит по умолчанию из конфигурации сервиса.
type GalleryOptions struct {
	PublicOnly bool
	SafeOnly   bool
	Limit      int
}

// DefaultGalleryOptions — только публичные и безопасные фотографии, без лимита.
func DefaultGalleryOptions() GalleryOptions {
	return GalleryOptions{PublicOnly: true, SafeOnly: true}
}

// GalleryItem — фотография и её URL.
type GalleryItem struct {
	Picture Picture `json:"picture"`
	URL     string  `json:"url"`
}

// GalleryStats — счётчики по всем фотографиям профиля, без учёта фильтров запроса.
type GalleryStats struct {
	Total  int `json:"total"`
	Public int `json:"public"`
	Safe   int `json:"safe"`
}

// Gallery — представление профиля для страницы галереи.
type Gallery struct {
	ProfileID  string        `json:"profile_id"`
	Name       string        `json:"name"`
	Headline   string        `json:"headline,omitempty"`
	PreviewURL string        `json:"preview_url,omitempty"`
	Items      []GalleryItem `json:"items"`
	Stats      GalleryStats  `json:"stats"`
}
