// cache — обёртка ревалидации над источником профилей и хранилища для неё.
//
// Запись считается свежей Revalidate (по умолчанию 5 минут) с момента сохранения;
// после этого следующий запрос идёт в апстрим. Хранится запись StaleTTL: пока она
// есть, при ошибке апстрима отдаётся устаревшая копия.
package cache

import (
	"context"
	"time"

	"github.com/pribylovaa/go-profile-gallery/internal/models"
)

// Entry — закодированный в JSON профиль и момент его получения из апстрима.
type Entry struct {
	Body     []byte
	StoredAt time.Time
}

// Store — минимальный контракт хранилища записей.
type Store interface {
	// Get возвращает запись и признак её наличия.
	Get(ctx context.Context, key string) (*Entry, bool, error)
	// Set сохраняет запись с TTL.
	Set(ctx context.Context, key string, e *Entry, ttl time.Duration) error
	// Close освобождает ресурсы хранилища.
	Close() error
}

// Fetcher — источник профилей; *profiles.Client ему удовлетворяет.
type Fetcher interface {
	FetchProfile(ctx context.Context, slug string) (*models.Profile, error)
}
