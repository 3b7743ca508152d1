package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTrailingData — после JSON-объекта профиля в теле ответа есть ещё данные.
var ErrTrailingData = errors.New("unexpected data after profile json")

// TimeoutError — запрос не уложился в заданный таймаут.
// errors.Is(err, context.DeadlineExceeded) для него истинно.
type TimeoutError struct {
	Timeout time.Duration
	URL     string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %dms", e.Timeout.Milliseconds())
}

func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// APIError — апстрим ответил статусом вне 2xx. Тело ответа не разбирается.
type APIError struct {
	Status int
	URL    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d for %s", e.Status, e.URL)
}
