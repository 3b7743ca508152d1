package interceptors

import (
	"net/http"

	"github.com/pribylovaa/go-profile-gallery/internal/clients/profiles"
)

type CtxKey string

const CtxRequestID CtxKey = "request_id"

// WithMetadata — добавляет в исходящий запрос заголовки:
//   - X-Request-Id (если есть в контексте запроса),
//   - User-Agent (если передан параметром).
//
// Уже выставленные заголовки не перезаписываются. Исходный *http.Request не мутируется.
func WithMetadata(userAgent string) Interceptor {
	return func(next profiles.FetchFunc) profiles.FetchFunc {
		return func(req *http.Request) (*http.Response, error) {
			rid, _ := req.Context().Value(CtxRequestID).(string)

			needRID := rid != "" && req.Header.Get("X-Request-Id") == ""
			needUA := userAgent != "" && req.Header.Get("User-Agent") == ""

			if needRID || needUA {
				req = req.Clone(req.Context())
				if needRID {
					req.Header.Set("X-Request-Id", rid)
				}
				if needUA {
					req.Header.Set("User-Agent", userAgent)
				}
			}

			return next(req)
		}
	}
}
