package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-profile-gallery/internal/clients/interceptors"
)

// maxRequestIDLen — входящий X-Request-Id длиннее этого заменяется новым.
const maxRequestIDLen = 128

// RequestID обеспечивает наличие X-Request-Id:
//  1. читает заголовок X-Request-Id, если он есть и не длиннее maxRequestIDLen;
//  2. иначе генерирует UUID v4;
//  3. кладёт id в Response Header, Request Header и в контекст по ключу
//     interceptors.CtxRequestID (его читает WithMetadata исходящего клиента).
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
				// добавим в запрос — чтобы errors.WriteError мог его забрать.
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)

			ctx := context.WithValue(r.Context(), interceptors.CtxRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
