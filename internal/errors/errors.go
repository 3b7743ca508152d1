// errors стандартизирует ответы об ошибках транспортов gallery-service.
// На вход принимается ошибка сервисного слоя (или gRPC-статус),
// а на выход даётся:
//   - gRPC-код (Code) — общий для HTTP и gRPC транспорта;
//   - корректный HTTP-статус и краткое безопасное message без утечки деталей.
//
// Источник истинности по маппингу: сентинелы internal/service.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pribylovaa/go-profile-gallery/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Code маппит ошибку на gRPC-код:
//   - gRPC-статус -> его код;
//   - ErrInvalidArgument -> InvalidArgument;
//   - ErrNotFound -> NotFound;
//   - ErrUpstreamTimeout, context.DeadlineExceeded -> DeadlineExceeded;
//   - context.Canceled -> Canceled;
//   - ErrUpstream, ErrUnavailable -> Unavailable;
//   - прочее -> Internal.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}

	if st, ok := status.FromError(err); ok {
		return st.Code()
	}

	switch {
	case stderrors.Is(err, service.ErrInvalidArgument):
		return codes.InvalidArgument
	case stderrors.Is(err, service.ErrNotFound):
		return codes.NotFound
	case stderrors.Is(err, service.ErrUpstreamTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case stderrors.Is(err, context.Canceled):
		return codes.Canceled
	case stderrors.Is(err, service.ErrUpstream), stderrors.Is(err, service.ErrUnavailable):
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ для фронта.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
//   - ErrUpstream - 502/bad_gateway: апстрим ответил, но не 2xx.
//   - иначе маппим Code(err) через baseFromGRPC().
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{
				Code:    "internal",
				Message: "internal error",
			},
		}
	}

	if stderrors.Is(err, service.ErrUpstream) {
		return http.StatusBadGateway, ErrorResponse{
			Error: APIError{
				Code:    "bad_gateway",
				Message: "upstream error",
			},
		}
	}

	httpStatus, code, msg := baseFromGRPC(Code(err))
	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// baseFromGRPC — базовый маппинг gRPC -> HTTP/FE-код/сообщение:
//   - InvalidArgument -> 400
//   - NotFound -> 404
//   - Canceled -> 499 (клиент закрыл соединение)
//   - DeadlineExceeded -> 504 (таймаут запроса к апстриму)
//   - Unavailable -> 503 (апстрим недоступен)
//   - Unimplemented -> 501
//   - прочее -> 500/internal
func baseFromGRPC(c codes.Code) (int, string, string) {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case codes.NotFound:
		return http.StatusNotFound, "not_found", "not found"
	case codes.Canceled:
		return StatusClientClosedRequest, "canceled", "canceled"
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	case codes.Unimplemented:
		return http.StatusNotImplemented, "unimplemented", "unimplemented"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
