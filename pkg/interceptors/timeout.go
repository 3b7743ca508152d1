// interceptors — серверные unary-интерсепторы gRPC-транспорта галереи.
package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// WithTimeout ограничивает обработку вызова длительностью d.
//
// Дедлайн клиента имеет приоритет: если во входящем ctx он уже есть,
// контекст не трогаем. d <= 0 выключает интерсептор.
// Истёкший дедлайн доходит до клиента профилей через ctx и возвращается
// из сервиса как context.DeadlineExceeded (codes.DeadlineExceeded).
func WithTimeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok || d <= 0 {
			return handler(ctx, req)
		}

		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		return handler(ctx, req)
	}
}
