// interceptors — обёртки исходящего HTTP-транспорта клиента профилей
// (аналог клиентских gRPC-интерсепторов): метаданные, логирование, метрики.
package interceptors

import (
	"github.com/pribylovaa/go-profile-gallery/internal/clients/profiles"
)

// Interceptor оборачивает profiles.FetchFunc.
type Interceptor func(next profiles.FetchFunc) profiles.FetchFunc

// Chain применяет интерсепторы в порядке перечисления: первый — самый внешний.
func Chain(fetch profiles.FetchFunc, ics ...Interceptor) profiles.FetchFunc {
	for i := len(ics) - 1; i >= 0; i-- {
		fetch = ics[i](fetch)
	}
	return fetch
}
