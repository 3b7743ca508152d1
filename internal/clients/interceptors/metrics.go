package interceptors

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pribylovaa/go-profile-gallery/internal/clients/profiles"
	"github.com/pribylovaa/go-profile-gallery/internal/metrics"
)

// WithMetrics — фиксирует исход и длительность исходящего запроса.
func WithMetrics(m *metrics.Metrics) Interceptor {
	return func(next profiles.FetchFunc) profiles.FetchFunc {
		return func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(req)
			m.ObserveUpstream(outcome(resp, err), time.Since(start))
			return resp, err
		}
	}
}

func outcome(resp *http.Response, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeCanceled
	case err != nil:
		return metrics.OutcomeTransportError
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return metrics.OutcomeAPIError
	default:
		return metrics.OutcomeOK
	}
}
