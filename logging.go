package rest

import (
	"log/slog"
	"net/http"
	"time"
)

// Logger returns middleware that logs each outbound request using the
// provided slog.Logger. Transport failures are logged at error level.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.Duration("latency", time.Since(start)),
			}
			if id := r.Header.Get(requestIDHeader); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}

			if err != nil {
				attrs = append(attrs, slog.String("err", err.Error()))
				logger.LogAttrs(r.Context(), slog.LevelError, "request failed", attrs...)
				return resp, err
			}

			attrs = append(attrs, slog.Int("status", resp.StatusCode))
			logger.LogAttrs(r.Context(), slog.LevelInfo, "request", attrs...)
			return resp, nil
		})
	}
}
