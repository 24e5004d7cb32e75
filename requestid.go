package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDConfig configures the RequestID middleware.
type RequestIDConfig struct {
	Header    string        // default: "X-Request-ID"
	Generator func() string // default: random UUID
}

// RequestID returns middleware that stamps every outbound request with a
// request ID. An ID already on the request header wins, then one stored in
// the request context with ContextWithRequestID, then a generated one.
func RequestID(cfg ...RequestIDConfig) Middleware {
	c := RequestIDConfig{
		Header:    requestIDHeader,
		Generator: uuid.NewString,
	}
	if len(cfg) > 0 {
		if cfg[0].Header != "" {
			c.Header = cfg[0].Header
		}
		if cfg[0].Generator != nil {
			c.Generator = cfg[0].Generator
		}
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(c.Header) != "" {
				return next.RoundTrip(r)
			}
			id := RequestIDFromContext(r.Context())
			if id == "" {
				id = c.Generator()
			}
			r2 := r.Clone(r.Context())
			r2.Header.Set(c.Header, id)
			return next.RoundTrip(r2)
		})
	}
}

// ContextWithRequestID returns a context carrying id. The RequestID
// middleware sends it instead of generating a new one.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request ID stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
