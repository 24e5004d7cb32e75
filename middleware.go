package rest

import "net/http"

// Middleware wraps an http.RoundTripper. The returned RoundTripper must be
// safe for concurrent use.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain applies middleware to base so that Chain(base, a, b) returns
// a(b(base)). A nil base is replaced by a clone of http.DefaultTransport.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = cloneDefaultTransport()
	}
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		base = mws[i](base)
	}
	return base
}

func cloneDefaultTransport() http.RoundTripper {
	if t, ok := http.DefaultTransport.(*http.Transport); ok && t != nil {
		return t.Clone()
	}
	return http.DefaultTransport
}

// SetHeader returns middleware that sets a header on every request. The
// request is cloned before it is modified.
func SetHeader(key, value string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r2 := r.Clone(r.Context())
			r2.Header.Set(key, value)
			return next.RoundTrip(r2)
		})
	}
}
