package rest

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// ErrBodyTooLarge is returned when a response body exceeds the BodyLimit.
var ErrBodyTooLarge = errors.New("rest: response body too large")

// BodyLimit returns middleware that limits the response body size. A
// response that declares a larger Content-Length fails immediately; any
// other body fails with ErrBodyTooLarge once more than maxBytes are read.
func BodyLimit(maxBytes int64) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(r)
			if err != nil {
				return resp, err
			}
			if resp.ContentLength > maxBytes {
				_ = resp.Body.Close()
				return nil, errors.Wrapf(ErrBodyTooLarge, "%s %s: %d bytes", r.Method, r.URL, resp.ContentLength)
			}
			resp.Body = &maxBytesBody{rc: resp.Body, n: maxBytes}
			return resp, nil
		})
	}
}

type maxBytesBody struct {
	rc  io.ReadCloser
	n   int64
	err error
}

func (b *maxBytesBody) Read(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	// One extra byte tells a body of exactly n bytes from a longer one.
	if int64(len(p))-1 > b.n {
		p = p[:b.n+1]
	}
	n, err := b.rc.Read(p)
	if int64(n) <= b.n {
		b.n -= int64(n)
		b.err = err
		return n, err
	}
	n = int(b.n)
	b.n = 0
	b.err = ErrBodyTooLarge
	return n, b.err
}

func (b *maxBytesBody) Close() error {
	return b.rc.Close()
}
