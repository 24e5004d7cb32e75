package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Transport performs a built request.
type Transport interface {
	Do(ctx context.Context, req *Request) (Response, error)
}

// TransportFunc adapts a function to a Transport.
type TransportFunc func(ctx context.Context, req *Request) (Response, error)

// Do calls f.
func (f TransportFunc) Do(ctx context.Context, req *Request) (Response, error) { return f(ctx, req) }

// Response is a completed response whose body is decoded on demand.
type Response interface {
	StatusCode() int

	// JSON decodes the body into v. An empty body leaves v untouched; a body
	// with anything but whitespace after the first value is an error.
	JSON(v any) error

	// Close releases the body. It is called once the call has finished with
	// the response, whether or not JSON was called.
	Close() error
}

// HTTPTransport is the default Transport, backed by net/http.
type HTTPTransport struct {
	client *http.Client
}

// TransportOption configures an HTTPTransport.
type TransportOption func(*transportConfig)

type transportConfig struct {
	client      *http.Client
	timeout     time.Duration
	middlewares []Middleware
}

// WithHTTPClient sets the underlying *http.Client. Its Transport is wrapped,
// not modified, when middleware is configured.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(tc *transportConfig) {
		tc.client = c
	}
}

// WithTimeout sets http.Client.Timeout. The default is no timeout.
func WithTimeout(d time.Duration) TransportOption {
	return func(tc *transportConfig) {
		tc.timeout = d
	}
}

// WithMiddleware appends RoundTripper middleware. Middleware is applied in
// the order added, so the first one sees the request first.
func WithMiddleware(mws ...Middleware) TransportOption {
	return func(tc *transportConfig) {
		tc.middlewares = append(tc.middlewares, mws...)
	}
}

// NewHTTPTransport builds an HTTPTransport. It never mutates
// http.DefaultClient or http.DefaultTransport.
func NewHTTPTransport(opts ...TransportOption) *HTTPTransport {
	var tc transportConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&tc)
		}
	}

	hc := &http.Client{}
	if tc.client != nil {
		clone := *tc.client
		hc = &clone
	}
	if tc.timeout > 0 {
		hc.Timeout = tc.timeout
	}
	if len(tc.middlewares) > 0 {
		hc.Transport = Chain(hc.Transport, tc.middlewares...)
	}
	return &HTTPTransport{client: hc}
}

// Do sends req over HTTP.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	hr, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, errors.Wrap(err, "rest: new request")
	}
	for k, vv := range req.Header {
		for _, v := range vv {
			hr.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(hr)
	if err != nil {
		return nil, err
	}
	return &httpResponse{resp: resp}, nil
}

type httpResponse struct {
	resp *http.Response
}

func (r *httpResponse) StatusCode() int { return r.resp.StatusCode }

func (r *httpResponse) JSON(v any) error {
	dec := json.NewDecoder(r.resp.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	// The body must hold a single JSON value.
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return errors.New("rest: unexpected data after JSON value")
	}
	return nil
}

func (r *httpResponse) Close() error {
	return r.resp.Body.Close()
}
