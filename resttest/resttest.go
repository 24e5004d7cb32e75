// Package resttest provides test doubles for the rest client: a recording
// Transport with canned responses, and an httptest server routed by
// gorilla/mux.
package resttest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/bjaus/rest"
)

// ErrNoResponse is returned by Transport when no response is queued.
var ErrNoResponse = errors.New("resttest: no response queued")

// Response is a canned rest.Response.
type Response struct {
	Status int
	Body   []byte

	mu     sync.Mutex
	reads  int
	closed bool
}

// NewResponse returns a Response whose body is body encoded as JSON. A nil
// body leaves the response empty.
func NewResponse(status int, body any) *Response {
	r := &Response{Status: status}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic("resttest: marshal response body: " + err.Error())
		}
		r.Body = b
	}
	return r
}

// StatusCode returns the canned status.
func (r *Response) StatusCode() int { return r.Status }

// JSON decodes the canned body into v.
func (r *Response) JSON(v any) error {
	r.mu.Lock()
	r.reads++
	r.mu.Unlock()
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Close marks the response closed.
func (r *Response) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Reads reports how many times JSON was called.
func (r *Response) Reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

// Closed reports whether Close was called.
func (r *Response) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

type reply struct {
	resp rest.Response
	err  error
}

// Transport is a rest.Transport that records every request and answers from
// a queue of canned replies.
type Transport struct {
	mu       sync.Mutex
	requests []*rest.Request
	replies  []reply
}

// NewTransport returns an empty Transport.
func NewTransport() *Transport {
	return &Transport{}
}

// Respond queues a response with the given status and JSON body.
func (t *Transport) Respond(status int, body any) *Response {
	resp := NewResponse(status, body)
	t.Reply(resp, nil)
	return resp
}

// Fail queues a transport failure.
func (t *Transport) Fail(err error) {
	t.Reply(nil, err)
}

// Reply queues an arbitrary response or error.
func (t *Transport) Reply(resp rest.Response, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, reply{resp: resp, err: err})
}

// Do records req and returns the next queued reply.
func (t *Transport) Do(_ context.Context, req *rest.Request) (rest.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = append(t.requests, req)
	if len(t.replies) == 0 {
		return nil, ErrNoResponse
	}
	next := t.replies[0]
	t.replies = t.replies[1:]
	return next.resp, next.err
}

// Requests returns the recorded requests in order.
func (t *Transport) Requests() []*rest.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*rest.Request(nil), t.requests...)
}

// LastRequest returns the most recent request, or nil if none was sent.
func (t *Transport) LastRequest() *rest.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.requests) == 0 {
		return nil
	}
	return t.requests[len(t.requests)-1]
}

// Server wraps an httptest.Server routed by a gorilla/mux Router. Routes use
// mux patterns such as "/users/{id}".
type Server struct {
	*httptest.Server
	Router *mux.Router
}

// NewServer starts a Server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	router := mux.NewRouter()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &Server{Server: srv, Router: router}
}

// HandleFunc routes method and pattern to fn.
func (s *Server) HandleFunc(method, pattern string, fn http.HandlerFunc) {
	s.Router.HandleFunc(pattern, fn).Methods(method)
}

// JSON routes method and pattern to a handler that replies with status and
// body encoded as JSON. A nil body writes no content.
func (s *Server) JSON(method, pattern string, status int, body any) {
	s.HandleFunc(method, pattern, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// WriteJSON writes status and body encoded as JSON.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	if body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(body)
}

// Vars returns the path variables matched for r.
func Vars(r *http.Request) map[string]string {
	return mux.Vars(r)
}

// NewClient builds a rest.Client against s, failing the test on error.
func NewClient(t testing.TB, s *Server, endpoints rest.Endpoints, opts ...rest.Option) *rest.Client {
	t.Helper()
	c, err := rest.New(s.URL, endpoints, opts...)
	if err != nil {
		t.Fatalf("resttest: new client: %v", err)
	}
	return c
}
