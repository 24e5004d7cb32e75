package resttest_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/rest"
	"github.com/bjaus/rest/resttest"
)

func TestTransport(t *testing.T) {
	t.Parallel()

	tr := resttest.NewTransport()
	assert.Nil(t, tr.LastRequest())

	first := tr.Respond(http.StatusOK, map[string]any{"n": 1})
	boom := errors.New("boom")
	tr.Fail(boom)

	req := &rest.Request{Method: http.MethodGet, URL: "https://example.com/a"}
	resp, err := tr.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, first, resp)

	_, err = tr.Do(context.Background(), &rest.Request{Method: http.MethodGet, URL: "https://example.com/b"})
	assert.ErrorIs(t, err, boom)

	_, err = tr.Do(context.Background(), &rest.Request{Method: http.MethodGet, URL: "https://example.com/c"})
	assert.ErrorIs(t, err, resttest.ErrNoResponse)

	require.Len(t, tr.Requests(), 3)
	assert.Same(t, req, tr.Requests()[0])
	assert.Equal(t, "https://example.com/c", tr.LastRequest().URL)
}

func TestResponse(t *testing.T) {
	t.Parallel()

	resp := resttest.NewResponse(http.StatusCreated, map[string]any{"id": 1})
	assert.Equal(t, http.StatusCreated, resp.StatusCode())
	assert.Zero(t, resp.Reads())
	assert.False(t, resp.Closed())

	var out map[string]any
	require.NoError(t, resp.JSON(&out))
	assert.Equal(t, map[string]any{"id": float64(1)}, out)
	assert.Equal(t, 1, resp.Reads())

	require.NoError(t, resp.Close())
	assert.True(t, resp.Closed())

	empty := resttest.NewResponse(http.StatusOK, nil)
	var v any = "untouched"
	require.NoError(t, empty.JSON(&v))
	assert.Equal(t, "untouched", v)
}

func TestNewResponse_panicsOnUnencodableBody(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { resttest.NewResponse(http.StatusOK, make(chan int)) })
}

func TestServer(t *testing.T) {
	t.Parallel()

	srv := resttest.NewServer(t)
	srv.JSON(http.MethodGet, "/items/{id}", http.StatusOK, map[string]any{"ok": true})
	srv.HandleFunc(http.MethodDelete, "/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		resttest.WriteJSON(w, http.StatusAccepted, resttest.Vars(r))
	})

	get := func(method, path string) (int, string) {
		req, err := http.NewRequestWithContext(context.Background(), method, srv.URL+path, nil)
		require.NoError(t, err)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close() //nolint:errcheck
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(b)
	}

	status, body := get(http.MethodGet, "/items/1")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, body)

	status, body = get(http.MethodDelete, "/items/7")
	assert.Equal(t, http.StatusAccepted, status)
	assert.JSONEq(t, `{"id":"7"}`, body)

	status, _ = get(http.MethodPut, "/items/7")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	srv := resttest.NewServer(t)
	srv.JSON(http.MethodGet, "/items", http.StatusOK, []any{"a", "b"})

	c := resttest.NewClient(t, srv, rest.Endpoints{"itemList": {Path: "/items", Method: http.MethodGet}})
	assert.Equal(t, srv.URL, c.BaseURL())

	got, err := c.Call(context.Background(), "itemList", rest.Input{})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)
}
