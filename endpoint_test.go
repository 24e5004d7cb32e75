package rest_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/rest"
	"github.com/bjaus/rest/resttest"
)

const baseURL = "https://example.com"

func newClient(t *testing.T, endpoints rest.Endpoints, opts ...rest.Option) *rest.Client {
	t.Helper()
	opts = append([]rest.Option{rest.WithTransport(resttest.NewTransport())}, opts...)
	c, err := rest.New(baseURL, endpoints, opts...)
	require.NoError(t, err)
	return c
}

func noop(context.Context, any, rest.CallContext) (any, error) { return nil, nil }

func TestNew_accepts(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		endpoints rest.Endpoints
		opts      []rest.Option
	}{
		"empty table": {
			endpoints: rest.Endpoints{},
		},
		"nil table": {
			endpoints: nil,
		},
		"simple endpoint": {
			endpoints: rest.Endpoints{
				"test": {Path: "/tests", Method: http.MethodGet},
			},
		},
		"full declaration": {
			endpoints: rest.Endpoints{
				"test": {
					Path:       "/tests",
					Method:     http.MethodGet,
					Transforms: []string{"transformFunc"},
					Handlers:   map[int]string{400: "errorFunc"},
				},
			},
			opts: []rest.Option{
				rest.WithTransform("transformFunc", noop),
				rest.WithHandler("errorFunc", noop),
			},
		},
		"boundary status codes": {
			endpoints: rest.Endpoints{
				"test": {Path: "/", Method: http.MethodPut, Handlers: map[int]string{0: "h", 999: "h"}},
			},
			opts: []rest.Option{rest.WithHandler("h", noop)},
		},
		"every method": {
			endpoints: rest.Endpoints{
				"a": {Path: "/", Method: http.MethodDelete},
				"b": {Path: "/", Method: http.MethodGet},
				"c": {Path: "/", Method: http.MethodHead},
				"d": {Path: "/", Method: http.MethodOptions},
				"e": {Path: "/", Method: http.MethodPatch},
				"f": {Path: "/", Method: http.MethodPost},
				"g": {Path: "/", Method: http.MethodPut},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts := append([]rest.Option{rest.WithTransport(resttest.NewTransport())}, tc.opts...)
			_, err := rest.New(baseURL, tc.endpoints, opts...)
			assert.NoError(t, err)
		})
	}
}

func TestNew_rejects(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name     string
		endpoint rest.Endpoint
		opts     []rest.Option
		reason   string
	}{
		"private name": {
			name:     "_test",
			endpoint: rest.Endpoint{Path: "/tests", Method: http.MethodGet},
			reason:   "invalid endpoint name",
		},
		"name with whitespace": {
			name:     "two words",
			endpoint: rest.Endpoint{Path: "/tests", Method: http.MethodGet},
			reason:   "invalid endpoint name",
		},
		"name with punctuation": {
			name:     "get-user",
			endpoint: rest.Endpoint{Path: "/tests", Method: http.MethodGet},
			reason:   "invalid endpoint name",
		},
		"empty name": {
			name:     "",
			endpoint: rest.Endpoint{Path: "/tests", Method: http.MethodGet},
			reason:   "invalid endpoint name",
		},
		"relative path": {
			name:     "test",
			endpoint: rest.Endpoint{Path: "tests", Method: http.MethodGet},
			reason:   "invalid path",
		},
		"empty path": {
			name:     "test",
			endpoint: rest.Endpoint{Method: http.MethodGet},
			reason:   "invalid path",
		},
		"unknown method": {
			name:     "test",
			endpoint: rest.Endpoint{Path: "/tests", Method: "CHECK"},
			reason:   "unsupported method",
		},
		"lowercase method": {
			name:     "test",
			endpoint: rest.Endpoint{Path: "/tests", Method: "get"},
			reason:   "unsupported method",
		},
		"TRACE is not supported": {
			name:     "test",
			endpoint: rest.Endpoint{Path: "/tests", Method: http.MethodTrace},
			reason:   "unsupported method",
		},
		"status above range": {
			name:     "test",
			endpoint: rest.Endpoint{Path: "/tests", Method: http.MethodGet, Handlers: map[int]string{1000: "h"}},
			opts:     []rest.Option{rest.WithHandler("h", noop)},
			reason:   "error handler keys should be http status codes",
		},
		"negative status": {
			name:     "test",
			endpoint: rest.Endpoint{Path: "/tests", Method: http.MethodGet, Handlers: map[int]string{-1: "h"}},
			opts:     []rest.Option{rest.WithHandler("h", noop)},
			reason:   "error handler keys should be http status codes",
		},
		"unresolved transform": {
			name:     "test",
			endpoint: rest.Endpoint{Path: "/tests", Method: http.MethodGet, Transforms: []string{"missing"}},
			reason:   `unresolved transform "missing"`,
		},
		"unresolved handler": {
			name:     "test",
			endpoint: rest.Endpoint{Path: "/tests", Method: http.MethodGet, Handlers: map[int]string{404: "missing"}},
			reason:   `unresolved handler "missing" for status 404`,
		},
		"nil registration": {
			name:     "test",
			endpoint: rest.Endpoint{Path: "/tests", Method: http.MethodGet, Transforms: []string{"t"}},
			opts:     []rest.Option{rest.WithTransform("t", nil)},
			reason:   `unresolved transform "t"`,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts := append([]rest.Option{rest.WithTransport(resttest.NewTransport())}, tc.opts...)
			c, err := rest.New(baseURL, rest.Endpoints{tc.name: tc.endpoint}, opts...)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, rest.ErrValidation)

			var ve *rest.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.name, ve.Endpoint)
			assert.Contains(t, ve.Reason, tc.reason)
		})
	}
}

func TestNew_checksNameBeforePath(t *testing.T) {
	t.Parallel()

	_, err := rest.New(baseURL, rest.Endpoints{"bad name": {Path: "bad", Method: "BAD"}})

	var ve *rest.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "invalid endpoint name")
}

func TestNew_checksPathBeforeMethod(t *testing.T) {
	t.Parallel()

	_, err := rest.New(baseURL, rest.Endpoints{"test": {Path: "bad", Method: "BAD"}})

	var ve *rest.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "invalid path")
}

func TestNew_oneBadEndpointFailsAll(t *testing.T) {
	t.Parallel()

	_, err := rest.New(baseURL, rest.Endpoints{
		"good":   {Path: "/good", Method: http.MethodGet},
		"broken": {Path: "/broken", Method: "FETCH"},
	})
	require.ErrorIs(t, err, rest.ErrValidation)
}

func TestClient_Details(t *testing.T) {
	t.Parallel()

	c := newClient(t, rest.Endpoints{
		"testsList":   {Path: "/tests", Method: http.MethodGet},
		"testCreate":  {Path: "/tests", Method: http.MethodPost},
		"testsRemove": {Path: "/tests", Method: http.MethodDelete},
		"testInfo":    {Path: "/tests/:testId", Method: http.MethodGet},
	})

	tests := map[string]struct {
		path   string
		method string
	}{
		"testsList":   {path: "/tests", method: http.MethodGet},
		"testCreate":  {path: "/tests", method: http.MethodPost},
		"testsRemove": {path: "/tests", method: http.MethodDelete},
		"testInfo":    {path: "/tests/:testId", method: http.MethodGet},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d, ok := c.Details(name)
			require.True(t, ok)
			assert.Equal(t, tc.path, d.Path)
			assert.Equal(t, tc.method, d.Method)
			assert.Empty(t, d.Transforms)
			assert.Empty(t, d.Handlers)
		})
	}
}

func TestClient_Details_bindsRegisteredFunctions(t *testing.T) {
	t.Parallel()

	calls := make(map[string]int)
	mark := func(name string) rest.TransformFunc {
		return func(_ context.Context, result any, _ rest.CallContext) (any, error) {
			calls[name]++
			return result, nil
		}
	}

	c := newClient(t,
		rest.Endpoints{
			"test": {
				Path:       "/tests",
				Method:     http.MethodGet,
				Transforms: []string{"one", "two", "one"},
				Handlers:   map[int]string{404: "ignore"},
			},
		},
		rest.WithTransforms(map[string]rest.TransformFunc{"one": mark("one"), "two": mark("two")}),
		rest.WithHandlers(map[string]rest.HandlerFunc{"ignore": rest.Ignore()}),
	)

	d, ok := c.Details("test")
	require.True(t, ok)
	require.Len(t, d.Transforms, 3)
	require.Contains(t, d.Handlers, 404)

	for _, tr := range d.Transforms {
		_, err := tr(context.Background(), nil, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, map[string]int{"one": 2, "two": 1}, calls)
}

func TestWithTransform_laterRegistrationWins(t *testing.T) {
	t.Parallel()

	first := func(context.Context, any, rest.CallContext) (any, error) { return "first", nil }
	second := func(context.Context, any, rest.CallContext) (any, error) { return "second", nil }

	c := newClient(t,
		rest.Endpoints{"test": {Path: "/", Method: http.MethodGet, Transforms: []string{"t"}}},
		rest.WithTransform("t", first),
		rest.WithTransform("t", second),
	)

	d, _ := c.Details("test")
	got, err := d.Transforms[0](context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}
