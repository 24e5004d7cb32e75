package rest

import (
	"context"
	"maps"
	"slices"

	"github.com/pkg/errors"
)

// Client issues calls against a validated endpoint table. It is immutable
// once New returns and is safe for concurrent use.
type Client struct {
	baseURL   string
	endpoints map[string]*resolvedEndpoint
	transport Transport
}

// Input is the per-call payload.
type Input struct {
	// Args fill path parameters first. What is left becomes the query string
	// for GET or the JSON body for PATCH, POST and PUT.
	Args Args

	// Context is merged over Args and passed to transforms and handlers.
	Context CallContext

	// Auth carries the bearer token under AuthJWT.
	Auth Auth
}

// Invoker calls one declared endpoint.
type Invoker func(ctx context.Context, in Input) (any, error)

// Option configures a Client.
type Option func(*config)

type config struct {
	transport  Transport
	transforms map[string]TransformFunc
	handlers   map[string]HandlerFunc
}

// WithTransport sets the transport. The default is NewHTTPTransport().
func WithTransport(t Transport) Option {
	return func(c *config) {
		c.transport = t
	}
}

// WithTransform registers a named transform. A later registration under the
// same name replaces an earlier one.
func WithTransform(name string, fn TransformFunc) Option {
	return func(c *config) {
		c.transforms[name] = fn
	}
}

// WithTransforms registers several named transforms.
func WithTransforms(fns map[string]TransformFunc) Option {
	return func(c *config) {
		for name, fn := range fns {
			c.transforms[name] = fn
		}
	}
}

// WithHandler registers a named status handler. A later registration under
// the same name replaces an earlier one.
func WithHandler(name string, fn HandlerFunc) Option {
	return func(c *config) {
		c.handlers[name] = fn
	}
}

// WithHandlers registers several named status handlers.
func WithHandlers(fns map[string]HandlerFunc) Option {
	return func(c *config) {
		for name, fn := range fns {
			c.handlers[name] = fn
		}
	}
}

// New validates endpoints, binds their transform and handler names to the
// registered functions and returns a ready Client. Any invalid declaration
// fails construction with a *ValidationError.
func New(baseURL string, endpoints Endpoints, opts ...Option) (*Client, error) {
	cfg := config{
		transforms: make(map[string]TransformFunc),
		handlers:   make(map[string]HandlerFunc),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := validateEndpoints(endpoints); err != nil {
		return nil, err
	}
	resolved, err := resolveEndpoints(endpoints, cfg.transforms, cfg.handlers)
	if err != nil {
		return nil, err
	}

	if cfg.transport == nil {
		cfg.transport = NewHTTPTransport()
	}

	return &Client{
		baseURL:   baseURL,
		endpoints: resolved,
		transport: cfg.transport,
	}, nil
}

// BaseURL returns the prefix joined to every endpoint path.
func (c *Client) BaseURL() string { return c.baseURL }

// Names returns the declared endpoint names in sorted order.
func (c *Client) Names() []string {
	return slices.Sorted(maps.Keys(c.endpoints))
}

// Invoker returns the invoker for a declared endpoint.
func (c *Client) Invoker(name string) (Invoker, bool) {
	if _, ok := c.endpoints[name]; !ok {
		return nil, false
	}
	return func(ctx context.Context, in Input) (any, error) {
		return c.Call(ctx, name, in)
	}, true
}

// Invokers returns one invoker per declared endpoint, keyed by name.
func (c *Client) Invokers() map[string]Invoker {
	invokers := make(map[string]Invoker, len(c.endpoints))
	for name := range c.endpoints {
		invokers[name], _ = c.Invoker(name)
	}
	return invokers
}

// BuildRequest builds the request a call to endpoint would send, without
// sending it.
func (c *Client) BuildRequest(endpoint string, args Args, auth Auth) (*Request, error) {
	e, err := c.lookup(endpoint)
	if err != nil {
		return nil, err
	}
	return buildRequest(c.baseURL, e, args, auth)
}

// Call builds the request for endpoint, sends it and dispatches the response.
//
// Errors are returned unchanged from handlers and transforms. Otherwise the
// error is one of *UnknownEndpointError, *MissingParameterError,
// *ClientError, *ServerError, or a wrapped transport or decode failure.
func (c *Client) Call(ctx context.Context, endpoint string, in Input) (any, error) {
	e, err := c.lookup(endpoint)
	if err != nil {
		return nil, err
	}

	req, err := buildRequest(c.baseURL, e, in.Args, in.Auth)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "rest: %s %s", req.Method, req.URL)
	}
	if resp == nil {
		return nil, errors.Wrapf(ErrNoResponse, "rest: %s %s", req.Method, req.URL)
	}

	cc := mergeContext(in.Args, in.Context)
	return processResponse(ctx, resp, e.transforms, e.handlers, cc)
}

func (c *Client) lookup(endpoint string) (*resolvedEndpoint, error) {
	e, ok := c.endpoints[endpoint]
	if !ok {
		return nil, &UnknownEndpointError{Endpoint: endpoint}
	}
	return e, nil
}
