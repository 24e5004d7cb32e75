// Package rest is a declarative HTTP client. A table of named endpoint
// declarations (path template, method, response transforms, per-status
// handlers) is validated once, and every call is then built, sent and
// interpreted without per-endpoint boilerplate.
//
// Declare endpoints and register the functions they refer to by name:
//
//	c, err := rest.New("https://api.example.com", rest.Endpoints{
//	    "getUser":    {Path: "/users/:id", Method: http.MethodGet, Transforms: []string{"user"}},
//	    "createUser": {Path: "/users", Method: http.MethodPost, Handlers: map[int]string{409: "exists"}},
//	},
//	    rest.WithTransform("user", rest.Into[User]()),
//	    rest.WithHandler("exists", rest.Value(nil)),
//	)
//
// Call an endpoint by name, or through its invoker:
//
//	u, err := c.Call(ctx, "getUser", rest.Input{Args: rest.A("id", 42)})
//
//	getUser, _ := c.Invoker("getUser")
//	u, err = getUser(ctx, rest.Input{Args: rest.A("id", 42), Auth: rest.Bearer(token)})
//
// Arguments fill ":name" path parameters first. The rest become the query
// string for GET, or the JSON body for PATCH, POST and PUT.
//
// Responses are dispatched in a fixed order. A handler registered for the
// status decides the outcome. Otherwise 5xx fails with *ServerError and 4xx
// with *ClientError. Otherwise the transforms are applied in order to the
// decoded JSON body.
//
// The network is reached through a Transport. NewHTTPTransport is the
// default. Its RoundTripper middleware (Logger, RequestID, RateLimit,
// Metrics, BodyLimit) adds logging and throttling without touching the core.
package rest
