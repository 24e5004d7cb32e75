package rest

// Test-only exports for internal functions.
var (
	BuildParameters     = buildParameters
	DetermineURL        = determineURL
	BuildRequestOptions = buildRequestOptions
	ProcessResponse     = processResponse
	MergeCallContext    = mergeContext
	EncodeURIComponent  = encodeURIComponent
	Stringify           = stringify
)

// EndpointDetails is the resolved form of a declared endpoint.
type EndpointDetails struct {
	Path       string
	Method     string
	Transforms []TransformFunc
	Handlers   map[int]HandlerFunc
}

// Details returns the resolved endpoint for name.
func (c *Client) Details(name string) (EndpointDetails, bool) {
	e, ok := c.endpoints[name]
	if !ok {
		return EndpointDetails{}, false
	}
	return EndpointDetails{
		Path:       e.path,
		Method:     e.method,
		Transforms: e.transforms,
		Handlers:   e.handlers,
	}, true
}
