package rest

import (
	"maps"
	"net/http"
	"regexp"
	"slices"
	"strings"
)

// Endpoint declares one named HTTP operation.
type Endpoint struct {
	// Path is a template such as "/users/:id". It must begin with "/".
	Path string `yaml:"path" json:"path"`

	// Method is one of DELETE, GET, HEAD, OPTIONS, PATCH, POST or PUT.
	Method string `yaml:"method" json:"method"`

	// Transforms names the transforms applied, in order, to a successful
	// response body.
	Transforms []string `yaml:"transforms,omitempty" json:"transforms,omitempty"`

	// Handlers maps a status code to the name of the handler that decides
	// the call's outcome for that status.
	Handlers map[int]string `yaml:"handlers,omitempty" json:"handlers,omitempty"`
}

// Endpoints is a declaration table keyed by endpoint name.
type Endpoints map[string]Endpoint

// names returns the declared names in sorted order.
func (e Endpoints) names() []string {
	return slices.Sorted(maps.Keys(e))
}

var (
	endpointName = regexp.MustCompile(`^[A-Za-z0-9]+$`)

	supportedMethods = []string{
		http.MethodDelete,
		http.MethodGet,
		http.MethodHead,
		http.MethodOptions,
		http.MethodPatch,
		http.MethodPost,
		http.MethodPut,
	}
)

const (
	minStatus = 0
	maxStatus = 999
)

// resolvedEndpoint is an Endpoint with its transform and handler names
// bound to functions. It is built once by New and never modified.
type resolvedEndpoint struct {
	name       string
	path       string
	method     string
	transforms []TransformFunc
	handlers   map[int]HandlerFunc
}

// validateEndpoints checks every declaration in name order and stops at the
// first failure.
func validateEndpoints(endpoints Endpoints) error {
	for _, name := range endpoints.names() {
		if err := validateEndpoint(name, endpoints[name]); err != nil {
			return err
		}
	}
	return nil
}

func validateEndpoint(name string, e Endpoint) error {
	if !endpointName.MatchString(name) {
		return invalid(name, "invalid endpoint name %q", name)
	}
	if !strings.HasPrefix(e.Path, "/") {
		return invalid(name, "invalid path %q", e.Path)
	}
	if !slices.Contains(supportedMethods, e.Method) {
		return invalid(name, "unsupported method %q", e.Method)
	}
	for _, t := range e.Transforms {
		if t == "" {
			return invalid(name, "transforms should be a list of names")
		}
	}
	for status, h := range e.Handlers {
		if status < minStatus || status > maxStatus {
			return invalid(name, "error handler keys should be http status codes, got %d", status)
		}
		if h == "" {
			return invalid(name, "empty handler name for status %d", status)
		}
	}
	return nil
}

// resolveEndpoints binds every declaration to the registered functions.
// A name with no registration is a validation failure.
func resolveEndpoints(endpoints Endpoints, transforms map[string]TransformFunc, handlers map[string]HandlerFunc) (map[string]*resolvedEndpoint, error) {
	resolved := make(map[string]*resolvedEndpoint, len(endpoints))
	for _, name := range endpoints.names() {
		e := endpoints[name]
		re := &resolvedEndpoint{
			name:       name,
			path:       e.Path,
			method:     e.Method,
			transforms: make([]TransformFunc, 0, len(e.Transforms)),
			handlers:   make(map[int]HandlerFunc, len(e.Handlers)),
		}
		for _, t := range e.Transforms {
			fn, ok := transforms[t]
			if !ok || fn == nil {
				return nil, invalid(name, "unresolved transform %q", t)
			}
			re.transforms = append(re.transforms, fn)
		}
		for status, h := range e.Handlers {
			fn, ok := handlers[h]
			if !ok || fn == nil {
				return nil, invalid(name, "unresolved handler %q for status %d", h, status)
			}
			re.handlers[status] = fn
		}
		resolved[name] = re
	}
	return resolved, nil
}
