package rest

import (
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// ModeCORS is the request mode set on every built request.
const ModeCORS = "cors"

// Request is a fully built outbound request.
type Request struct {
	URL    string
	Method string
	Mode   string
	Header http.Header

	// Body is the JSON-encoded payload, or nil when the request has none.
	Body []byte
}

var pathParameter = regexp.MustCompile(`:[^/]+`)

var bodyMethods = []string{http.MethodPatch, http.MethodPost, http.MethodPut}

// buildParameters substitutes every ":name" token of template with the
// matching argument, left to right, and returns the arguments that were not
// consumed. A key that is present with a nil value renders as "null". The
// returned Args is never nil.
func buildParameters(template string, args Args) (string, Args, error) {
	remaining := append(make(Args, 0, len(args)), args...)

	var b strings.Builder
	last := 0
	for _, loc := range pathParameter.FindAllStringIndex(template, -1) {
		key := template[loc[0]+1 : loc[1]]
		v, ok := remaining.Get(key)
		if !ok {
			return "", nil, &MissingParameterError{Parameter: key, Template: template}
		}
		b.WriteString(template[last:loc[0]])
		b.WriteString(stringify(v))
		last = loc[1]
		remaining = remaining.Without(key)
	}
	b.WriteString(template[last:])

	return b.String(), remaining, nil
}

// determineURL joins baseURL and path verbatim. GET requests carry the
// arguments as a query string; other methods never do.
func determineURL(baseURL, method, path string, args Args) string {
	u := baseURL + path
	if method != http.MethodGet || len(args) == 0 {
		return u
	}
	qs := make([]string, len(args))
	for i, arg := range args {
		qs[i] = arg.Key + "=" + encodeURIComponent(stringify(arg.Value))
	}
	return u + "?" + strings.Join(qs, "&")
}

// buildRequestOptions sets the method, mode, headers and body of a request.
// A body is written for PATCH, POST and PUT whenever args is non-nil, even
// when it is empty.
func buildRequestOptions(method string, args Args, auth Auth) (*Request, error) {
	req := &Request{
		Method: method,
		Mode:   ModeCORS,
		Header: http.Header{},
	}
	req.Header.Set("Content-Type", "application/json")

	if args != nil && slices.Contains(bodyMethods, method) {
		body, err := args.MarshalJSON()
		if err != nil {
			return nil, err
		}
		req.Body = body
	}
	if jwt := auth.JWT(); jwt != "" {
		req.Header.Set("Authorization", "bearer "+jwt)
	}
	return req, nil
}

// buildRequest resolves path parameters, then derives the URL and options
// from the arguments that remain.
func buildRequest(baseURL string, e *resolvedEndpoint, args Args, auth Auth) (*Request, error) {
	path, remaining, err := buildParameters(e.path, args)
	if err != nil {
		return nil, err
	}
	u := determineURL(baseURL, e.method, path, remaining)
	req, err := buildRequestOptions(e.method, remaining, auth)
	if err != nil {
		return nil, err
	}
	req.URL = u
	return req, nil
}

var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent percent-encodes s, leaving A-Z a-z 0-9 - _ . ! ~ * ' ( )
// unescaped.
func encodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}
