package rest

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// processResponse turns a completed response into the call result.
//
// Precedence: a handler registered for the status decides the outcome;
// otherwise 5xx fails with ServerError and 4xx with ClientError; otherwise
// the transforms are folded over the decoded body in order. A 204 body is
// never read.
func processResponse(ctx context.Context, resp Response, transforms []TransformFunc, handlers map[int]HandlerFunc, cc CallContext) (any, error) {
	//nolint:errcheck // the body has been fully consumed or is not needed
	defer resp.Close()

	status := resp.StatusCode()

	var result any
	if status != http.StatusNoContent {
		if err := resp.JSON(&result); err != nil {
			return nil, errors.Wrapf(err, "rest: decode %d response", status)
		}
	}

	if h, ok := handlers[status]; ok {
		return h(ctx, result, cc)
	}

	switch {
	case status >= http.StatusInternalServerError:
		return nil, NewServerError(status)
	case status >= http.StatusBadRequest:
		return nil, NewClientError(status)
	}

	for _, t := range transforms {
		next, err := t(ctx, result, cc)
		if err != nil {
			return nil, err
		}
		result = next
	}
	return result, nil
}
