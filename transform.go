package rest

import (
	"context"
	"encoding/json"
	"maps"

	"github.com/pkg/errors"
)

// CallContext is the data passed to every transform and handler of a call:
// the call arguments overlaid with the caller-supplied context.
type CallContext map[string]any

// mergeContext copies args first and ctx second, so ctx wins on collision.
func mergeContext(args Args, ctx CallContext) CallContext {
	cc := make(CallContext, len(args)+len(ctx))
	for _, arg := range args {
		cc[arg.Key] = arg.Value
	}
	maps.Copy(cc, ctx)
	return cc
}

// TransformFunc is one step of an endpoint's response pipeline. It receives
// the previous step's result (the decoded body for the first step).
type TransformFunc func(ctx context.Context, result any, cc CallContext) (any, error)

// HandlerFunc fully determines the outcome of a call for the status code it
// is registered against. Its return value and error are passed through as-is.
type HandlerFunc func(ctx context.Context, result any, cc CallContext) (any, error)

// Field returns a transform that selects key from a JSON object result.
func Field(key string) TransformFunc {
	return func(_ context.Context, result any, _ CallContext) (any, error) {
		obj, ok := result.(map[string]any)
		if !ok {
			return nil, errors.Errorf("rest: field %q: result is %T, not an object", key, result)
		}
		return obj[key], nil
	}
}

// MergeContext returns a transform that copies the call context into a JSON
// object result. A nil result becomes a copy of the context.
func MergeContext() TransformFunc {
	return func(_ context.Context, result any, cc CallContext) (any, error) {
		out := make(map[string]any)
		if result != nil {
			obj, ok := result.(map[string]any)
			if !ok {
				return nil, errors.Errorf("rest: merge context: result is %T, not an object", result)
			}
			maps.Copy(out, obj)
		}
		maps.Copy(out, cc)
		return out, nil
	}
}

// Into returns a transform that converts the result into T.
func Into[T any]() TransformFunc {
	return func(_ context.Context, result any, _ CallContext) (any, error) {
		return Decode[T](result)
	}
}

// Decode converts a decoded JSON value (maps, slices, float64...) into T by
// re-encoding it. Values that already have type T are returned unchanged.
func Decode[T any](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, errors.Wrap(err, "rest: decode")
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, errors.Wrapf(err, "rest: decode into %T", out)
	}
	return out, nil
}

// Value returns a handler that resolves the call to v.
func Value(v any) HandlerFunc {
	return func(context.Context, any, CallContext) (any, error) {
		return v, nil
	}
}

// Ignore returns a handler that resolves the call to nil.
func Ignore() HandlerFunc {
	return Value(nil)
}

// Fail returns a handler that fails the call with err.
func Fail(err error) HandlerFunc {
	return func(context.Context, any, CallContext) (any, error) {
		return nil, err
	}
}
