package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Arg is a single named call argument.
type Arg struct {
	Key   string
	Value any
}

// Args is an ordered set of call arguments. Order is preserved when the
// arguments are rendered into a query string or a JSON body.
//
// A nil Args means no arguments were supplied. An empty, non-nil Args is
// still serialized as "{}" for methods that carry a body.
type Args []Arg

// A builds Args from alternating keys and values:
//
//	rest.A("id", 5, "verbose", true)
//
// A trailing key without a value is given a nil value.
func A(kv ...any) Args {
	args := make(Args, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		args = args.Set(fmt.Sprint(kv[i]), v)
	}
	return args
}

// Get returns the value stored under key.
func (a Args) Get(key string) (any, bool) {
	for _, arg := range a {
		if arg.Key == key {
			return arg.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (a Args) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Set returns Args with key set to value. An existing key keeps its position.
func (a Args) Set(key string, value any) Args {
	for i, arg := range a {
		if arg.Key == key {
			out := append(Args(nil), a...)
			out[i].Value = value
			return out
		}
	}
	out := make(Args, len(a), len(a)+1)
	copy(out, a)
	return append(out, Arg{Key: key, Value: value})
}

// Without returns a copy of a with key removed. The result is never nil.
func (a Args) Without(key string) Args {
	out := make(Args, 0, len(a))
	for _, arg := range a {
		if arg.Key != key {
			out = append(out, arg)
		}
	}
	return out
}

// Keys returns the argument names in order.
func (a Args) Keys() []string {
	keys := make([]string, len(a))
	for i, arg := range a {
		keys[i] = arg.Key
	}
	return keys
}

// Map returns the arguments as an unordered map.
func (a Args) Map() map[string]any {
	m := make(map[string]any, len(a))
	for _, arg := range a {
		m[arg.Key] = arg.Value
	}
	return m
}

// MarshalJSON encodes the arguments as a JSON object in insertion order.
func (a Args) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, arg := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalJSON(arg.Key)
		if err != nil {
			return nil, err
		}
		v, err := marshalJSON(arg.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "rest: encode argument %s", arg.Key)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalJSON encodes v without HTML escaping and without a trailing newline.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// stringify renders an argument value for a path segment or query string.
// Lists are joined with commas and objects are written as compact JSON.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case Args:
		return stringifyJSON(t)
	case fmt.Stringer:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case []byte:
		return string(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]string, rv.Len())
		for i := range items {
			items[i] = stringifyItem(rv.Index(i).Interface())
		}
		return strings.Join(items, ",")
	case reflect.Map, reflect.Struct:
		return stringifyJSON(v)
	case reflect.Pointer:
		if rv.IsNil() {
			return "null"
		}
		return stringify(rv.Elem().Interface())
	default:
		return fmt.Sprint(v)
	}
}

// stringifyItem renders a list element. Nil elements are empty.
func stringifyItem(v any) string {
	if v == nil {
		return ""
	}
	return stringify(v)
}

func stringifyJSON(v any) string {
	b, err := marshalJSON(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
