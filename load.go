package rest

import (
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadEndpoints reads an endpoint table from YAML. Each endpoint is either a
// mapping:
//
//	getUser:
//	  path: /users/:id
//	  method: GET
//	  transforms: [user]
//	  handlers: {404: missing}
//
// or the compact list form [path, method, transforms, handlers]:
//
//	getUser: [/users/:id, GET, [user], {404: missing}]
//
// A declaration of the wrong shape fails with a *ValidationError. The values
// themselves are validated by New.
func LoadEndpoints(r io.Reader) (Endpoints, error) {
	var e Endpoints
	if err := yaml.NewDecoder(r).Decode(&e); err != nil {
		if errors.Is(err, io.EOF) {
			return Endpoints{}, nil
		}
		return nil, err
	}
	return e, nil
}

// LoadEndpointsFile reads an endpoint table from a YAML file.
func LoadEndpointsFile(path string) (Endpoints, error) {
	f, err := os.Open(path) //nolint:gosec // caller-provided path
	if err != nil {
		return nil, errors.Wrap(err, "rest: open endpoints")
	}
	defer f.Close() //nolint:errcheck // read-only

	e, err := LoadEndpoints(f)
	if err != nil {
		return nil, errors.Wrapf(err, "rest: load %s", path)
	}
	return e, nil
}

// UnmarshalYAML decodes a table of endpoint declarations.
func (e *Endpoints) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return invalid("endpoint table", "endpoints should be a mapping of names to declarations")
	}
	out := make(Endpoints, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		ep, err := decodeEndpoint(name, node.Content[i+1])
		if err != nil {
			return err
		}
		out[name] = ep
	}
	*e = out
	return nil
}

func decodeEndpoint(name string, node *yaml.Node) (Endpoint, error) {
	var path, method, transforms, handlers *yaml.Node

	switch node.Kind {
	case yaml.SequenceNode:
		if n := len(node.Content); n < 2 || n > 4 {
			return Endpoint{}, invalid(name, "declaration should be [path, method, transforms, handlers]")
		}
		path, method = node.Content[0], node.Content[1]
		if len(node.Content) > 2 {
			transforms = node.Content[2]
		}
		if len(node.Content) > 3 {
			handlers = node.Content[3]
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i].Value, node.Content[i+1]
			switch key {
			case "path":
				path = value
			case "method":
				method = value
			case "transforms":
				transforms = value
			case "handlers":
				handlers = value
			default:
				return Endpoint{}, invalid(name, "unknown field %q", key)
			}
		}
	default:
		return Endpoint{}, invalid(name, "declaration should be a mapping or a list")
	}

	var ep Endpoint

	if path == nil || path.Kind != yaml.ScalarNode || path.ShortTag() != "!!str" {
		return Endpoint{}, invalid(name, "path should be a string")
	}
	ep.Path = path.Value

	if method == nil || method.Kind != yaml.ScalarNode {
		return Endpoint{}, invalid(name, "method should be a string")
	}
	ep.Method = method.Value

	if !isNull(transforms) {
		if transforms.Kind != yaml.SequenceNode {
			return Endpoint{}, invalid(name, "transforms should be a list of names")
		}
		for _, t := range transforms.Content {
			if t.Kind != yaml.ScalarNode {
				return Endpoint{}, invalid(name, "transforms should be a list of names")
			}
			ep.Transforms = append(ep.Transforms, t.Value)
		}
	}

	if !isNull(handlers) {
		if handlers.Kind != yaml.MappingNode {
			return Endpoint{}, invalid(name, "error handlers should be a mapping of status codes to names")
		}
		ep.Handlers = make(map[int]string, len(handlers.Content)/2)
		for i := 0; i+1 < len(handlers.Content); i += 2 {
			key, value := handlers.Content[i], handlers.Content[i+1]
			status, err := strconv.Atoi(key.Value)
			if err != nil || status < minStatus || status > maxStatus {
				return Endpoint{}, invalid(name, "error handler keys should be http status codes, got %q", key.Value)
			}
			if value.Kind != yaml.ScalarNode {
				return Endpoint{}, invalid(name, "handler for status %d should be a name", status)
			}
			ep.Handlers[status] = value.Value
		}
	}

	return ep, nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}
