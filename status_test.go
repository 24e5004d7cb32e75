package rest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/rest"
)

func TestStatusText(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		400: "Bad Request",
		401: "Unauthorised",
		404: "Not Found",
		409: "Conflict",
		418: "I'm a teapot",
		429: "Too Many Requests",
		451: "Unavailable For Legal Reasons",
		500: "Internal Server Error",
		503: "Service Unavailable",
		511: "Network Authentication Required",
		420: "Unknown Status 420",
		599: "Unknown Status 599",
	}

	for code, want := range tests {
		assert.Equal(t, want, rest.StatusText(code), "status %d", code)
	}
}
