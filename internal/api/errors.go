package api

import (
	"errors"
	"fmt"
)

// ErrNetwork marks every failure that should surface as "network error": transport failures,
// non-2xx statuses and undecodable bodies.
var ErrNetwork = errors.New("network error")

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

// Is makes errors.Is(err, ErrNetwork) hold for HTTP errors.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNetwork
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}
