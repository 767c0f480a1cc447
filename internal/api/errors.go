package api

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrEmptyID = errors.New("api: empty id")

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Code    int
	URL     string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s returned %d: %s", e.URL, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %s returned %d", e.URL, e.Code)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}
