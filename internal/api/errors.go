package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized means the call had no usable token or the API answered 401.
// Callers route it to the login screen and never retry.
var ErrUnauthorized = errors.New("unauthorized")

// HTTPError is a non-2xx answer other than 401.
type HTTPError struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// IsNotFound reports whether err is an HTTPError with status 404.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == http.StatusNotFound
}

// Message returns the text a user should see for err: the server's message for
// HTTP errors, the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var he *HTTPError
	if errors.As(err, &he) {
		if he.Message != "" {
			return he.Message
		}
		return http.StatusText(he.Status)
	}
	if errors.Is(err, ErrUnauthorized) {
		return "session expired, please log in again"
	}
	return err.Error()
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
