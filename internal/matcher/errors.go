package matcher

import (
	"errors"
	"fmt"
)

// ErrNetworkUnreachable wraps transport failures: the request never got an
// HTTP response.
var ErrNetworkUnreachable = errors.New("could not connect to server")

// ErrTimeout means the request was sent but no response arrived in time.
var ErrTimeout = errors.New("server did not respond in time")

// ServerError is a non-success HTTP status.
type ServerError struct {
	Operation  string
	StatusCode int
	Status     string
	// Message is the "error" field of the body, when there was one.
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: server error: %s: %s", e.Operation, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: server error: %s", e.Operation, e.Status)
}

// ApplicationError is a success status carrying {"success": false, "error": ...}.
type ApplicationError struct {
	Operation string
	Message   string
}

func (e *ApplicationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request was not successful"
	}
	return fmt.Sprintf("%s: %s", e.Operation, msg)
}

// IsTimeout reports whether err means the backend was too slow to answer.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsNetworkUnreachable reports whether err means the backend could not be reached.
func IsNetworkUnreachable(err error) bool {
	return errors.Is(err, ErrNetworkUnreachable)
}
