package shapeshift

import "fmt"

// emptyRemoteErrorMessage is substituted when the remote reports an error
// with a blank message.
const emptyRemoteErrorMessage = "<Empty remote error message>"

// RemoteError is returned when the service itself reported a failure in an
// otherwise well-formed response body.
type RemoteError struct {
	Op      string // wire operation name
	Message string // remote message, or emptyRemoteErrorMessage
	Raw     any    // decoded response body, for diagnostics
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("shapeshift %s: remote error: %s", e.Op, e.Message)
}

// ValidationError is returned when a response looked successful but an
// expected field was absent.
type ValidationError struct {
	Op    string // wire operation name
	Field string // missing field
	Raw   any    // decoded response body, for diagnostics
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("shapeshift %s: response is missing field %q", e.Op, e.Field)
}
