package storeclient

import (
	"errors"
	"fmt"
)

// DefaultErrorMessage is shown when the store gives no reason for a failure.
const DefaultErrorMessage = "operation failed"

// RemoteError is a failed store call. Message is safe to show to the user.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("store %s: %d %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("store %s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// AsRemoteError extracts a RemoteError from err.
func AsRemoteError(err error) (*RemoteError, bool) {
	var rErr *RemoteError
	if errors.As(err, &rErr) {
		return rErr, true
	}
	return nil, false
}
