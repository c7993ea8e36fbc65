package listing

import "errors"

// ErrNotFound signals that the requested listing does not exist in the store.
var ErrNotFound = errors.New("listing not found")

// UpstreamError wraps a failed store read. The message is for logs only.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
