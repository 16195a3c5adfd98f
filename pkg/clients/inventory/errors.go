package inventory

import "fmt"

// RemoteFetchError reports a failed call to the inventory API: either a non-200
// response (StatusCode set) or a transport failure (Err set).
type RemoteFetchError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *RemoteFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch stock: %v", e.Err)
	}
	return fmt.Sprintf("Error: %d - %s", e.StatusCode, e.Status)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that is not a valid stock envelope.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse stock response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
