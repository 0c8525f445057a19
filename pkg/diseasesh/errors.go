package diseasesh

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for unknown countries or countries without historical data.
	ErrNotFound = errors.New("not found upstream")
	// ErrMalformed is returned when a payload cannot be decoded or has an unexpected shape.
	ErrMalformed = errors.New("malformed upstream payload")
)

// FetchError aborts a whole region load; it names the endpoint that failed.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
