package tvmaze

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork           = errors.New("catalog request failed")
	ErrMalformedResponse = errors.New("malformed catalog response")
)

// NetworkError describes a failed request: a transport failure (Status 0)
// or a non-success response.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: GET %s: status %d", ErrNetwork, e.URL, e.Status)
	}
	return fmt.Sprintf("%s: GET %s: %v", ErrNetwork, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// MalformedResponseError reports a required field missing from an
// otherwise successful response.
type MalformedResponseError struct {
	Entity string
	Field  string
	Index  int
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedResponse, e.Entity, e.Err)
	}
	return fmt.Sprintf("%s: %s[%d] missing %q", ErrMalformedResponse, e.Entity, e.Index, e.Field)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }
