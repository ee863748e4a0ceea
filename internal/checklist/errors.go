package checklist

import (
	"errors"
	"fmt"
)

// Sentinel error kinds surfaced to the CLI.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream error")
)

// InvalidInputError reports a checklist URL that carries no submission ID.
type InvalidInputError struct {
	URL string
	Err error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not extract checklist ID from URL %q: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("could not extract checklist ID from URL %q", e.URL)
}

// Is lets errors.Is match ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// UpstreamError wraps a failed call to a required remote API.
type UpstreamError struct {
	Op         string // "taxonomy", "checklist"
	StatusCode int    // zero when the request never produced a response
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

// Is lets errors.Is match ErrUpstream.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
