package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks request failures and non-success statuses.
	ErrNetwork = errors.New("network error")
	// ErrParse marks responses that are not in the expected shape.
	ErrParse = errors.New("parse error")
)

// FetchError describes a failed request against a post source.
type FetchError struct {
	Kind   error // ErrNetwork or ErrParse
	Source string
	Page   int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: source %s page %d: %v", e.Kind, e.Source, e.Page, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewNetworkError wraps err as a network failure of source at page.
func NewNetworkError(source string, page int, err error) *FetchError {
	return &FetchError{Kind: ErrNetwork, Source: source, Page: page, Err: err}
}

// NewParseError wraps err as a parse failure of source at page.
func NewParseError(source string, page int, err error) *FetchError {
	return &FetchError{Kind: ErrParse, Source: source, Page: page, Err: err}
}
