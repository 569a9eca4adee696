package chart

import (
	"errors"
	"fmt"
)

// Kind classifies a failed chart fetch
type Kind int

const (
	// KindInvalidURL means the URL could not be built or parsed; nothing was sent
	KindInvalidURL Kind = iota + 1
	// KindNoResponse means the transport failed: refused, timeout, DNS, cancelled
	KindNoResponse
	// KindInvalidResponse means the server answered with something that is not an image
	KindInvalidResponse
)

// String returns the taxonomy name of the kind
func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "InvalidUrl"
	case KindNoResponse:
		return "NoResponse"
	case KindInvalidResponse:
		return "InvalidResponse"
	default:
		return "Unknown"
	}
}

var (
	ErrInvalidURL        = errors.New("invalid chart URL")
	ErrNoResponse        = errors.New("chart server did not respond")
	ErrInvalidResponse   = errors.New("chart server did not return an image")
	ErrServerUnreachable = errors.New("chart server unreachable")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidURL:
		return ErrInvalidURL
	case KindNoResponse:
		return ErrNoResponse
	case KindInvalidResponse:
		return ErrInvalidResponse
	default:
		return nil
	}
}

// Error is returned by FetchChart for every failure. URL is always the exact
// URL that was attempted.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int    // HTTP status, set for KindInvalidResponse
	Detail     string // server supplied error message, if any
	Err        error  // underlying cause
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (%s)", e.Kind.sentinel(), e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is lets errors.Is match the kind's sentinel
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UnreachableError is returned by New when the opt-in reachability probe fails
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("server at %s not available: %v", e.Host, e.Err)
}

func (e *UnreachableError) Is(target error) bool {
	return target == ErrServerUnreachable
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// KindOf extracts the fetch error kind from err, or 0 if err is not a fetch error
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// URLOf returns the attempted URL carried by a fetch error
func URLOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.URL
	}
	return ""
}
