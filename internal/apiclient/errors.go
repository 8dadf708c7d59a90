package apiclient

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed request
type ErrorKind int

const (
	// KindTransport covers connection, DNS, context and body read failures
	KindTransport ErrorKind = iota + 1
	// KindStatus is a response outside the 2xx range
	KindStatus
	// KindDecode is a body that is not JSON or not the expected shape
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// Sentinels for errors.Is matching against an *Error's kind.
var (
	ErrTransport = errors.New("transport failure")
	ErrStatus    = errors.New("unexpected response status")
	ErrDecode    = errors.New("malformed response body")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindStatus:
		return ErrStatus
	case KindDecode:
		return ErrDecode
	}
	return nil
}

// Error is returned for every failed call
type Error struct {
	Kind       ErrorKind
	Path       string
	StatusCode int
	// Body is a truncated excerpt of a non-2xx response body
	Body string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("GET %s: %s: status=%d body=%q", e.Path, e.Kind.sentinel(), e.StatusCode, e.Body)
	default:
		if e.Err == nil {
			return fmt.Sprintf("GET %s: %s", e.Path, e.Kind.sentinel())
		}
		return fmt.Sprintf("GET %s: %s: %v", e.Path, e.Kind.sentinel(), e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// DecodeError wraps a payload decoding failure for path.
func DecodeError(path string, err error) *Error {
	return &Error{Kind: KindDecode, Path: path, Err: err}
}

// KindOf reports the kind of err, or 0 when err is not an *Error.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}
