// Package resilience provides the typed error taxonomy and provider gating
// used by the extraction pipeline. Every external call site converts raw
// failures into one of these kinds so callers can branch on the no-data case
// without string matching.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies an external-call failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindTimeout
	KindHTTPStatus
	KindParse
	KindQuotaExceeded
	KindAuth
	KindNotFound
	KindPartialData
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	case KindParse:
		return "parse_error"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindAuth:
		return "auth_error"
	case KindNotFound:
		return "not_found"
	case KindPartialData:
		return "partial_data"
	default:
		return "unknown"
	}
}

// Error is a classified failure from an external collaborator. Op names the
// operation with enough context to reproduce (URL, query, or place id).
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTPStatus:
		return fmt.Sprintf("%s: %s(%d)", e.Op, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout builds a timeout error.
func Timeout(op string, err error) *Error {
	return &Error{Kind: KindTimeout, Op: op, Err: err}
}

// HTTPStatus builds an error for an unexpected HTTP response code.
func HTTPStatus(op string, code int) *Error {
	return &Error{Kind: KindHTTPStatus, Op: op, StatusCode: code}
}

// Parse builds a parse failure.
func Parse(op string, err error) *Error {
	return &Error{Kind: KindParse, Op: op, Err: err}
}

// QuotaExceeded builds a provider-quota failure.
func QuotaExceeded(op string) *Error {
	return &Error{Kind: KindQuotaExceeded, Op: op}
}

// AuthError builds a provider-credential failure.
func AuthError(op string) *Error {
	return &Error{Kind: KindAuth, Op: op}
}

// NotFound builds a no-data result.
func NotFound(op string) *Error {
	return &Error{Kind: KindNotFound, Op: op}
}

// PartialData marks a phase that completed below the minimum-field threshold.
func PartialData(op string, err error) *Error {
	return &Error{Kind: KindPartialData, Op: op, Err: err}
}

// Classify converts a transport-level error into a typed Error. Context
// deadline and net timeouts map to KindTimeout; everything else stays
// KindUnknown.
func Classify(op string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout(op, err)
	}
	return &Error{Kind: KindUnknown, Op: op, Err: err}
}

// FromHTTPStatus maps an HTTP response code to the taxonomy: 401/403 are
// credential failures, 429 is quota, 404 is not found, the rest keep the
// raw status.
func FromHTTPStatus(op string, code int) *Error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		e := AuthError(op)
		e.StatusCode = code
		return e
	case http.StatusTooManyRequests:
		e := QuotaExceeded(op)
		e.StatusCode = code
		return e
	case http.StatusNotFound:
		e := NotFound(op)
		e.StatusCode = code
		return e
	default:
		return HTTPStatus(op, code)
	}
}

// KindOf returns the Kind of the first classified error in the chain, or
// KindUnknown when none is present.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether any error in the chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsNotFound reports whether err represents a no-data result.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// ShortCircuits reports whether err should stop further calls to the same
// provider for the remainder of the run.
func ShortCircuits(err error) bool {
	k := KindOf(err)
	return k == KindQuotaExceeded || k == KindAuth
}
