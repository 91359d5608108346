package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kitbuilder587/gamelookup/internal/domain"
)

var (
	ErrTimeout          = errors.New("request timed out")
	ErrConnection       = errors.New("network connection error")
	ErrHTTPStatus       = errors.New("HTTP error")
	ErrRateLimit        = errors.New("rate limit exceeded")
	ErrResponseTooLarge = errors.New("response too large")
	ErrMalformedJSON    = errors.New("invalid JSON response")
	ErrUnexpectedShape  = errors.New("unexpected API response format")
	ErrEmptyResults     = errors.New("no results found")
)

// Fetcher looks up the best match for a validated query.
type Fetcher interface {
	Fetch(ctx context.Context, query domain.SearchQuery) (domain.RawRecord, error)
}

// FailureKind classifies why a fetch produced no record.
type FailureKind int

const (
	FailureTimeout FailureKind = iota + 1
	FailureConnection
	FailureHTTPStatus
	FailureRateLimited
	FailureOversized
	FailureMalformedJSON
	FailureUnexpectedShape
	FailureZeroResults
)

var kindNames = map[FailureKind]string{
	FailureTimeout:         "timeout",
	FailureConnection:      "connection",
	FailureHTTPStatus:      "http_status",
	FailureRateLimited:     "rate_limited",
	FailureOversized:       "oversized",
	FailureMalformedJSON:   "malformed_json",
	FailureUnexpectedShape: "unexpected_shape",
	FailureZeroResults:     "zero_results",
}

var kindErrors = map[FailureKind]error{
	FailureTimeout:         ErrTimeout,
	FailureConnection:      ErrConnection,
	FailureHTTPStatus:      ErrHTTPStatus,
	FailureRateLimited:     ErrRateLimit,
	FailureOversized:       ErrResponseTooLarge,
	FailureMalformedJSON:   ErrMalformedJSON,
	FailureUnexpectedShape: ErrUnexpectedShape,
	FailureZeroResults:     ErrEmptyResults,
}

func (k FailureKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// FetchError is the only error type a Fetcher returns besides context
// cancellation. errors.Is matches both the kind sentinel and the cause.
type FetchError struct {
	Kind  FailureKind
	Query string

	// StatusCode is set for FailureHTTPStatus and FailureRateLimited.
	StatusCode int
	// RetryAfter is the server-suggested delay for FailureRateLimited.
	RetryAfter time.Duration

	Err error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FailureRateLimited:
		return fmt.Sprintf("API rate limit exceeded. Try again in %d seconds.", int(e.RetryAfter/time.Second))
	case FailureHTTPStatus:
		return fmt.Sprintf("HTTP error: %d", e.StatusCode)
	case FailureZeroResults:
		return fmt.Sprintf("no results found for game '%s'", e.Query)
	}

	msg := e.Kind.String()
	if sentinel, ok := kindErrors[e.Kind]; ok {
		msg = sentinel.Error()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel, ok := kindErrors[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf reports the failure kind of err if it is or wraps a FetchError.
func KindOf(err error) (FailureKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
