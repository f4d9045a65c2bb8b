package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyPortfolio is returned when an analysis is requested for a
// portfolio with no holdings at all.
var ErrEmptyPortfolio = errors.New("portfolio has no holdings")

// ValidationError reports a malformed field in an analysis request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a ticker the market data gateway does not know.
type NotFoundError struct {
	Ticker string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ticker %s not found", e.Ticker)
}

// UpstreamTimeoutError reports a market data operation that exhausted its
// retry budget against the upstream gateway.
type UpstreamTimeoutError struct {
	Op  string
	Err error
}

func (e *UpstreamTimeoutError) Error() string {
	return fmt.Sprintf("market data %s timed out: %v", e.Op, e.Err)
}

func (e *UpstreamTimeoutError) Unwrap() error { return e.Err }

// AnalysisUnavailableError reports that a required analysis stage could not
// produce a result, typically because upstream data was unavailable.
type AnalysisUnavailableError struct {
	Stage string
	Err   error
}

func (e *AnalysisUnavailableError) Error() string {
	return fmt.Sprintf("analysis stage %s unavailable: %v", e.Stage, e.Err)
}

func (e *AnalysisUnavailableError) Unwrap() error { return e.Err }
