package scrape

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-enricher/internal/model"
	"github.com/sells-group/company-enricher/internal/resilience"
)

// ErrorKind classifies why a value could not be extracted.
type ErrorKind string

const (
	KindNavigation ErrorKind = "navigation" // page could not be loaded or read
	KindTimeout    ErrorKind = "timeout"
	KindNetwork    ErrorKind = "network" // connection-level failure, e.g. DNS or reset
	KindBlocked    ErrorKind = "blocked" // page looks like an anti-bot wall
	KindMissing    ErrorKind = "missing" // element not on the page
	KindInvalid    ErrorKind = "invalid" // element found but value rejected
)

// ExtractError records a failed lookup or field extraction. It never reaches
// the output workbook; callers collapse it to model.NotFound.
type ExtractError struct {
	Field string
	Kind  ErrorKind
	Err   error
}

func (e *ExtractError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Field, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Field, e.Kind, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

func missing(field, format string, args ...any) *ExtractError {
	return &ExtractError{Field: field, Kind: KindMissing, Err: fmt.Errorf(format, args...)}
}

func invalid(field, format string, args ...any) *ExtractError {
	return &ExtractError{Field: field, Kind: KindInvalid, Err: fmt.Errorf(format, args...)}
}

// errNoIdentifier marks detail fields skipped because no identifier was found.
var errNoIdentifier = eris.New("no registration identifier")

// navigationError classifies a failure to load or read a page.
func navigationError(field string, err error) *ExtractError {
	return &ExtractError{Field: field, Kind: navigationKind(err), Err: err}
}

func navigationKind(err error) ErrorKind {
	switch {
	case resilience.IsTimeout(err):
		return KindTimeout
	case resilience.IsTransient(err):
		return KindNetwork
	default:
		return KindNavigation
	}
}

// Result is the outcome of one extraction: a value or an error, never both.
type Result struct {
	Value string
	Err   *ExtractError
}

// Ok wraps a successfully extracted value.
func Ok(v string) Result { return Result{Value: v} }

// Fail wraps an extraction error.
func Fail(err *ExtractError) Result { return Result{Err: err} }

// OrNotFound returns the value, or model.NotFound when extraction failed.
func (r Result) OrNotFound() string {
	if r.Err != nil {
		return model.NotFound
	}
	return r.Value
}
