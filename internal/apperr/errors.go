package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// FetchError reports a failed candidate fetch. It aborts the whole run.
type FetchError struct {
	Endpoint string
	Status   int // 0 when no response was received
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch candidates from %s: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch candidates from %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// WriteError reports a check record that could not be stored.
// It is fatal to the owning task only.
type WriteError struct {
	QueryID string
	Status  int
	Err     error
}

func (e *WriteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("write check for %s: status %d: %v", e.QueryID, e.Status, e.Err)
	}
	return fmt.Sprintf("write check for %s: %v", e.QueryID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

type ProbeErrorKind string

const (
	ProbeTransport ProbeErrorKind = "transport"
	ProbeParse     ProbeErrorKind = "parse"
)

// ProbeError is recovered locally by the prober: the endpoint is treated as
// inconclusive and the next one is tried.
type ProbeError struct {
	Endpoint string
	Kind     ProbeErrorKind
	Err      error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s (%s): %v", e.Endpoint, e.Kind, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

func NewProbeTransport(endpoint string, err error) *ProbeError {
	return &ProbeError{Endpoint: endpoint, Kind: ProbeTransport, Err: err}
}

func NewProbeParse(endpoint string, err error) *ProbeError {
	return &ProbeError{Endpoint: endpoint, Kind: ProbeParse, Err: err}
}
