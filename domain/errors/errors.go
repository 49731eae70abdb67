// Package errors provides the error taxonomy of the shard runtime.
// All error types support error unwrapping via errors.As() and errors.Is().
//
//   - ConfigurationError: bad parameter index or value, reported by SetParam.
//   - CompositionError: unmet or mismatched variables and types, reported by Compose
//     before any runtime resource exists.
//   - RuntimeError: a shard or native call failed during Warmup or Activate.
//     It aborts the current tick only.
//   - InvariantViolation: a host broke the lifecycle contract. It is raised with
//     panic and is not meant to be recovered.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ErrStopped is returned by wires activated after their run was stopped or cancelled.
var ErrStopped = stdErrors.New("wire stopped")

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// ConfigurationError reports a rejected SetParam call.
type ConfigurationError struct {
	Err   error
	Shard string
	Param string
	Index int
}

func (e *ConfigurationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: parameter %d (%s): %v", e.Shard, e.Index, e.Param, e.Err)
	}
	return fmt.Sprintf("%s: parameter %d: %v", e.Shard, e.Index, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigurationError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "config",
		Code:    e.Param,
		Details: map[string]any{"shard": e.Shard, "index": e.Index},
	}
}

// ErrParamIndex is wrapped by ConfigurationError for out-of-range indices.
var ErrParamIndex = stdErrors.New("invalid parameter index")

// ErrParamType is wrapped by ConfigurationError for values of a rejected type.
var ErrParamType = stdErrors.New("value type not accepted")

// CompositionError reports a failed compose pass.
type CompositionError struct {
	Err      error
	Shard    string
	Variable string
	Param    string
	Message  string
}

func (e *CompositionError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	switch {
	case e.Variable != "":
		return fmt.Sprintf("%s: variable %q: %s", e.Shard, e.Variable, msg)
	case e.Param != "":
		return fmt.Sprintf("%s: parameter %s: %s", e.Shard, e.Param, msg)
	}
	return fmt.Sprintf("%s: %s", e.Shard, msg)
}

func (e *CompositionError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CompositionError) ToErrorDetail() *entities.ErrorDetail {
	code := e.Variable
	if code == "" {
		code = e.Param
	}
	return &entities.ErrorDetail{Message: e.Error(), Type: "composition", Code: code}
}

// RuntimeError reports a failure during warmup or activation.
type RuntimeError struct {
	Err   error
	Shard string
	Wire  string
}

func (e *RuntimeError) Error() string {
	switch {
	case e.Wire != "" && e.Shard != "":
		return fmt.Sprintf("wire %s: %s: %v", e.Wire, e.Shard, e.Err)
	case e.Shard != "":
		return fmt.Sprintf("%s: %v", e.Shard, e.Err)
	}
	return fmt.Sprintf("runtime error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *RuntimeError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Error(), Type: "runtime", Code: e.Shard}
	if e.Err == nil {
		return detail
	}
	var ed *entities.ErrorDetail
	var de DetailedError
	switch {
	case stdErrors.As(e.Err, &ed):
		detail.Wrapped = ed
	case stdErrors.As(e.Err, &de):
		detail.Wrapped = de.ToErrorDetail()
	}
	return detail
}

// NewRuntimeError wraps err unless it already is a RuntimeError.
func NewRuntimeError(shard string, err error) error {
	if err == nil {
		return nil
	}
	var re *RuntimeError
	if stdErrors.As(err, &re) {
		return err
	}
	return &RuntimeError{Shard: shard, Err: err}
}

// InvariantViolation is the panic value raised when the lifecycle contract is
// broken (activate before warmup, access to an unresolved ParamVar, ...).
type InvariantViolation struct {
	Shard     string
	Operation string
	Message   string
}

func (e *InvariantViolation) Error() string {
	if e.Shard != "" {
		return fmt.Sprintf("invariant violation in %s during %s: %s", e.Shard, e.Operation, e.Message)
	}
	return fmt.Sprintf("invariant violation during %s: %s", e.Operation, e.Message)
}

// ToErrorDetail implements DetailedError.
func (e *InvariantViolation) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "panic", Code: e.Operation}
}

// Violate panics with an InvariantViolation.
func Violate(shard, operation, format string, args ...any) {
	panic(&InvariantViolation{Shard: shard, Operation: operation, Message: fmt.Sprintf(format, args...)})
}
