package entities

import "fmt"

// ErrorDetail is the structured, serializable form of a runtime error.
// Type is one of "config", "composition", "runtime", "panic" or "internal".
type ErrorDetail struct {
	// Wrapped is the detail of the cause, if it has one.
	Wrapped *ErrorDetail `json:"wrapped,omitempty"`

	Details map[string]any `json:"details,omitempty"`

	Message string `json:"message"`

	Type string `json:"type"`

	// Code names the failing shard, parameter or variable.
	Code string `json:"code"`

	// Stack is set for recovered panics.
	Stack []byte `json:"stack,omitempty"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped.Error())
	}
	return msg
}

// NewErrorDetail creates a new ErrorDetail with the given type and message.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{
		Type:    errorType,
		Message: message,
	}
}

// WithDetails attaches details and returns e.
func (e *ErrorDetail) WithDetails(details map[string]any) *ErrorDetail {
	e.Details = details
	return e
}

// WithCode sets the code and returns e.
func (e *ErrorDetail) WithCode(code string) *ErrorDetail {
	e.Code = code
	return e
}

// WithStack records a stack trace and returns e.
func (e *ErrorDetail) WithStack(stack []byte) *ErrorDetail {
	e.Stack = stack
	return e
}
