package engine

import (
	"errors"
	"fmt"
)

// Code classifies planner failures so transports can map them to a
// status without string matching.
type Code string

const (
	CodeValidation         Code = "validation_error"
	CodeNoMatch            Code = "no_match_found"
	CodeConstraintConflict Code = "constraint_conflict"
	CodeInsufficientSteps  Code = "insufficient_steps"
	CodeUnavailable        Code = "service_unavailable"
	CodeInternal           Code = "internal_error"
)

// ErrorDetail points at the offending request field or parameter.
type ErrorDetail struct {
	Field     string `json:"field,omitempty"`
	Issue     string `json:"issue,omitempty"`
	Parameter string `json:"parameter,omitempty"`
	Value     string `json:"value,omitempty"`
	Max       int    `json:"max,omitempty"`
}

// Suggestion is an alternative scenario offered alongside a
// no-match failure.
type Suggestion struct {
	Surface    string  `json:"surface_type,omitempty"`
	Dirt       string  `json:"dirt_type,omitempty"`
	Method     string  `json:"cleaning_method,omitempty"`
	Similarity float64 `json:"similarity_score,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// Error is the planner's failure type. AvailableMethods is only set
// for constraint conflicts and lists methods that would satisfy the
// declared constraints. RetryAfter is a hint in seconds for
// service_unavailable responses.
type Error struct {
	Code             Code
	Message          string
	Detail           *ErrorDetail
	Suggestions      []Suggestion
	AvailableMethods []string
	RetryAfter       int
	cause            error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// AsError unwraps err into *Error, or wraps it as an internal error
// so callers always have a classified failure to map.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Code: CodeInternal, Message: "internal planner error", cause: err}
}

func validationError(msg string, detail *ErrorDetail) *Error {
	return &Error{Code: CodeValidation, Message: msg, Detail: detail}
}

func noMatchError(msg string, suggestions []Suggestion) *Error {
	return &Error{Code: CodeNoMatch, Message: msg, Suggestions: suggestions}
}

func conflictError(msg string, available []string) *Error {
	if available == nil {
		available = []string{}
	}
	return &Error{Code: CodeConstraintConflict, Message: msg, AvailableMethods: available}
}

func unavailableError(cause error) *Error {
	return &Error{
		Code:       CodeUnavailable,
		Message:    "The workflow service is temporarily unavailable. Please try again later.",
		RetryAfter: 30,
		cause:      cause,
	}
}

// insufficientError never leaves the planner; the fallback ladder
// consumes it and either recovers or converts it to a no-match.
func insufficientError(found, min int) *Error {
	return &Error{
		Code: CodeInsufficientSteps,
		Message: fmt.Sprintf(
			"Insufficient steps found for this combination. Found %d steps, minimum %d required.",
			found, min),
	}
}
