package tenk

import (
	"errors"
	"fmt"
	"strings"
)

// Application error codes.
const (
	EINTERNAL  = "internal"
	EINVALID   = "invalid"
	ENOTFOUND  = "not_found"
	ETOOSMALL  = "section_too_small"
	ECONTENT   = "content_validation_failed"
	ERATELIMIT = "rate_limited"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("tenk error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var xe *ExtractionError
	if errors.As(err, &xe) {
		return xe.Code()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var xe *ExtractionError
	if errors.As(err, &xe) {
		return xe.Message()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Attempt records the outcome of a single strategy during extraction.
type Attempt struct {
	Strategy string `json:"strategy"`
	Code     string `json:"code"`
	Reason   string `json:"reason"`
}

// ExtractionError is returned when no strategy produced a span that passed
// both the size and content gates.
type ExtractionError struct {
	Section  string
	Attempts []Attempt
}

// Code reports ENOTFOUND when no strategy located a span. Otherwise it is the
// code of the highest-priority strategy whose span was located but rejected.
func (e *ExtractionError) Code() string {
	for _, a := range e.Attempts {
		if a.Code != ENOTFOUND {
			return a.Code
		}
	}
	return ENOTFOUND
}

// Message lists every attempt as "strategy: reason".
func (e *ExtractionError) Message() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Strategy+": "+a.Reason)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s not extracted: no strategies configured", e.Section)
	}
	return fmt.Sprintf("%s not extracted: %s", e.Section, strings.Join(parts, "; "))
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("tenk error: code=%s message=%s", e.Code(), e.Message())
}
