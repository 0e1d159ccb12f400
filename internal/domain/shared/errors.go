package shared

import (
	"errors"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies compare equal to the sentinels below
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvariantViolation = NewDomainError("INVARIANT_VIOLATION", "Internal consistency check failed")
)

// ValidationErrors aggregates every unmet condition of an operation so the caller
// can fix all of them in one pass.
type ValidationErrors struct {
	Code     string   `json:"code"`
	Title    string   `json:"title"`
	Problems []string `json:"problems"`
}

// NewValidationErrors creates a ValidationErrors with the given headline.
func NewValidationErrors(title string) *ValidationErrors {
	return &ValidationErrors{
		Code:  "VALIDATION_ERROR",
		Title: title,
	}
}

// Add records a problem.
func (v *ValidationErrors) Add(problem string) {
	v.Problems = append(v.Problems, problem)
}

// Len returns the number of recorded problems.
func (v *ValidationErrors) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Problems)
}

// ErrOrNil returns nil when nothing was recorded, so callers can return it directly.
func (v *ValidationErrors) ErrOrNil() error {
	if v.Len() == 0 {
		return nil
	}
	return v
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	var b strings.Builder
	b.WriteString(v.Title)
	for _, p := range v.Problems {
		b.WriteString("\n- ")
		b.WriteString(p)
	}
	return b.String()
}
