package util

import (
	"errors"
	"fmt"
)

// Error codes for the pipeline failure taxonomy. An empty or unbuilt
// classification index is deliberately absent: detect reports absence through
// its return value, not through an error.
const (
	CodeNoEligibleAgent      = "NO_ELIGIBLE_AGENT"
	CodePersistenceConflict  = "PERSISTENCE_CONFLICT"
	CodeEventHandlingFailure = "EVENT_HANDLING_FAILURE"
	CodeCorpusLoadFailure    = "CORPUS_LOAD_FAILURE"
	CodeInternal             = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, Details: details}
}

// NewNoEligibleAgent signals that no agent carries the required skill.
func NewNoEligibleAgent(categoryID int64) error {
	return &DomainError{
		Code:    CodeNoEligibleAgent,
		Message: "no eligible agent for category",
		Details: map[string]any{"category_id": categoryID},
	}
}

// NewPersistenceConflict wraps a failed store operation; the enclosing tick
// aborts and retries on its next schedule.
func NewPersistenceConflict(err error) error {
	return &DomainError{
		Code:    CodePersistenceConflict,
		Message: "persistence conflict",
		Err:     err,
	}
}

// NewEventHandlingFailure wraps a failure in one event's side effects.
func NewEventHandlingFailure(eventType string, err error) error {
	return &DomainError{
		Code:    CodeEventHandlingFailure,
		Message: "event handling failed",
		Details: map[string]any{"event_type": eventType},
		Err:     err,
	}
}

// NewCorpusLoadFailure wraps an unreadable or malformed keyword corpus; the
// previously built index stays in effect.
func NewCorpusLoadFailure(err error) error {
	return &DomainError{
		Code:    CodeCorpusLoadFailure,
		Message: "keyword corpus load failed",
		Err:     err,
	}
}

// NewInternalError wraps an unclassified failure.
func NewInternalError(err error) error {
	return &DomainError{Code: CodeInternal, Message: "internal error", Err: err}
}

// HasCode reports whether err carries the given taxonomy code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{Code: CodeInternal, Message: "internal error", Err: err}
}
