package service

import "fmt"

// ValidationError signals a malformed or semantically invalid request:
// missing fields, wrong types, unknown lesson/user, empty lesson, or an
// answer whose shape doesn't match its problem's variant.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InvalidProblemError signals that a referenced problem does not belong
// to the target lesson. Distinct from ValidationError because the
// request is structurally wrong rather than malformed.
type InvalidProblemError struct {
	ProblemID int64
}

func (e *InvalidProblemError) Error() string {
	return fmt.Sprintf("problem %d not found in lesson", e.ProblemID)
}

// DuplicateAttemptError signals that the attempt token has already been
// processed. The original submission's effects remain the single source
// of truth.
type DuplicateAttemptError struct {
	AttemptToken string
}

func (e *DuplicateAttemptError) Error() string {
	return fmt.Sprintf("attempt token %q was already processed", e.AttemptToken)
}
