package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrFirstStep       = errors.New("already at the first step")
	ErrNoNextStep      = errors.New("no step after the last one; submit instead")
	ErrNotFinalStep    = errors.New("submission is only possible from the last step")
	ErrSubmitting      = errors.New("a submission is already in progress")
	ErrNotSubmitting   = errors.New("no submission in progress")
	ErrLocked          = errors.New("form already submitted")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownProvider = errors.New("unknown provider")
)

// ValidationError is a recoverable, per-field error that blocks step
// advancement. It is cleared the next time the field's value changes.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
