package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrHandlerPanic       = fmt.Errorf("handler panic")
	ErrUnknownDestination = fmt.Errorf("unknown destination")
	ErrUnknownSession     = fmt.Errorf("unknown session")
	ErrSubscriberGone     = fmt.Errorf("subscriber gone")
	ErrInvalidLimit       = fmt.Errorf("limit must be an integer")
)

// ProcessingError reports an unexpected failure in one step of an inbound event pipeline.
type ProcessingError struct {
	Step string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
