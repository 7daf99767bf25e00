package remote

import "fmt"

// CallError reports an exhausted or aborted mirror call. It carries the
// last attempt's cause and how many attempts were made.
type CallError struct {
	Attempts int
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("remote call failed after %d attempts: %s", e.Attempts, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
