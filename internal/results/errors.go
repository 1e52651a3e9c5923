package results

import "fmt"

// ValidationError reports a local pre-flight rejection. No request reaches the
// API when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ErrInvalidSelection is returned when a comparison is requested with a missing
// selection or with the same record on both sides.
var ErrInvalidSelection = &ValidationError{
	Field:  "selection",
	Reason: "select two different candidates to compare",
}
