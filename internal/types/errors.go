package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// InternalError reports a broken invariant inside the type table, the
// resolver or the checker. It is never caused by user input; the Checker
// recovers it and aborts the run.
type InternalError struct {
	err error
}

func (e *InternalError) Error() string {
	return "internal error: " + e.err.Error()
}

// Unwrap returns the underlying error.
func (e *InternalError) Unwrap() error { return e.err }

// Cause implements the causer interface of github.com/pkg/errors.
func (e *InternalError) Cause() error { return e.err }

// Format prints the stack trace of the defect with %+v.
func (e *InternalError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "internal error: %+v", e.err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// IsInternal reports whether err is, or wraps, an *InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

// defect panics with an *InternalError.
func defect(format string, args ...any) {
	panic(&InternalError{err: errors.Errorf(format, args...)})
}
