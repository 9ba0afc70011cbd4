package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped in an OperationError) when a lookup by
// code matches no row.
var ErrNotFound = errors.New("record not found")

// OperationError reports a failed statement against the resource store:
// a constraint violation, a missing reference or a connectivity problem.
type OperationError struct {
	// Op is the statement kind: insert, select, drop, begin, commit.
	Op string

	// Table is the table the statement ran against, if any.
	Table string

	// Key identifies the record, usually its code or name.
	Key string

	Err error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	target := e.Table
	if e.Key != "" {
		target = fmt.Sprintf("%s %q", e.Table, e.Key)
	}
	if target == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, target, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// IsOperationError returns true if err is, or wraps, an OperationError.
func IsOperationError(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe)
}
