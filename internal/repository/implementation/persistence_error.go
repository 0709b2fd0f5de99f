package implementation

import "fmt"

// PersistenceError is the single normalized shape for backend failures.
// The underlying driver surfaces errors differently per call type; every
// real-mode operation funnels through here so callers never branch on
// response shape.
type PersistenceError struct {
	Op    string
	Table string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Op, e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func wrapDBError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Table: table, Err: err}
}
