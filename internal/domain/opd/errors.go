package opd

import (
	"fmt"
	"strings"
)

// ValidationError reports every missing or invalid input field at once so a
// form can annotate all offending fields in a single round trip.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	msg := "missing or invalid fields: " + strings.Join(e.Fields, ", ")
	if e.Message != "" {
		msg += " (" + e.Message + ")"
	}
	return msg
}

// InvalidTransitionError rejects an illegal status edge before any state is
// mutated.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// NotFoundError means no registration matches the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("registration %s not found", e.ID)
}

// PersistenceError wraps a failed read or write of the durable store.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s registration collection: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
