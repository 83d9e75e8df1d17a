package domain

import (
	"errors"
	"fmt"
)

// Sentinel kinds for errors.Is checks across the three error families.
var (
	ErrValidation  = errors.New("validation error")
	ErrDomain      = errors.New("domain error")
	ErrPersistence = errors.New("persistence error")
)

// ValidationError reports malformed input. The rejected operation is a no-op.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DomainError reports a mathematically undefined computation, e.g. a
// projection at the poles.
type DomainError struct {
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// PersistenceError wraps a durable-store failure. On write the in-memory
// state stays authoritative for the session.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
