package packages

import (
	"errors"
	"fmt"
)

var (
	ErrCapacityExceeded  = errors.New("package capacity exceeded")
	ErrIncompletePackage = errors.New("package is incomplete")

	ErrUnknownCategory   = errors.New("unknown package category")
	ErrUnknownOption     = errors.New("unknown package option")
	ErrSelectionNotFound = errors.New("package selection not found")

	ErrSessionClosed   = errors.New("package session is closed")
	ErrBuilderNotFound = errors.New("package session not found")
)

// CapacityError reports a selection rejected because the category already
// holds as many units as the package has persons.
type CapacityError struct {
	Category string
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: category %q is full (%d)", ErrCapacityExceeded, e.Category, e.Capacity)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// IncompleteError reports how many selections are still required before a
// package can be finalized.
type IncompleteError struct {
	Remaining int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %d selections remaining", ErrIncompletePackage, e.Remaining)
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncompletePackage
}
