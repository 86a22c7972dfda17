package costing

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("invalid costing input")
	// ErrDomain matches every *DomainError via errors.Is.
	ErrDomain = errors.New("unsatisfiable yield")
)

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DomainError reports a stage whose losses consume all of its input.
type DomainError struct {
	Stage    string
	Retained float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("stage %s retains %.6g of its input: yield cannot be inverted", e.Stage, e.Retained)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }
