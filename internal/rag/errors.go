package rag

import (
	"errors"
	"fmt"
)

var (
	// ErrRetrieval is returned when the retrieval stage fails.
	ErrRetrieval = errors.New("retrieval error")
	// ErrGeneration is returned when the LLM call fails.
	ErrGeneration = errors.New("generation error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}
