package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrClosetNotFound is returned when a closet is not found
	ErrClosetNotFound = errors.New("closet not found")

	// ErrClosetAlreadyExists is returned when trying to create a closet that already exists
	ErrClosetAlreadyExists = errors.New("closet already exists")

	// ErrItemNotFound is returned when an item is not found
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidQuery is returned for any query expression that cannot be parsed
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnexpectedToken is returned when input ends inside a token or a token appears where none is expected
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUnknownField is returned when a clause key names no known field
	ErrUnknownField = errors.New("no such key")

	// ErrUnterminatedExpression is returned when input ends inside a clause
	ErrUnterminatedExpression = errors.New("unterminated expression")
)

// ClosetNotFoundError represents a closet not found error with context
type ClosetNotFoundError struct {
	ClosetName string
}

func (e *ClosetNotFoundError) Error() string {
	return fmt.Sprintf("closet named '%s' not found", e.ClosetName)
}

func (e *ClosetNotFoundError) Is(target error) bool {
	return target == ErrClosetNotFound
}

// NewClosetNotFoundError creates a new ClosetNotFoundError
func NewClosetNotFoundError(closetName string) *ClosetNotFoundError {
	return &ClosetNotFoundError{ClosetName: closetName}
}

// ClosetAlreadyExistsError represents a closet already exists error with context
type ClosetAlreadyExistsError struct {
	ClosetName string
}

func (e *ClosetAlreadyExistsError) Error() string {
	return fmt.Sprintf("closet named '%s' already exists", e.ClosetName)
}

func (e *ClosetAlreadyExistsError) Is(target error) bool {
	return target == ErrClosetAlreadyExists
}

// NewClosetAlreadyExistsError creates a new ClosetAlreadyExistsError
func NewClosetAlreadyExistsError(closetName string) *ClosetAlreadyExistsError {
	return &ClosetAlreadyExistsError{ClosetName: closetName}
}

// ItemNotFoundError represents an item not found error with context
type ItemNotFoundError struct {
	ItemID     string
	ClosetName string
}

func (e *ItemNotFoundError) Error() string {
	if e.ClosetName != "" {
		return fmt.Sprintf("item with ID '%s' not found in closet '%s'", e.ItemID, e.ClosetName)
	}
	return fmt.Sprintf("item with ID '%s' not found", e.ItemID)
}

func (e *ItemNotFoundError) Is(target error) bool {
	return target == ErrItemNotFound
}

// NewItemNotFoundError creates a new ItemNotFoundError
func NewItemNotFoundError(itemID string, closetName ...string) *ItemNotFoundError {
	err := &ItemNotFoundError{ItemID: itemID}
	if len(closetName) > 0 {
		err.ClosetName = closetName[0]
	}
	return err
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
