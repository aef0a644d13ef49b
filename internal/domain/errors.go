package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Storage errors
	ErrStorage       ErrorCode = "STORAGE_ERROR"
	ErrCorruptedFile ErrorCode = "CORRUPTED_FILE"

	// Entity specific errors
	ErrUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrDuplicateUser    ErrorCode = "DUPLICATE_USER"
	ErrQuestionNotFound ErrorCode = "QUESTION_NOT_FOUND"

	// Migration errors
	ErrMigrationFailed      ErrorCode = "MIGRATION_FAILED"
	ErrDestinationNotEmpty  ErrorCode = "DESTINATION_NOT_EMPTY"
	ErrVerificationMismatch ErrorCode = "VERIFICATION_MISMATCH"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// New creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewStorageError(message string, err error) *DomainError {
	return NewError(ErrStorage, message, err)
}

func NewUserNotFoundError(username string) *DomainError {
	return NewError(ErrUserNotFound, fmt.Sprintf("User not found: %s", username), nil)
}

func NewDuplicateUserError(username string) *DomainError {
	return NewError(ErrDuplicateUser, fmt.Sprintf("User already exists: %s", username), nil)
}

func NewQuestionNotFoundError(id int) *DomainError {
	return NewError(ErrQuestionNotFound, fmt.Sprintf("Question not found with ID: %d", id), nil)
}

func NewMigrationError(message string, err error) *DomainError {
	return NewError(ErrMigrationFailed, message, err)
}

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsNotFound reports whether err represents any of the not-found conditions.
func IsNotFound(err error) bool {
	return HasCode(err, ErrNotFound) || HasCode(err, ErrUserNotFound) || HasCode(err, ErrQuestionNotFound)
}
