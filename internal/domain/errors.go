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

	// Pipeline specific errors
	ErrInvalidSource    ErrorCode = "INVALID_SOURCE"
	ErrFetchFailed      ErrorCode = "FETCH_FAILED"
	ErrExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	ErrQuotaExceeded    ErrorCode = "QUOTA_EXCEEDED"
	ErrFormatError      ErrorCode = "FORMAT_ERROR"
	ErrLLMServiceError  ErrorCode = "LLM_SERVICE_ERROR"
	ErrPersistence      ErrorCode = "PERSISTENCE_ERROR"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsCode reports whether err is (or wraps) a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Helper functions for common errors

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(ErrInternal, message, cause)
}

func NewQuizNotFoundError(id int64) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("Quiz not found with ID: %d", id), nil)
}

func NewInvalidSourceError(url string) *DomainError {
	return NewError(ErrInvalidSource, fmt.Sprintf("Invalid Wikipedia URL: %s. Must be from wikipedia.org/wiki/", url), nil)
}

func NewFetchError(url string, cause error) *DomainError {
	return NewError(ErrFetchFailed, fmt.Sprintf("Failed to fetch Wikipedia article: %s", url), cause)
}

func NewExtractionError(message string) *DomainError {
	return NewError(ErrExtractionFailed, message, nil)
}

func NewQuotaExceededError(cause error) *DomainError {
	return NewError(ErrQuotaExceeded, "LLM quota exhausted or model unavailable", cause)
}

func NewFormatError(message string) *DomainError {
	return NewError(ErrFormatError, message, nil)
}

func NewModelError(cause error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to process with LLM service", cause)
}

func NewPersistenceError(message string, cause error) *DomainError {
	return NewError(ErrPersistence, message, cause)
}
