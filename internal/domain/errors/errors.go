package errors

import (
	"net/http"

	"tabletab/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Catalog errors
	ErrCatalogUnavailable = NewBaseError(
		http.StatusBadGateway,
		"CATALOG_UNAVAILABLE",
		"Menu could not be loaded",
		"",
	)

	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"Product is not on the menu",
		"",
	)

	// Cart and checkout errors
	ErrEmptyCart = NewBaseError(
		http.StatusConflict,
		"EMPTY_CART",
		"Cart is empty",
		"",
	)

	ErrInvalidTransition = NewBaseError(
		http.StatusConflict,
		"INVALID_TRANSITION",
		"Action is not available in the current checkout step",
		"",
	)

	ErrVerificationRequired = NewBaseError(
		http.StatusForbidden,
		"VERIFICATION_REQUIRED",
		"Age verification is required before payment",
		"",
	)

	ErrInvalidVerificationCode = NewBaseError(
		http.StatusUnprocessableEntity,
		"INVALID_VERIFICATION_CODE",
		"Verification code must be 11 digits",
		"",
	)

	ErrLoginRequired = NewBaseError(
		http.StatusUnauthorized,
		"LOGIN_REQUIRED",
		"Sign in to open the account view",
		"",
	)

	// Session errors
	ErrSessionNotFound = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_NOT_FOUND",
		"Table session is missing or expired",
		"",
	)

	ErrInvalidInput = NewBaseError(
		http.StatusBadRequest,
		"INVALID_INPUT",
		"Invalid request input",
		"",
	)

	// Generic errors
	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrInternalServer = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)
