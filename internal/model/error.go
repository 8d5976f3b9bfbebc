package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeCallbackFailure  = "CALLBACK_FAILURE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is an error with a stable machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCallbackFailure = NewDomainError(ErrCodeCallbackFailure, "Merchant callback failed")
)

// NewProductNotFoundError reports a price calculation referencing an id
// absent from the merchant's lookup results.
func NewProductNotFoundError(productID string) *DomainError {
	return NewDomainError(ErrCodeProductNotFound, fmt.Sprintf("Product %s not found", productID))
}

// ValidationError reports a payload that failed schema rules. Path names
// the offending field (e.g. "products[2].variations[0].type") so callers
// can surface a field-level reason.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// NewValidationError creates a field-level validation error.
func NewValidationError(path, reason string) *ValidationError {
	return &ValidationError{Path: path, Reason: reason}
}
