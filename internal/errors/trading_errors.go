package errors

import (
	"fmt"
)

// ErrorCategory classifies trading-engine errors
type ErrorCategory string

const (
	// Fatal errors that should stop the process
	ErrorCategoryFatal  ErrorCategory = "FATAL"
	ErrorCategoryConfig ErrorCategory = "CONFIG"

	// Recoverable errors surfaced as rejections or skipped work
	ErrorCategoryValidation ErrorCategory = "VALIDATION"
	ErrorCategoryFunds      ErrorCategory = "FUNDS"
	ErrorCategoryPosition   ErrorCategory = "POSITION"
	ErrorCategoryRisk       ErrorCategory = "RISK"
	ErrorCategoryStrategy   ErrorCategory = "STRATEGY"
	ErrorCategoryData       ErrorCategory = "DATA"
)

// TradingError is a categorized error with component context. Recoverable
// categories never terminate the engine; they surface as rejections and the
// tick continues.
type TradingError struct {
	Category   ErrorCategory
	Component  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *TradingError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Component, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Component, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As chains
func (e *TradingError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether this error should stop the process. Everything
// else is local to one operation.
func (e *TradingError) IsFatal() bool {
	return e.Category == ErrorCategoryFatal || e.Category == ErrorCategoryConfig
}

// WithContext adds context information to the error
func (e *TradingError) WithContext(key string, value interface{}) *TradingError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a categorized trading error
func New(category ErrorCategory, component, message string) *TradingError {
	return &TradingError{
		Category:  category,
		Component: component,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with trading error context
func Wrap(err error, category ErrorCategory, component, message string) *TradingError {
	if err == nil {
		return nil
	}
	return &TradingError{
		Category:   category,
		Component:  component,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// NewValidationError creates a VALIDATION error; fatal only to the
// construction call that produced it.
func NewValidationError(component, message string) *TradingError {
	return New(ErrorCategoryValidation, component, message)
}

// NewConfigError creates a CONFIG error
func NewConfigError(component, message string) *TradingError {
	return New(ErrorCategoryConfig, component, message)
}

// NewStrategyError creates a STRATEGY error for an isolated evaluation fault
func NewStrategyError(component, message string) *TradingError {
	return New(ErrorCategoryStrategy, component, message)
}

// NewDataError creates a DATA error for a provider/parse failure
func NewDataError(component, message string) *TradingError {
	return New(ErrorCategoryData, component, message)
}

// IsCategory reports whether err is a TradingError of the given category
func IsCategory(err error, category ErrorCategory) bool {
	te, ok := err.(*TradingError)
	return ok && te.Category == category
}
