// File: internal/engine/errors.go
package engine

import "fmt"

type ErrorType string

const (
	ErrTypeConfig   ErrorType = "CONFIG"
	ErrTypeProvider ErrorType = "PROVIDER"
	ErrTypeNotReady ErrorType = "NOT_READY"
)

type EngineError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("engine %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *EngineError) Unwrap() error { return e.Cause }

func NewConfigError(msg string) *EngineError {
	return &EngineError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

func NewProviderError(operation, msg string, cause error) *EngineError {
	return &EngineError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}
