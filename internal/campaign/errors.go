package campaign

import (
	"errors"
	"sort"
	"strings"
)

// Campaign errors surfaced to the HTTP layer.
var (
	// ErrNotFound indicates the requested prize or serial number does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a request failed field validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSerialUnavailable is returned for unknown and already redeemed codes alike.
	ErrSerialUnavailable = errors.New("invalid serial number, please check and try again")
	// ErrRedemptionClosed indicates redemption is disabled in settings.
	ErrRedemptionClosed = errors.New("redemption is currently closed")
)

// ValidationError carries field-level validation messages.
type ValidationError struct {
	Fields map[string]string // Field name to message.
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// add records the first message for a field.
func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}

// errOrNil returns e when at least one field failed.
func (e *ValidationError) errOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// invalidField builds a single-field validation error.
func invalidField(field, message string) error {
	verr := &ValidationError{}
	verr.add(field, message)
	return verr
}
