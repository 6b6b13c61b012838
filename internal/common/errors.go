// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Dataset errors.
	ErrDataNotFound       = errors.New("dataset not found")
	ErrEmptyAfterLabeling = errors.New("no rows remain after demand labeling")

	// Registry errors.
	ErrNotTrained = errors.New("no trained models available")

	// Prediction errors.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SchemaError reports the columns a prediction request or artifact set is
// missing. It wraps ErrSchemaMismatch so callers can match with errors.Is.
type SchemaError struct {
	MissingColumns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch: missing columns [%s]", strings.Join(e.MissingColumns, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// NewSchemaError creates a SchemaError for the given missing columns.
func NewSchemaError(missing []string) error {
	return &SchemaError{MissingColumns: missing}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
