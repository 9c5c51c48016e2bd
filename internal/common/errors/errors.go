// Package errors provides standardized error handling for the query pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Classification failure is the only class allowed to escape the agent;
	// provider trouble is handled inside resolvers and surfaced as message
	// strings.
	ErrCodeClassificationFailed ErrorCode = "CLASSIFICATION_FAILED"
)

// Sentinel errors for errors.Is discrimination across package boundaries.
var (
	ErrNoData      = errors.New("PROVIDER_NO_DATA")
	ErrAuthMissing = errors.New("PROVIDER_AUTH_MISSING")
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewClassificationFailedError wraps a delegated-classifier fault. It is
// non-retryable within a request: the agent propagates it to the transport
// boundary instead of degrading to the keyword strategy.
func NewClassificationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationFailed,
		Message:   "Intent classification failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
