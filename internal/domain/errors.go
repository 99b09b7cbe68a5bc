package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured        = errors.New("completion provider credential is not configured")
	ErrEmptyTurn            = errors.New("message text is empty")
	ErrTurnInProgress       = errors.New("a turn is already being dispatched for this session")
	ErrConversationReset    = errors.New("conversation was reset before the reply arrived")
	ErrSessionNotFound      = errors.New("session not found")
	ErrUnknownQuickQuestion = errors.New("unknown quick question")
	ErrNothingToRetry       = errors.New("no unanswered message to retry")
)

// ConfigurationError blocks every dispatch until the missing setting is supplied.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ValidationError reports rejected input. Nothing is appended to the conversation.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" && e.Err != nil {
		return fmt.Sprintf("validation error [%s]: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ProviderError wraps any failure coming from a CompletionProvider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error [%s]: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
