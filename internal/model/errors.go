package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures
type ErrorKind string

const (
	// ErrorConfiguration means credentials are missing
	ErrorConfiguration ErrorKind = "CONFIGURATION_ERROR"
	// ErrorProvider means a remote call failed or returned unusable content
	ErrorProvider ErrorKind = "PROVIDER_ERROR"
	// ErrorNoTextFound is the valid empty OCR outcome
	ErrorNoTextFound ErrorKind = "NO_TEXT_FOUND"
	// ErrorDecoding means a provider payload could not be decoded at all
	ErrorDecoding ErrorKind = "DECODING_ERROR"
)

// Error is a classified failure. Message is what users see.
type Error struct {
	Kind     ErrorKind
	Provider string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Provider == ""
}

// Sentinels for errors.Is checks
var (
	ErrConfiguration = &Error{Kind: ErrorConfiguration}
	ErrProvider      = &Error{Kind: ErrorProvider}
	ErrNoTextFound   = &Error{Kind: ErrorNoTextFound}
	ErrDecoding      = &Error{Kind: ErrorDecoding}
)

func NewConfigurationError(message string) *Error {
	return &Error{
		Kind:    ErrorConfiguration,
		Message: message,
	}
}

func NewProviderError(provider, message string, cause error) *Error {
	return &Error{
		Kind:     ErrorProvider,
		Provider: provider,
		Message:  fmt.Sprintf("%s API error: %s", provider, message),
		Cause:    cause,
	}
}

func NewNoTextFoundError() *Error {
	return &Error{
		Kind:    ErrorNoTextFound,
		Message: "No text found in image",
	}
}

func NewDecodingError(provider string, cause error) *Error {
	return &Error{
		Kind:     ErrorDecoding,
		Provider: provider,
		Message:  fmt.Sprintf("could not decode %s response", provider),
		Cause:    cause,
	}
}

// KindOf returns the kind of err, or "" when err is not classified
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
