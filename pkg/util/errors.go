// Package util provides logging helpers and the common error types shared
// by the onboarding packages.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below unwrap to one of these so callers can
// classify failures with errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrMissingParameter  = errors.New("template parameter missing")
	ErrMalformedResponse = errors.New("malformed controller response")
	ErrValidationFailed  = errors.New("validation failed")
)

// NotFoundError reports a site, network profile or template that the
// controller does not know about. It is the only row-local failure class.
type NotFoundError struct {
	Kind string // "site", "profile" or "template"
	Name string
}

func (e *NotFoundError) Error() string {
	switch e.Kind {
	case "site":
		return "Cannot find site:" + e.Name
	case "profile":
		return "Cannot find Network profile for siteId:" + e.Name
	case "template":
		return "Cannot find template named:" + e.Name
	}
	return fmt.Sprintf("cannot find %s:%s", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// MissingParameterError reports a declared template parameter that has no
// matching column in the inventory row.
type MissingParameterError struct {
	Parameter string
	ConfigID  string
}

func (e *MissingParameterError) Error() string {
	msg := fmt.Sprintf("missing value for template parameter %q", e.Parameter)
	if e.ConfigID != "" {
		msg += " (template " + e.ConfigID + ")"
	}
	return msg
}

func (e *MissingParameterError) Unwrap() error {
	return ErrMissingParameter
}

// NewMissingParameterError creates a missing-parameter error
func NewMissingParameterError(parameter, configID string) *MissingParameterError {
	return &MissingParameterError{Parameter: parameter, ConfigID: configID}
}

// MalformedResponseError reports a controller reply that could not be
// decoded or did not have the expected shape.
type MalformedResponseError struct {
	Path   string
	Detail string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	msg := "malformed response from " + e.Path
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying decode error.
func (e *MalformedResponseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedResponse}
	}
	return []error{ErrMalformedResponse, e.Err}
}

// NewMalformedResponseError creates a malformed-response error
func NewMalformedResponseError(path, detail string, err error) *MalformedResponseError {
	return &MalformedResponseError{Path: path, Detail: detail, Err: err}
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
