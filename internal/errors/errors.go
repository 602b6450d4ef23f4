// Package errors provides the error types used across the sitec compiler.
//
// Every failure that aborts a build is reported as a *SiteError carrying a
// code that places it in one of the compiler's error classes:
//   - NOT_FOUND: a template, data or description file is missing
//   - MALFORMED_DIRECTIVE: a template-include directive cannot be honored
//   - ALREADY_EXISTS: two pages map to the same output directory
//   - PARSE: the page-tree description is not well formed
//   - CONFIG / VALIDATION: sitec.yaml or a flag value is unusable
//   - IO: any other filesystem failure
//
// # Sentinel Errors
//
// Use errors.Is against the sentinels to test an error's class:
//
//	if errors.Is(err, errors.ErrOutputCollision) {
//	    // two pages resolved to the same directory
//	}
//
// Use errors.As to reach the offending path:
//
//	var siteErr *errors.SiteError
//	if errors.As(err, &siteErr) {
//	    fmt.Printf("code=%s path=%s\n", siteErr.Code, siteErr.Path)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for the compiler's error classes.
const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"           // Template, data or description file missing
	ErrCodeMalformedDirective ErrorCode = "MALFORMED_DIRECTIVE" // Include directive cannot be honored
	ErrCodeAlreadyExists      ErrorCode = "ALREADY_EXISTS"      // Output directory collision
	ErrCodeParse              ErrorCode = "PARSE"               // Page-tree description malformed
	ErrCodeConfig             ErrorCode = "CONFIG"              // Configuration error
	ErrCodeValidation         ErrorCode = "VALIDATION"          // Input validation failed
	ErrCodeIO                 ErrorCode = "IO"                  // Other filesystem failure
)

// SiteError represents a structured error with context about the operation.
type SiteError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Path    string    // File or page path involved (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	msg := e.Message
	if e.Path != "" {
		if msg == "" {
			msg = e.Path
		} else {
			msg = fmt.Sprintf("%s: %s", e.Path, msg)
		}
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain traversal.
func (e *SiteError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *SiteError) Is(target error) bool {
	t, ok := target.(*SiteError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors, one per error class.
var (
	// ErrFileNotFound indicates a template, data or description file is missing.
	ErrFileNotFound = &SiteError{Code: ErrCodeNotFound, Message: "file not found"}

	// ErrMissingSrc indicates an include directive without a src attribute.
	ErrMissingSrc = &SiteError{Code: ErrCodeMalformedDirective, Message: "include directive missing src"}

	// ErrIncludeDepth indicates include nesting exceeded the configured limit,
	// usually because of an include cycle.
	ErrIncludeDepth = &SiteError{Code: ErrCodeMalformedDirective, Message: "include depth exceeded"}

	// ErrOutputCollision indicates an output directory already exists.
	ErrOutputCollision = &SiteError{Code: ErrCodeAlreadyExists, Message: "output directory already exists"}

	// ErrDescriptionInvalid indicates the page-tree description could not be parsed.
	ErrDescriptionInvalid = &SiteError{Code: ErrCodeParse, Message: "invalid page-tree description"}
)

// NotFound creates an error for a file that doesn't exist.
func NotFound(path string, err error) error {
	return &SiteError{
		Code:    ErrCodeNotFound,
		Message: "file not found",
		Path:    path,
		Err:     err,
	}
}

// Malformed creates an error for an include directive that cannot be honored.
func Malformed(path, msg string) error {
	return &SiteError{
		Code:    ErrCodeMalformedDirective,
		Message: msg,
		Path:    path,
	}
}

// AlreadyExists creates an error for an output directory that already exists.
func AlreadyExists(path string) error {
	return &SiteError{
		Code:    ErrCodeAlreadyExists,
		Message: "output directory already exists",
		Path:    path,
	}
}

// Parse creates a description parse error with diagnostic detail.
func Parse(path, msg string, err error) error {
	return &SiteError{
		Code:    ErrCodeParse,
		Message: msg,
		Path:    path,
		Err:     err,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &SiteError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &SiteError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapPath creates an error with path context and underlying error.
func WrapPath(code ErrorCode, path string, err error) error {
	return &SiteError{
		Code: code,
		Path: path,
		Err:  err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
