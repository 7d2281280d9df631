package utils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies a failure by how the user should react to it.
type ErrorCategory int

const (
	// CategoryPrerequisite: something the run needs is missing (editor, toolchain, platform support).
	CategoryPrerequisite ErrorCategory = iota
	// CategoryBuild: a build, backend or fetch collaborator returned non-zero.
	CategoryBuild
	// CategoryConfigConflict: existing settings disagree and the user did not confirm.
	CategoryConfigConflict
	// CategoryConfigParse: existing settings could not be parsed.
	CategoryConfigParse
	// CategoryConfigWrite: the merged settings could not be persisted.
	CategoryConfigWrite
	CategoryUser
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryPrerequisite:
		return "prerequisite-missing"
	case CategoryBuild:
		return "build-step-failed"
	case CategoryConfigConflict:
		return "config-conflict"
	case CategoryConfigParse:
		return "config-parse-failure"
	case CategoryConfigWrite:
		return "config-write-failure"
	case CategoryUser:
		return "user"
	}
	return "unknown"
}

// ErrorContext records where in the pipeline an error happened.
type ErrorContext struct {
	Operation string
	Resource  string
}

// StructuredError represents a standardized error with rich context
type StructuredError struct {
	Code      string
	Message   string
	Category  ErrorCategory
	Context   *ErrorContext
	Hint      string
	ExitCode  int
	RootCause error
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.RootCause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.RootCause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for compatibility with errors.Is and errors.As
func (e *StructuredError) Unwrap() error {
	return e.RootCause
}

// NewStructuredError creates a new structured error exiting with code 1.
func NewStructuredError(code, message string, category ErrorCategory, rootCause error) *StructuredError {
	return &StructuredError{
		Code:      code,
		Message:   message,
		Category:  category,
		ExitCode:  1,
		RootCause: rootCause,
	}
}

// NewPrerequisiteError reports a missing editor, toolchain or platform.
func NewPrerequisiteError(operation, resource, message string) *StructuredError {
	return NewStructuredError("PREREQ_MISSING", message, CategoryPrerequisite, nil).
		WithContext(&ErrorContext{Operation: operation, Resource: resource})
}

// NewBuildStepError reports a collaborator that returned a non-zero code.
// The code is propagated verbatim as the exit code.
func NewBuildStepError(operation, resource string, code int, rootCause error) *StructuredError {
	err := NewStructuredError("BUILD_STEP_FAILED",
		fmt.Sprintf("%s failed with exit code %d", operation, code),
		CategoryBuild, rootCause).
		WithContext(&ErrorContext{Operation: operation, Resource: resource})
	if code != 0 {
		err.ExitCode = code
	}
	return err
}

// NewConfigWriteError reports a settings file that could not be persisted.
func NewConfigWriteError(path string, rootCause error) *StructuredError {
	return NewStructuredError("CFG_WRITE_FAILED", "could not write settings", CategoryConfigWrite, rootCause).
		WithContext(&ErrorContext{Operation: "write", Resource: path})
}

// NewConfigError creates a configuration-related error
func NewConfigError(key string, rootCause error) *StructuredError {
	return NewStructuredError("CFG_ERROR", fmt.Sprintf("Configuration error for %s", key), CategoryUser, rootCause).
		WithContext(&ErrorContext{Resource: key})
}

// WithContext adds context to the error
func (e *StructuredError) WithContext(ctx *ErrorContext) *StructuredError {
	e.Context = ctx
	return e
}

// WithHint attaches a remediation the user can act on.
func (e *StructuredError) WithHint(hint string) *StructuredError {
	e.Hint = hint
	return e
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var se *StructuredError
	if errors.As(err, &se) && se.ExitCode != 0 {
		return se.ExitCode
	}
	return 1
}

// IsCategory reports whether err is a StructuredError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var se *StructuredError
	return errors.As(err, &se) && se.Category == category
}

// FormatError formats an error for display
func FormatError(err error) string {
	var structuredErr *StructuredError
	if !errors.As(err, &structuredErr) {
		return err.Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Error [%s]: %s", structuredErr.Code, structuredErr.Message))

	if structuredErr.Context != nil {
		if structuredErr.Context.Operation != "" {
			parts = append(parts, fmt.Sprintf("Stage: %s", structuredErr.Context.Operation))
		}
		if structuredErr.Context.Resource != "" {
			parts = append(parts, fmt.Sprintf("Resource: %s", structuredErr.Context.Resource))
		}
	}

	if structuredErr.RootCause != nil {
		parts = append(parts, fmt.Sprintf("Root Cause: %v", structuredErr.RootCause))
	}

	out := strings.Join(parts, " | ")
	if structuredErr.Hint != "" {
		out += "\n" + structuredErr.Hint
	}
	return out
}
