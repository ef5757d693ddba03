// Package errors provides error types with actionable suggestions for
// skilldep. Errors carry contextual details (dependency identifier, command
// output) so failures can be diagnosed without re-running verbosely.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors for use with errors.Is().
var (
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrManifest indicates the skill document could not be found.
	ErrManifest = errors.New("manifest error")
	// ErrLock indicates the lock file could not be read or parsed.
	ErrLock = errors.New("lock error")
	// ErrInstall indicates a backend installation failure.
	ErrInstall = errors.New("install error")
	// ErrGit indicates a git operation failure.
	ErrGit = errors.New("git error")
	// ErrTimeout indicates an external process timed out.
	ErrTimeout = errors.New("timeout error")
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
)

// SkillError is the base error type for skilldep errors.
// It wraps an underlying error and provides additional context.
type SkillError struct {
	// Kind is the category of error (e.g., ErrManifest, ErrInstall).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., dependency slug, command output).
	Details map[string]string
}

// Error implements the error interface.
func (e *SkillError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *SkillError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether any error in err's chain matches the target.
func (e *SkillError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns a formatted error message with details and suggestions.
func (e *SkillError) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		sb.WriteString("\nDetails:\n")
		for k, v := range e.Details {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n💡 Suggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *SkillError) WithDetails(key, value string) *SkillError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *SkillError) WithCause(cause error) *SkillError {
	e.Cause = cause
	return e
}

// New creates a new SkillError with the given kind and message.
func New(kind error, message string) *SkillError {
	return &SkillError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *SkillError {
	return &SkillError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion creates a new error with a suggestion.
func WithSuggestion(kind error, message, suggestion string) *SkillError {
	return &SkillError{
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}
