// Package markdocx assembles a parsed Markdown document tree into the
// parts of an OOXML word-processing package.
package markdocx

import (
	"fmt"
	"strings"
)

// ConfigError represents a fatal configuration problem (unreadable
// template, invalid font directory). Builds fail before any part
// generation begins.
type ConfigError struct {
	Kind    string // "template", "fonts", "output", ...
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("config error (%s): %s", e.Kind, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a kind-tagged configuration error.
func NewConfigError(kind, message string, cause error) error {
	return &ConfigError{Kind: kind, Message: message, Cause: cause}
}

// DocumentError represents an error during document operations
// (reading input, writing the package, serializing a part).
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error.
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{Operation: operation, Path: path, Cause: cause}
}

// RenderError represents a per-block rendering failure (math, diagram).
// These are content errors: the build degrades the block and proceeds.
type RenderError struct {
	BlockKind string
	Message   string
	Cause     error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error in %s block: %s: %v", e.BlockKind, e.Message, e.Cause)
	}
	return fmt.Sprintf("render error in %s block: %s", e.BlockKind, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a per-block render error.
func NewRenderError(blockKind, message string, cause error) error {
	return &RenderError{BlockKind: blockKind, Message: message, Cause: cause}
}

// TemplateError represents a problem with a header/footer template.
type TemplateError struct {
	Path    string
	Message string
}

func (e *TemplateError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("template error in '%s': %s", e.Path, e.Message)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

// NewTemplateError creates a new template error.
func NewTemplateError(path, message string) error {
	return &TemplateError{Path: path, Message: message}
}

// ParseError represents an error while parsing Markdown input.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new parse error.
func NewParseError(line int, message string) error {
	return &ParseError{Line: line, Message: message}
}

// ContextError adds operation context to an existing error.
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var parts []string
	for k, v := range e.Context {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	if len(parts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(parts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context.
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{Operation: operation, Context: context, Cause: err}
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	_, ok := err.(*ConfigError)
	return ok
}

// IsRenderError checks if an error is a per-block render error.
func IsRenderError(err error) bool {
	_, ok := err.(*RenderError)
	return ok
}

// IsTemplateError checks if an error is a template error.
func IsTemplateError(err error) bool {
	_, ok := err.(*TemplateError)
	return ok
}

// IsParseError checks if an error is a parse error.
func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}
