// Package diagnostics collects checker errors. Rendering and reporting
// belong to the host; the engine only gathers and de-duplicates.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/funvibe/stc/internal/ast"
)

// ErrorCode classifies a diagnostic.
type ErrorCode string

const (
	ErrUnresolvedVariable ErrorCode = "STC001"
	ErrUnresolvedProperty ErrorCode = "STC002"
	ErrMissingMethod      ErrorCode = "STC003"
	ErrAmbiguousMethod    ErrorCode = "STC004"
	ErrIncompatibleAssign ErrorCode = "STC005"
	ErrIncompatibleReturn ErrorCode = "STC006"
	ErrExtension          ErrorCode = "STC100"
)

// DiagnosticError is one checker error at a source position.
type DiagnosticError struct {
	Code    ErrorCode
	Message string
	Token   ast.Token
	File    string
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Token.Line, e.Token.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Token.Line, e.Token.Column, e.Code, e.Message)
}

// NewError creates a diagnostic at tok.
func NewError(code ErrorCode, tok ast.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: fmt.Sprintf(format, args...)}
}

// Collector gathers diagnostics, keeping one per position and code.
type Collector struct {
	File   string
	errors map[string]*DiagnosticError
	order  []string
}

// NewCollector creates an empty collector for file.
func NewCollector(file string) *Collector {
	return &Collector{File: file, errors: make(map[string]*DiagnosticError)}
}

// Add records err. A later error with the same position and code replaces
// the earlier one.
func (c *Collector) Add(err *DiagnosticError) {
	if err.File == "" {
		err.File = c.File
	}
	key := fmt.Sprintf("%d:%d:%s", err.Token.Line, err.Token.Column, err.Code)
	if _, ok := c.errors[key]; !ok {
		c.order = append(c.order, key)
	}
	c.errors[key] = err
}

// Merge adds every error of other to c.
func (c *Collector) Merge(other *Collector) {
	for _, key := range other.order {
		c.Add(other.errors[key])
	}
}

// Len returns the number of distinct errors.
func (c *Collector) Len() int { return len(c.order) }

// HasErrors reports whether any error was collected.
func (c *Collector) HasErrors() bool { return len(c.order) > 0 }

// Errors returns the collected errors sorted by position.
func (c *Collector) Errors() []*DiagnosticError {
	result := make([]*DiagnosticError, 0, len(c.order))
	for _, key := range c.order {
		result = append(result, c.errors[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Token.Line != result[j].Token.Line {
			return result[i].Token.Line < result[j].Token.Line
		}
		return result[i].Token.Column < result[j].Token.Column
	})
	return result
}
