// Package extension defines the hooks a type checker calls on pluggable
// extensions and the composite that dispatches them.
package extension

import (
	"github.com/funvibe/stc/internal/ast"
	"github.com/funvibe/stc/internal/typesystem"
)

// Extension is the hook set of a type checking extension. Every hook
// returns an error last; the checker treats a non-nil error as fatal for
// the pass.
type Extension interface {
	Setup() error
	Finish() error

	HandleUnresolvedVariable(v ast.Node) (bool, error)
	HandleUnresolvedProperty(expr ast.Node) (bool, error)
	HandleUnresolvedAttribute(expr ast.Node) (bool, error)
	HandleIncompatibleAssignment(lhs, rhs typesystem.Type, expr ast.Node) (bool, error)
	HandleIncompatibleReturnType(ret *ast.ReturnStatement, inferred typesystem.Type) (bool, error)

	HandleMissingMethod(receiver typesystem.Type, name string, args []typesystem.Type, call ast.Node) ([]*typesystem.Method, error)
	HandleAmbiguousMethods(candidates []*typesystem.Method, call ast.Node) ([]*typesystem.Method, error)

	BeforeVisitClass(class *typesystem.Nominal) (bool, error)
	AfterVisitClass(class *typesystem.Nominal) error
	BeforeVisitMethod(method *typesystem.Method) (bool, error)
	AfterVisitMethod(method *typesystem.Method) error
	BeforeMethodCall(call ast.Node) (bool, error)
	AfterMethodCall(call ast.Node) error
	OnMethodSelection(expr ast.Node, method *typesystem.Method) error
}

// Base implements every hook as a no-op. Embed it to override a subset.
type Base struct{}

var _ Extension = Base{}

func (Base) Setup() error  { return nil }
func (Base) Finish() error { return nil }

func (Base) HandleUnresolvedVariable(ast.Node) (bool, error)  { return false, nil }
func (Base) HandleUnresolvedProperty(ast.Node) (bool, error)  { return false, nil }
func (Base) HandleUnresolvedAttribute(ast.Node) (bool, error) { return false, nil }
func (Base) HandleIncompatibleAssignment(typesystem.Type, typesystem.Type, ast.Node) (bool, error) {
	return false, nil
}
func (Base) HandleIncompatibleReturnType(*ast.ReturnStatement, typesystem.Type) (bool, error) {
	return false, nil
}

func (Base) HandleMissingMethod(typesystem.Type, string, []typesystem.Type, ast.Node) ([]*typesystem.Method, error) {
	return nil, nil
}

// HandleAmbiguousMethods returns the candidates unchanged.
func (Base) HandleAmbiguousMethods(candidates []*typesystem.Method, _ ast.Node) ([]*typesystem.Method, error) {
	return candidates, nil
}

func (Base) BeforeVisitClass(*typesystem.Nominal) (bool, error)   { return false, nil }
func (Base) AfterVisitClass(*typesystem.Nominal) error            { return nil }
func (Base) BeforeVisitMethod(*typesystem.Method) (bool, error)   { return false, nil }
func (Base) AfterVisitMethod(*typesystem.Method) error            { return nil }
func (Base) BeforeMethodCall(ast.Node) (bool, error)              { return false, nil }
func (Base) AfterMethodCall(ast.Node) error                       { return nil }
func (Base) OnMethodSelection(ast.Node, *typesystem.Method) error { return nil }
