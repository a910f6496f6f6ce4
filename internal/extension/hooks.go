package extension

import (
	"github.com/funvibe/stc/internal/ast"
	"github.com/funvibe/stc/internal/typesystem"
)

// Hooks adapts plain functions to Extension, one field per hook. Nil
// fields behave like Base. Always register a *Hooks so the chain can find
// it again on Remove.
type Hooks struct {
	OnSetup            func() error
	OnFinish           func() error
	UnresolvedVariable func(v ast.Node) (bool, error)
	UnresolvedProperty func(expr ast.Node) (bool, error)
	UnresolvedAttr     func(expr ast.Node) (bool, error)
	MissingMethod      func(receiver typesystem.Type, name string, args []typesystem.Type, call ast.Node) ([]*typesystem.Method, error)
	AmbiguousMethods   func(candidates []*typesystem.Method, call ast.Node) ([]*typesystem.Method, error)
	IncompatibleAssign func(lhs, rhs typesystem.Type, expr ast.Node) (bool, error)
	IncompatibleReturn func(ret *ast.ReturnStatement, inferred typesystem.Type) (bool, error)
	BeforeClass        func(class *typesystem.Nominal) (bool, error)
	AfterClass         func(class *typesystem.Nominal) error
	BeforeMethod       func(method *typesystem.Method) (bool, error)
	AfterMethod        func(method *typesystem.Method) error
	BeforeCall         func(call ast.Node) (bool, error)
	AfterCall          func(call ast.Node) error
	MethodSelection    func(expr ast.Node, method *typesystem.Method) error
}

func (h *Hooks) Setup() error {
	if h.OnSetup == nil {
		return nil
	}
	return h.OnSetup()
}

func (h *Hooks) Finish() error {
	if h.OnFinish == nil {
		return nil
	}
	return h.OnFinish()
}

func (h *Hooks) HandleUnresolvedVariable(v ast.Node) (bool, error) {
	if h.UnresolvedVariable == nil {
		return false, nil
	}
	return h.UnresolvedVariable(v)
}

func (h *Hooks) HandleUnresolvedProperty(expr ast.Node) (bool, error) {
	if h.UnresolvedProperty == nil {
		return false, nil
	}
	return h.UnresolvedProperty(expr)
}

func (h *Hooks) HandleUnresolvedAttribute(expr ast.Node) (bool, error) {
	if h.UnresolvedAttr == nil {
		return false, nil
	}
	return h.UnresolvedAttr(expr)
}

func (h *Hooks) HandleIncompatibleReturnType(ret *ast.ReturnStatement, inferred typesystem.Type) (bool, error) {
	if h.IncompatibleReturn == nil {
		return false, nil
	}
	return h.IncompatibleReturn(ret, inferred)
}

func (h *Hooks) HandleIncompatibleAssignment(lhs, rhs typesystem.Type, expr ast.Node) (bool, error) {
	if h.IncompatibleAssign == nil {
		return false, nil
	}
	return h.IncompatibleAssign(lhs, rhs, expr)
}

func (h *Hooks) HandleMissingMethod(receiver typesystem.Type, name string, args []typesystem.Type, call ast.Node) ([]*typesystem.Method, error) {
	if h.MissingMethod == nil {
		return nil, nil
	}
	return h.MissingMethod(receiver, name, args, call)
}

func (h *Hooks) HandleAmbiguousMethods(candidates []*typesystem.Method, call ast.Node) ([]*typesystem.Method, error) {
	if h.AmbiguousMethods == nil {
		return candidates, nil
	}
	return h.AmbiguousMethods(candidates, call)
}

func (h *Hooks) BeforeVisitClass(class *typesystem.Nominal) (bool, error) {
	if h.BeforeClass == nil {
		return false, nil
	}
	return h.BeforeClass(class)
}

func (h *Hooks) AfterVisitClass(class *typesystem.Nominal) error {
	if h.AfterClass == nil {
		return nil
	}
	return h.AfterClass(class)
}

func (h *Hooks) BeforeVisitMethod(method *typesystem.Method) (bool, error) {
	if h.BeforeMethod == nil {
		return false, nil
	}
	return h.BeforeMethod(method)
}

func (h *Hooks) AfterVisitMethod(method *typesystem.Method) error {
	if h.AfterMethod == nil {
		return nil
	}
	return h.AfterMethod(method)
}

func (h *Hooks) AfterMethodCall(call ast.Node) error {
	if h.AfterCall == nil {
		return nil
	}
	return h.AfterCall(call)
}

func (h *Hooks) BeforeMethodCall(call ast.Node) (bool, error) {
	if h.BeforeCall == nil {
		return false, nil
	}
	return h.BeforeCall(call)
}

func (h *Hooks) OnMethodSelection(expr ast.Node, method *typesystem.Method) error {
	if h.MethodSelection == nil {
		return nil
	}
	return h.MethodSelection(expr, method)
}
