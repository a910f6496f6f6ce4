package extension

import (
	"errors"

	"github.com/funvibe/stc/internal/ast"
	"github.com/funvibe/stc/internal/typesystem"
)

// ErrHookPrecondition reports a chain mutation that the caller must avoid,
// such as removing an extension while a hook is dispatching.
var ErrHookPrecondition = errors.New("extension hook precondition violated")

// Chain dispatches every hook to its extensions in registration order.
// Each hook has its own aggregation rule. A Chain belongs to one checking
// pass and is not safe for concurrent use.
type Chain struct {
	extensions []Extension
	// dispatching counts hooks currently iterating the live list.
	dispatching int
}

var _ Extension = (*Chain)(nil)

// NewChain creates a chain holding exts.
func NewChain(exts ...Extension) *Chain {
	return &Chain{extensions: append([]Extension(nil), exts...)}
}

// Add registers e after every existing extension.
func (c *Chain) Add(e Extension) {
	c.extensions = append(c.extensions, e)
}

// Remove unregisters the first occurrence of e and reports whether it was
// found. Removing while a hook other than Setup is dispatching returns
// ErrHookPrecondition and leaves the chain unchanged.
func (c *Chain) Remove(e Extension) (bool, error) {
	if c.dispatching > 0 {
		return false, ErrHookPrecondition
	}
	for i, ext := range c.extensions {
		if ext == e {
			c.extensions = append(c.extensions[:i:i], c.extensions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Extensions returns the registered extensions in order.
func (c *Chain) Extensions() []Extension {
	return append([]Extension(nil), c.extensions...)
}

// Len returns the number of registered extensions.
func (c *Chain) Len() int { return len(c.extensions) }

func (c *Chain) enter() func() {
	c.dispatching++
	return func() { c.dispatching-- }
}

// firstTrue calls fn on each extension until one reports true.
func (c *Chain) firstTrue(fn func(Extension) (bool, error)) (bool, error) {
	defer c.enter()()
	for _, ext := range c.extensions {
		handled, err := fn(ext)
		if err != nil {
			return false, err
		}
		if handled {
			return true, nil
		}
	}
	return false, nil
}

// notifyAll calls fn on every extension.
func (c *Chain) notifyAll(fn func(Extension) error) error {
	defer c.enter()()
	for _, ext := range c.extensions {
		if err := fn(ext); err != nil {
			return err
		}
	}
	return nil
}

// Setup calls Setup on a snapshot of the extensions. Extensions added
// during setup are not set up in the same call.
func (c *Chain) Setup() error {
	for _, ext := range c.Extensions() {
		if err := ext.Setup(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) Finish() error {
	return c.notifyAll(func(e Extension) error { return e.Finish() })
}

func (c *Chain) HandleUnresolvedVariable(v ast.Node) (bool, error) {
	return c.firstTrue(func(e Extension) (bool, error) { return e.HandleUnresolvedVariable(v) })
}

func (c *Chain) HandleUnresolvedProperty(expr ast.Node) (bool, error) {
	return c.firstTrue(func(e Extension) (bool, error) { return e.HandleUnresolvedProperty(expr) })
}

func (c *Chain) HandleUnresolvedAttribute(expr ast.Node) (bool, error) {
	return c.firstTrue(func(e Extension) (bool, error) { return e.HandleUnresolvedAttribute(expr) })
}

func (c *Chain) HandleIncompatibleAssignment(lhs, rhs typesystem.Type, expr ast.Node) (bool, error) {
	return c.firstTrue(func(e Extension) (bool, error) { return e.HandleIncompatibleAssignment(lhs, rhs, expr) })
}

func (c *Chain) HandleIncompatibleReturnType(ret *ast.ReturnStatement, inferred typesystem.Type) (bool, error) {
	return c.firstTrue(func(e Extension) (bool, error) { return e.HandleIncompatibleReturnType(ret, inferred) })
}

// HandleMissingMethod concatenates the candidates of every extension.
// Candidates without a declaring type are given Object.
func (c *Chain) HandleMissingMethod(receiver typesystem.Type, name string, args []typesystem.Type, call ast.Node) ([]*typesystem.Method, error) {
	defer c.enter()()
	var result []*typesystem.Method
	for _, ext := range c.extensions {
		methods, err := ext.HandleMissingMethod(receiver, name, args, call)
		if err != nil {
			return nil, err
		}
		for _, m := range methods {
			if m == nil {
				continue
			}
			if m.DeclaringType == nil {
				m.DeclaringType = typesystem.ObjectType
			}
			result = append(result, m)
		}
	}
	return result, nil
}

// HandleAmbiguousMethods passes the candidates through each extension in
// turn and stops as soon as at most one remains.
func (c *Chain) HandleAmbiguousMethods(candidates []*typesystem.Method, call ast.Node) ([]*typesystem.Method, error) {
	defer c.enter()()
	result := candidates
	for _, ext := range c.extensions {
		if len(result) <= 1 {
			break
		}
		refined, err := ext.HandleAmbiguousMethods(result, call)
		if err != nil {
			return nil, err
		}
		result = refined
	}
	return result, nil
}

func (c *Chain) BeforeVisitClass(class *typesystem.Nominal) (bool, error) {
	return c.firstTrue(func(e Extension) (bool, error) { return e.BeforeVisitClass(class) })
}

func (c *Chain) AfterVisitClass(class *typesystem.Nominal) error {
	return c.notifyAll(func(e Extension) error { return e.AfterVisitClass(class) })
}

func (c *Chain) BeforeVisitMethod(method *typesystem.Method) (bool, error) {
	return c.firstTrue(func(e Extension) (bool, error) { return e.BeforeVisitMethod(method) })
}

func (c *Chain) AfterVisitMethod(method *typesystem.Method) error {
	return c.notifyAll(func(e Extension) error { return e.AfterVisitMethod(method) })
}

func (c *Chain) BeforeMethodCall(call ast.Node) (bool, error) {
	return c.firstTrue(func(e Extension) (bool, error) { return e.BeforeMethodCall(call) })
}

func (c *Chain) AfterMethodCall(call ast.Node) error {
	return c.notifyAll(func(e Extension) error { return e.AfterMethodCall(call) })
}

func (c *Chain) OnMethodSelection(expr ast.Node, method *typesystem.Method) error {
	return c.notifyAll(func(e Extension) error { return e.OnMethodSelection(expr, method) })
}
