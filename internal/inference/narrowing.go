package inference

import (
	"github.com/funvibe/stc/internal/ast"
	"github.com/funvibe/stc/internal/typesystem"
)

// PushNarrowing opens a narrowing frame, typically for an instanceof branch.
func (c *Context) PushNarrowing() {
	c.narrowing.push(make(map[ast.Node][]typesystem.Type))
}

// PopNarrowing closes the innermost narrowing frame and returns its content.
func (c *Context) PopNarrowing() map[ast.Node][]typesystem.Type {
	return c.narrowing.pop()
}

// NarrowingDepth reports how many narrowing frames are open.
func (c *Context) NarrowingDepth() int { return c.narrowing.depth() }

// Narrow appends t to the candidate types of v in the innermost frame.
// Variables are keyed by their declaration so every reference to the
// same variable shares the entry. It reports false when no frame is open.
func (c *Context) Narrow(v ast.Node, t typesystem.Type) bool {
	top := c.narrowing.peek()
	if top == nil {
		return false
	}
	key := ast.DeclarationOf(v)
	top[key] = append(top[key], t)
	return true
}

// NarrowedTypes returns the candidate types of v from the innermost frame
// that mentions it, or nil.
func (c *Context) NarrowedTypes(v ast.Node) []typesystem.Type {
	key := ast.DeclarationOf(v)
	for _, frame := range c.narrowing.view() {
		if types, ok := frame[key]; ok {
			return append([]typesystem.Type(nil), types...)
		}
	}
	return nil
}
