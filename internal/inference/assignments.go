package inference

import (
	"github.com/funvibe/stc/internal/ast"
	"github.com/funvibe/stc/internal/typesystem"
)

// Assignments records the types assigned to variables inside one control
// structure, keyed by declaration and ordered by first assignment.
type Assignments struct {
	order []ast.Node
	types map[ast.Node][]typesystem.Type
}

func newAssignments() *Assignments {
	return &Assignments{types: make(map[ast.Node][]typesystem.Type)}
}

func (a *Assignments) add(v ast.Node, t typesystem.Type) {
	key := ast.DeclarationOf(v)
	if _, ok := a.types[key]; !ok {
		a.order = append(a.order, key)
	}
	a.types[key] = append(a.types[key], t)
}

// Variables returns the assigned variables in order of first assignment.
func (a *Assignments) Variables() []ast.Node {
	if a == nil {
		return nil
	}
	return append([]ast.Node(nil), a.order...)
}

// Types returns the types assigned to v in assignment order.
func (a *Assignments) Types(v ast.Node) []typesystem.Type {
	if a == nil {
		return nil
	}
	return append([]typesystem.Type(nil), a.types[ast.DeclarationOf(v)]...)
}

// Len reports the number of distinct variables assigned.
func (a *Assignments) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// PushAssignmentTracking starts tracking assignments for a control structure.
func (c *Context) PushAssignmentTracking() { c.trackers.push(newAssignments()) }

// PopAssignmentTracking stops the innermost tracking and returns what it saw.
func (c *Context) PopAssignmentTracking() *Assignments { return c.trackers.pop() }

// TrackAssignment records that t was assigned to v. Without an open
// tracker the assignment is not recorded and false is returned.
func (c *Context) TrackAssignment(v ast.Node, t typesystem.Type) bool {
	top := c.trackers.peek()
	if top == nil {
		return false
	}
	top.add(v, t)
	return true
}

// MergeAssignments folds the types of every variable with the context's
// lowest-upper-bound function, left to right.
func (c *Context) MergeAssignments(a *Assignments) map[ast.Node]typesystem.Type {
	out := make(map[ast.Node]typesystem.Type, a.Len())
	for _, v := range a.Variables() {
		types := a.types[v]
		merged := types[0]
		for _, t := range types[1:] {
			merged = c.lub(merged, t)
		}
		out[v] = merged
	}
	return out
}

// AddClosureSharedAssignment records a type assigned to a variable that is
// captured by a closure.
func (c *Context) AddClosureSharedAssignment(v ast.Node, t typesystem.Type) {
	key := ast.DeclarationOf(v)
	if _, ok := c.closureShared[key]; !ok {
		c.closureSharedKeys = append(c.closureSharedKeys, key)
	}
	c.closureShared[key] = append(c.closureShared[key], t)
}

// ClosureSharedVariables returns the captured variables in order of first assignment.
func (c *Context) ClosureSharedVariables() []ast.Node {
	return append([]ast.Node(nil), c.closureSharedKeys...)
}

// ClosureSharedTypes returns the types assigned to a captured variable.
func (c *Context) ClosureSharedTypes(v ast.Node) []typesystem.Type {
	return append([]typesystem.Type(nil), c.closureShared[ast.DeclarationOf(v)]...)
}
