package inference

import "github.com/funvibe/stc/internal/ast"

// SecondPass is an expression deferred until the first pass has finished.
type SecondPass struct {
	Expr ast.Node
	Data any
}

// AddSecondPass queues the pair (expr, data) for the second pass. The
// queue is a set of pairs: the same expression may be queued with
// different data, and a pair already queued returns false. Expressions
// compare by identity; data must be comparable.
func (c *Context) AddSecondPass(expr ast.Node, data any) bool {
	entry := SecondPass{Expr: expr, Data: data}
	if _, found := c.secondPass.Get(entry); found {
		return false
	}
	c.secondPass.Put(entry, &entry)
	return true
}

// SecondPassExpressions returns the queue in insertion order.
func (c *Context) SecondPassExpressions() []SecondPass {
	values := c.secondPass.Values()
	out := make([]SecondPass, 0, len(values))
	for _, v := range values {
		out = append(out, *v.(*SecondPass))
	}
	return out
}

// ClearSecondPass empties the queue.
func (c *Context) ClearSecondPass() { c.secondPass.Clear() }
