// Package inference holds the mutable state of one type checking pass.
//
// A Context is created when a pass starts and dropped when it ends. It is
// not safe for concurrent use and must never be shared between passes.
// The checker visitor is its only mutator: it pushes and pops a frame at
// every scope entry and exit and reads the state back through accessors
// that return copies.
package inference

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/stc/internal/ast"
	"github.com/funvibe/stc/internal/diagnostics"
	"github.com/funvibe/stc/internal/typesystem"
)

// ClosureFrame is the state of one enclosing closure.
type ClosureFrame struct {
	Expr        *ast.ClosureExpression
	returnTypes []typesystem.Type
}

// AddReturnType records a type observed in a return of the closure body.
func (f *ClosureFrame) AddReturnType(t typesystem.Type) {
	f.returnTypes = append(f.returnTypes, t)
}

// ReturnTypes returns the observed return types in encounter order.
func (f *ClosureFrame) ReturnTypes() []typesystem.Type {
	return append([]typesystem.Type(nil), f.returnTypes...)
}

// DelegationStrategy is how a closure resolves names against its delegate.
type DelegationStrategy int

const (
	OwnerFirst DelegationStrategy = iota
	DelegateFirst
	OwnerOnly
	DelegateOnly
)

// DelegationMetadata describes the delegate of the closure being checked.
type DelegationMetadata struct {
	Type     typesystem.Type
	Strategy DelegationStrategy
	Parent   *DelegationMetadata
}

// Context is the state of one type checking pass.
type Context struct {
	File string

	classes     stack[*typesystem.Nominal]
	methods     stack[*typesystem.Method]
	closures    stack[*ClosureFrame]
	switches    stack[*ast.SwitchStatement]
	blocks      stack[ast.Node]
	binaries    stack[*ast.BinaryExpression]
	methodCalls stack[ast.Node]
	returns     []*ast.ReturnStatement

	narrowing stack[map[ast.Node][]typesystem.Type]
	trackers  stack[*Assignments]

	// secondPass holds SecondPass pairs, keyed by value, in insertion order.
	secondPass *linkedhashmap.Map

	closureShared     map[ast.Node][]typesystem.Type
	closureSharedKeys []ast.Node

	reported   *set.Set[uint64]
	collectors stack[*diagnostics.Collector]

	delegation      *DelegationMetadata
	staticContext   bool
	visitedMethods  *set.Set[*typesystem.Method]
	lastImplicitIt  typesystem.Type
	controlVariable map[ast.Node]typesystem.Type

	lub typesystem.LUBFunc
}

// Option configures a Context.
type Option func(*Context)

// WithLUB replaces the lowest-upper-bound function used at merge points.
func WithLUB(f typesystem.LUBFunc) Option {
	return func(c *Context) { c.lub = f }
}

// New creates the context of a pass over file. The file's own error
// collector is the bottom of the collector stack.
func New(file string, opts ...Option) *Context {
	c := &Context{
		File:            file,
		secondPass:      linkedhashmap.New(),
		closureShared:   make(map[ast.Node][]typesystem.Type),
		reported:        set.New[uint64](0),
		visitedMethods:  set.New[*typesystem.Method](0),
		controlVariable: make(map[ast.Node]typesystem.Type),
		lub:             typesystem.LowestUpperBound,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.collectors.push(diagnostics.NewCollector(file))
	return c
}

// Classes

func (c *Context) PushClass(n *typesystem.Nominal)         { c.classes.push(n) }
func (c *Context) PopClass() *typesystem.Nominal           { return c.classes.pop() }
func (c *Context) CurrentClass() *typesystem.Nominal       { return c.classes.peek() }
func (c *Context) EnclosingClasses() []*typesystem.Nominal { return c.classes.view() }

// Methods

func (c *Context) PushMethod(m *typesystem.Method)        { c.methods.push(m) }
func (c *Context) PopMethod() *typesystem.Method          { return c.methods.pop() }
func (c *Context) CurrentMethod() *typesystem.Method      { return c.methods.peek() }
func (c *Context) EnclosingMethods() []*typesystem.Method { return c.methods.view() }

// Closures

// PushClosure enters a closure body and returns its frame.
func (c *Context) PushClosure(expr *ast.ClosureExpression) *ClosureFrame {
	f := &ClosureFrame{Expr: expr}
	c.closures.push(f)
	return f
}

func (c *Context) PopClosure() *ClosureFrame          { return c.closures.pop() }
func (c *Context) CurrentClosure() *ClosureFrame      { return c.closures.peek() }
func (c *Context) EnclosingClosures() []*ClosureFrame { return c.closures.view() }

// Switch statements

func (c *Context) PushSwitch(s *ast.SwitchStatement)         { c.switches.push(s) }
func (c *Context) PopSwitch() *ast.SwitchStatement           { return c.switches.pop() }
func (c *Context) CurrentSwitch() *ast.SwitchStatement       { return c.switches.peek() }
func (c *Context) EnclosingSwitches() []*ast.SwitchStatement { return c.switches.view() }

// Blocks

func (c *Context) PushBlock(b ast.Node)        { c.blocks.push(b) }
func (c *Context) PopBlock() ast.Node          { return c.blocks.pop() }
func (c *Context) CurrentBlock() ast.Node      { return c.blocks.peek() }
func (c *Context) EnclosingBlocks() []ast.Node { return c.blocks.view() }

// Binary expressions

func (c *Context) PushBinaryExpression(b *ast.BinaryExpression)   { c.binaries.push(b) }
func (c *Context) PopBinaryExpression() *ast.BinaryExpression     { return c.binaries.pop() }
func (c *Context) CurrentBinaryExpression() *ast.BinaryExpression { return c.binaries.peek() }
func (c *Context) EnclosingBinaryExpressions() []*ast.BinaryExpression {
	return c.binaries.view()
}

// Method calls

func (c *Context) PushMethodCall(call ast.Node)     { c.methodCalls.push(call) }
func (c *Context) PopMethodCall() ast.Node          { return c.methodCalls.pop() }
func (c *Context) CurrentMethodCall() ast.Node      { return c.methodCalls.peek() }
func (c *Context) EnclosingMethodCalls() []ast.Node { return c.methodCalls.view() }

// AddReturnStatement records a return of the method being checked.
func (c *Context) AddReturnStatement(r *ast.ReturnStatement) { c.returns = append(c.returns, r) }

// ReturnStatements returns the recorded returns in encounter order.
func (c *Context) ReturnStatements() []*ast.ReturnStatement {
	return append([]*ast.ReturnStatement(nil), c.returns...)
}

// ClearReturnStatements forgets the recorded returns, typically on method exit.
func (c *Context) ClearReturnStatements() { c.returns = nil }

// Delegation

// PushDelegation enters a closure delegating to t.
func (c *Context) PushDelegation(t typesystem.Type, strategy DelegationStrategy) {
	c.delegation = &DelegationMetadata{Type: t, Strategy: strategy, Parent: c.delegation}
}

// PopDelegation leaves the innermost delegation and returns it.
func (c *Context) PopDelegation() *DelegationMetadata {
	d := c.delegation
	if d != nil {
		c.delegation = d.Parent
	}
	return d
}

func (c *Context) Delegation() *DelegationMetadata { return c.delegation }

// Static context

func (c *Context) SetStaticContext(static bool) { c.staticContext = static }
func (c *Context) InStaticContext() bool        { return c.staticContext }

// MarkVisited records that m was checked. It returns false if it already was.
func (c *Context) MarkVisited(m *typesystem.Method) bool { return c.visitedMethods.Insert(m) }
func (c *Context) IsVisited(m *typesystem.Method) bool   { return c.visitedMethods.Contains(m) }

// SetLastImplicitItType records the type of the implicit closure parameter.
func (c *Context) SetLastImplicitItType(t typesystem.Type) { c.lastImplicitIt = t }
func (c *Context) LastImplicitItType() typesystem.Type     { return c.lastImplicitIt }

// SetControlVariableType records the type of a loop or switch control variable.
func (c *Context) SetControlVariableType(v ast.Node, t typesystem.Type) {
	c.controlVariable[ast.DeclarationOf(v)] = t
}

// ControlVariableType returns the recorded control variable type, or nil.
func (c *Context) ControlVariableType(v ast.Node) typesystem.Type {
	return c.controlVariable[ast.DeclarationOf(v)]
}

// depths records the height of every frame stack.
type depths struct {
	classes, methods, closures, switches, blocks, binaries, calls int
	narrowing, trackers, collectors                               int
	delegation                                                    *DelegationMetadata
}

func (c *Context) depths() depths {
	return depths{
		classes:    c.classes.depth(),
		methods:    c.methods.depth(),
		closures:   c.closures.depth(),
		switches:   c.switches.depth(),
		blocks:     c.blocks.depth(),
		binaries:   c.binaries.depth(),
		calls:      c.methodCalls.depth(),
		narrowing:  c.narrowing.depth(),
		trackers:   c.trackers.depth(),
		collectors: c.collectors.depth(),
		delegation: c.delegation,
	}
}

// restore pops every frame pushed since d was taken.
func (c *Context) restore(d depths) {
	c.classes.truncate(d.classes)
	c.methods.truncate(d.methods)
	c.closures.truncate(d.closures)
	c.switches.truncate(d.switches)
	c.blocks.truncate(d.blocks)
	c.binaries.truncate(d.binaries)
	c.methodCalls.truncate(d.calls)
	c.narrowing.truncate(d.narrowing)
	c.trackers.truncate(d.trackers)
	c.collectors.truncate(d.collectors)
	c.delegation = d.delegation
}
