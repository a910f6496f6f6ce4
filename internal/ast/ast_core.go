// Package ast holds the syntax node contracts the checker engine relies on.
//
// The full syntax tree lives in the host compiler. The engine only keeps
// references to nodes, uses their identity as map keys and reads their
// source position, so the contracts here are deliberately thin. The
// concrete nodes in this package are what the engine's own tests and the
// stc tool hand to it.
package ast

import "fmt"

// Token carries the source position of a node.
type Token struct {
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// Node is the base interface for all syntax nodes handed to the engine.
// Implementations must be pointer types: node identity is map identity.
type Node interface {
	TokenLiteral() string
	GetToken() Token
}

// Variable is a node referring to a declared variable. Narrowing and
// assignment tracking key on the declaration, never on the reference.
type Variable interface {
	Node
	Declaration() Node
}

// DeclarationOf returns the declaration site of n, or n itself when it is
// not a variable reference or the reference is still unresolved.
func DeclarationOf(n Node) Node {
	if v, ok := n.(Variable); ok {
		if decl := v.Declaration(); decl != nil {
			return decl
		}
	}
	return n
}

// VariableDeclaration declares a local variable, parameter or field.
type VariableDeclaration struct {
	Token Token
	Name  string
}

func (d *VariableDeclaration) TokenLiteral() string { return d.Name }
func (d *VariableDeclaration) GetToken() Token {
	if d == nil {
		return Token{}
	}
	return d.Token
}

// Identifier is a reference to a variable.
type Identifier struct {
	Token Token
	Value string
	Decl  *VariableDeclaration // nil while unresolved
}

func (i *Identifier) TokenLiteral() string { return i.Value }
func (i *Identifier) GetToken() Token {
	if i == nil {
		return Token{}
	}
	return i.Token
}

// Declaration implements Variable.
func (i *Identifier) Declaration() Node {
	if i.Decl == nil {
		return nil
	}
	return i.Decl
}

// Expression is an opaque expression node, identified by its text.
type Expression struct {
	Token Token
	Text  string
}

func (e *Expression) TokenLiteral() string { return e.Text }
func (e *Expression) GetToken() Token {
	if e == nil {
		return Token{}
	}
	return e.Token
}

// CallExpression is a method call.
type CallExpression struct {
	Token    Token
	Receiver Node // nil for implicit-this calls
	Method   string
	Args     []Node
}

func (c *CallExpression) TokenLiteral() string { return c.Method }
func (c *CallExpression) GetToken() Token {
	if c == nil {
		return Token{}
	}
	return c.Token
}

// ClosureExpression is a closure literal.
type ClosureExpression struct {
	Token  Token
	Params []*VariableDeclaration
}

func (c *ClosureExpression) TokenLiteral() string { return "{" }
func (c *ClosureExpression) GetToken() Token {
	if c == nil {
		return Token{}
	}
	return c.Token
}

// BinaryExpression is a binary operator application.
type BinaryExpression struct {
	Token    Token
	Left     Node
	Operator string
	Right    Node
}

func (b *BinaryExpression) TokenLiteral() string { return b.Operator }
func (b *BinaryExpression) GetToken() Token {
	if b == nil {
		return Token{}
	}
	return b.Token
}

// SwitchStatement is a switch statement.
type SwitchStatement struct {
	Token   Token
	Subject Node
}

func (s *SwitchStatement) TokenLiteral() string { return "switch" }
func (s *SwitchStatement) GetToken() Token {
	if s == nil {
		return Token{}
	}
	return s.Token
}

// BlockStatement is a braced statement block.
type BlockStatement struct {
	Token Token
}

func (b *BlockStatement) TokenLiteral() string { return "{" }
func (b *BlockStatement) GetToken() Token {
	if b == nil {
		return Token{}
	}
	return b.Token
}

// ReturnStatement is a return statement.
type ReturnStatement struct {
	Token Token
	Value Node
}

func (r *ReturnStatement) TokenLiteral() string { return "return" }
func (r *ReturnStatement) GetToken() Token {
	if r == nil {
		return Token{}
	}
	return r.Token
}
