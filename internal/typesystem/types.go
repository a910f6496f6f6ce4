package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all type descriptors.
// The set of variants is closed: *Nominal, *Union and *LUB.
type Type interface {
	String() string
	Name() string
	typeNode()
}

// GenericParam is a generic type argument or a declared type parameter.
type GenericParam struct {
	Type        Type
	Placeholder bool
	Wildcard    bool
	Lower       Type   // nil when absent
	Upper       []Type // nil when absent; the first bound is the erasure target
}

func (g *GenericParam) String() string {
	if g == nil {
		return "<nil>"
	}
	var sb strings.Builder
	switch {
	case g.Wildcard:
		sb.WriteString("?")
	case g.Type != nil:
		sb.WriteString(g.Type.String())
	}
	if len(g.Upper) > 0 {
		parts := make([]string, len(g.Upper))
		for i, u := range g.Upper {
			parts[i] = u.String()
		}
		sb.WriteString(" extends ")
		sb.WriteString(strings.Join(parts, " & "))
	}
	if g.Lower != nil {
		sb.WriteString(" super ")
		sb.WriteString(g.Lower.String())
	}
	return sb.String()
}

// Param is a method parameter.
type Param struct {
	Name string
	Type Type
}

// Method describes a method or constructor declared on a nominal type.
type Method struct {
	Name          string
	DeclaringType *Nominal // nil until added to a type
	Params        []Param
	ReturnType    Type
	Static        bool
	Public        bool
	Annotations   []string
}

// HasAnnotation reports whether the method carries the named annotation.
func (m *Method) HasAnnotation(name string) bool {
	for _, a := range m.Annotations {
		if a == name {
			return true
		}
	}
	return false
}

func (m *Method) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type.String()
	}
	owner := "?"
	if m.DeclaringType != nil {
		owner = m.DeclaringType.Name()
	}
	return fmt.Sprintf("%s#%s(%s)", owner, m.Name, strings.Join(params, ", "))
}

// Field describes a field declared on a nominal type.
type Field struct {
	Name          string
	Type          Type
	DeclaringType *Nominal
	Static        bool
}

// Nominal is a named type, an array of a named type, or a type variable.
//
// A parameterized use of a declared type (List<String>) is a separate
// Nominal that redirects hierarchy and member lookups to the declaration.
type Nominal struct {
	TypeName     string
	Component    *Nominal // set for arrays
	Generics     []*GenericParam
	UsesGenerics bool
	Primitive    bool
	Placeholder  bool // type variable such as T
	IsInterface  bool
	Resolved     bool // false for names the environment could not resolve

	redirect     *Nominal
	super        *Nominal
	interfaces   []*Nominal
	methods      []*Method
	constructors []*Method
	fields       []*Field
}

func (*Nominal) typeNode() {}

// NewNominal creates a resolved class type.
func NewNominal(name string) *Nominal {
	return &Nominal{TypeName: name, Resolved: true}
}

// NewInterface creates a resolved interface type.
func NewInterface(name string) *Nominal {
	return &Nominal{TypeName: name, Resolved: true, IsInterface: true}
}

// TypeVar creates a type variable placeholder such as T.
func TypeVar(name string) *Nominal {
	return &Nominal{TypeName: name, Placeholder: true, Resolved: true}
}

// Unresolved creates the placeholder used for a name the current
// environment cannot resolve. It carries only the name.
func Unresolved(name string) *Nominal {
	return &Nominal{TypeName: name}
}

// ArrayOf creates the array type of component.
func ArrayOf(component *Nominal) *Nominal {
	return &Nominal{
		TypeName:  component.TypeName + "[]",
		Component: component,
		Resolved:  component.Resolved,
	}
}

// Parameterize creates a generic use of base with the given arguments.
func Parameterize(base *Nominal, args ...*GenericParam) *Nominal {
	target := base.target()
	return &Nominal{
		TypeName:     target.TypeName,
		Generics:     args,
		UsesGenerics: true,
		Primitive:    target.Primitive,
		Placeholder:  target.Placeholder,
		IsInterface:  target.IsInterface,
		Resolved:     target.Resolved,
		redirect:     target,
	}
}

func (n *Nominal) target() *Nominal {
	for n.redirect != nil {
		n = n.redirect
	}
	return n
}

// Name returns the type name.
func (n *Nominal) Name() string { return n.TypeName }

func (n *Nominal) String() string {
	if n.Component != nil {
		return n.Component.String() + "[]"
	}
	if len(n.Generics) == 0 {
		return n.TypeName
	}
	args := make([]string, len(n.Generics))
	for i, g := range n.Generics {
		args[i] = g.String()
	}
	return fmt.Sprintf("%s<%s>", n.TypeName, strings.Join(args, ", "))
}

// IsArray reports whether n is an array type.
func (n *Nominal) IsArray() bool { return n.Component != nil }

// ComponentType returns the element type of an array, or nil.
func (n *Nominal) ComponentType() *Nominal { return n.Component }

// Superclass returns the declared superclass, or nil.
func (n *Nominal) Superclass() *Nominal { return n.target().super }

// Interfaces returns the directly declared interfaces.
func (n *Nominal) Interfaces() []*Nominal {
	return append([]*Nominal(nil), n.target().interfaces...)
}

// Methods returns the declared methods.
func (n *Nominal) Methods() []*Method {
	return append([]*Method(nil), n.target().methods...)
}

// Constructors returns the declared constructors.
func (n *Nominal) Constructors() []*Method {
	return append([]*Method(nil), n.target().constructors...)
}

// Fields returns the declared fields.
func (n *Nominal) Fields() []*Field {
	return append([]*Field(nil), n.target().fields...)
}

// Field looks up a field declared on n or inherited from a superclass.
func (n *Nominal) Field(name string) *Field {
	for c := n.target(); c != nil; c = c.Superclass() {
		for _, f := range c.target().fields {
			if f.Name == name {
				return f
			}
		}
	}
	return nil
}

// SetSuperclass sets the superclass of a declared type.
func (n *Nominal) SetSuperclass(super *Nominal) { n.target().super = super }

// AddInterface adds a directly implemented interface.
func (n *Nominal) AddInterface(iface *Nominal) {
	t := n.target()
	t.interfaces = append(t.interfaces, iface)
}

// AddMethod declares m on n.
func (n *Nominal) AddMethod(m *Method) {
	t := n.target()
	if m.DeclaringType == nil {
		m.DeclaringType = t
	}
	t.methods = append(t.methods, m)
}

// AddConstructor declares a constructor on n.
func (n *Nominal) AddConstructor(m *Method) {
	t := n.target()
	if m.DeclaringType == nil {
		m.DeclaringType = t
	}
	t.constructors = append(t.constructors, m)
}

// AddField declares f on n.
func (n *Nominal) AddField(f *Field) {
	t := n.target()
	if f.DeclaringType == nil {
		f.DeclaringType = t
	}
	t.fields = append(t.fields, f)
}

// DerivedFrom reports whether n is name or has it as a superclass.
func (n *Nominal) DerivedFrom(name string) bool {
	for c := n; c != nil; c = c.Superclass() {
		if c.TypeName == name {
			return true
		}
	}
	return false
}

// Implements reports whether n, its superclasses or their interfaces
// implement the named interface.
func (n *Nominal) Implements(name string) bool {
	for c := n; c != nil; c = c.Superclass() {
		for _, i := range c.Interfaces() {
			if i.TypeName == name || i.Implements(name) {
				return true
			}
		}
	}
	return false
}

// AllInterfaces returns every interface n implements, transitively,
// in declaration order without duplicates.
func (n *Nominal) AllInterfaces() []*Nominal {
	var out []*Nominal
	seen := map[string]bool{}
	var walk func(*Nominal)
	walk = func(c *Nominal) {
		for _, i := range c.Interfaces() {
			if !seen[i.TypeName] {
				seen[i.TypeName] = true
				out = append(out, i)
			}
			walk(i)
		}
	}
	for c := n; c != nil; c = c.Superclass() {
		walk(c)
	}
	return out
}

// Union is a synthetic type: exactly one of its members, statically
// indistinguishable. Only the checker constructs unions.
type Union struct {
	members []Type

	primary      bool
	hierarchySet bool
	super        *Nominal
	interfaces   []*Nominal
}

func (*Union) typeNode() {}

// NewUnion creates a union over members. Zero members is invalid.
func NewUnion(members ...Type) (*Union, error) {
	if len(members) == 0 {
		return nil, newInvalidAlgebra("NewUnion", "union needs at least one member")
	}
	for i, m := range members {
		if m == nil {
			return nil, newInvalidAlgebra("NewUnion", "member %d is nil", i)
		}
	}
	return &Union{members: append([]Type(nil), members...)}, nil
}

// NewPrimaryUnion creates a union whose superclass and interfaces may be
// set exactly once with SetHierarchy.
func NewPrimaryUnion(members ...Type) (*Union, error) {
	u, err := NewUnion(members...)
	if err != nil {
		return nil, err
	}
	u.primary = true
	return u, nil
}

// SetHierarchy sets the declared superclass and interfaces of a primary
// union. It fails on a non-primary union and on every call after the first.
func (u *Union) SetHierarchy(super *Nominal, interfaces []*Nominal) error {
	if !u.primary {
		return newInvalidAlgebra("SetHierarchy", "%s is read-only", u.Name())
	}
	if u.hierarchySet {
		return newInvalidAlgebra("SetHierarchy", "hierarchy of %s already set", u.Name())
	}
	u.hierarchySet = true
	u.super = super
	u.interfaces = append([]*Nominal(nil), interfaces...)
	return nil
}

// Delegates returns the union members in construction order.
func (u *Union) Delegates() []Type {
	return append([]Type(nil), u.members...)
}

func (u *Union) Name() string {
	names := make([]string, len(u.members))
	for i, m := range u.members {
		names[i] = m.Name()
	}
	return "<UnionType:" + strings.Join(names, "+") + ">"
}

func (u *Union) String() string { return u.Name() }

// Superclass returns the superclass set through SetHierarchy, or Object.
func (u *Union) Superclass() *Nominal {
	if u.hierarchySet && u.super != nil {
		return u.super
	}
	return ObjectType
}

// Interfaces returns the set-union of the members' interfaces, in member
// order, de-duplicated by name. A hierarchy set on a primary union wins.
func (u *Union) Interfaces() []*Nominal {
	if u.hierarchySet {
		return append([]*Nominal(nil), u.interfaces...)
	}
	var out []*Nominal
	seen := map[string]bool{}
	for _, m := range u.members {
		for _, i := range InterfacesOf(m) {
			if !seen[i.TypeName] {
				seen[i.TypeName] = true
				out = append(out, i)
			}
		}
	}
	return out
}

// Methods returns the methods of every member, concatenated.
func (u *Union) Methods() []*Method {
	var out []*Method
	for _, m := range u.members {
		out = append(out, MethodsOf(m)...)
	}
	return out
}

// Field returns the first member field with the given name.
func (u *Union) Field(name string) *Field {
	for _, m := range u.members {
		if f := FieldOf(m, name); f != nil {
			return f
		}
	}
	return nil
}

// DerivedFrom reports whether any member derives from name.
func (u *Union) DerivedFrom(name string) bool {
	for _, m := range u.members {
		if DerivedFrom(m, name) {
			return true
		}
	}
	return false
}

// Implements reports whether any member implements the named interface.
func (u *Union) Implements(name string) bool {
	for _, m := range u.members {
		if Implements(m, name) {
			return true
		}
	}
	return false
}

// LUB is a synthetic least upper bound: a computed common ancestor of two
// or more types for which no exact nominal ancestor exists. Read-only.
type LUB struct {
	displayName string
	upper       Type
	interfaces  []Type
	hasIfaces   bool
}

func (*LUB) typeNode() {}

// NewLUB creates a least upper bound node. A nil interfaces slice means
// no interface list at all; an empty one means an empty list.
func NewLUB(displayName string, upper Type, interfaces []Type) (*LUB, error) {
	if upper == nil {
		return nil, newInvalidAlgebra("NewLUB", "%s has no upper type", displayName)
	}
	l := &LUB{displayName: displayName, upper: upper}
	if interfaces != nil {
		l.hasIfaces = true
		l.interfaces = append([]Type{}, interfaces...)
	}
	return l, nil
}

func (l *LUB) Name() string   { return l.displayName }
func (l *LUB) String() string { return l.displayName }

// Upper returns the upper (superclass) type.
func (l *LUB) Upper() Type { return l.upper }

// Interfaces returns the interface list, or nil when absent.
func (l *LUB) Interfaces() []Type {
	if !l.hasIfaces {
		return nil
	}
	return append([]Type{}, l.interfaces...)
}

// InterfacesOf returns the interfaces declared by any type descriptor.
func InterfacesOf(t Type) []*Nominal {
	switch t := t.(type) {
	case *Nominal:
		return t.Interfaces()
	case *Union:
		return t.Interfaces()
	case *LUB:
		var out []*Nominal
		for _, i := range t.interfaces {
			if n, ok := i.(*Nominal); ok {
				out = append(out, n)
			}
		}
		return out
	default:
		panic(fmt.Sprintf("impossible type: %T", t))
	}
}

// MethodsOf returns the methods visible on any type descriptor.
func MethodsOf(t Type) []*Method {
	switch t := t.(type) {
	case *Nominal:
		return t.Methods()
	case *Union:
		return t.Methods()
	case *LUB:
		return MethodsOf(t.upper)
	default:
		panic(fmt.Sprintf("impossible type: %T", t))
	}
}

// FieldOf looks a field up on any type descriptor.
func FieldOf(t Type, name string) *Field {
	switch t := t.(type) {
	case *Nominal:
		return t.Field(name)
	case *Union:
		return t.Field(name)
	case *LUB:
		return FieldOf(t.upper, name)
	default:
		panic(fmt.Sprintf("impossible type: %T", t))
	}
}

// DerivedFrom reports whether t derives from the named class.
func DerivedFrom(t Type, name string) bool {
	switch t := t.(type) {
	case *Nominal:
		return t.DerivedFrom(name)
	case *Union:
		return t.DerivedFrom(name)
	case *LUB:
		return DerivedFrom(t.upper, name)
	default:
		panic(fmt.Sprintf("impossible type: %T", t))
	}
}

// Implements reports whether t implements the named interface.
func Implements(t Type, name string) bool {
	switch t := t.(type) {
	case *Nominal:
		return t.Implements(name)
	case *Union:
		return t.Implements(name)
	case *LUB:
		for _, i := range t.interfaces {
			if i.Name() == name || Implements(i, name) {
				return true
			}
		}
		return Implements(t.upper, name)
	default:
		panic(fmt.Sprintf("impossible type: %T", t))
	}
}

// IsArray reports whether t is an array type.
func IsArray(t Type) bool {
	n, ok := t.(*Nominal)
	return ok && n.IsArray()
}
