package extmethods

import (
	"fmt"
	"strings"

	"github.com/funvibe/stc/internal/typesystem"
)

// ExtensionMethod is a provider method seen as a method of its first
// parameter's type.
type ExtensionMethod struct {
	// Method is the originating provider method.
	Method *typesystem.Method
	// Provider declares Method.
	Provider *typesystem.Nominal
	// Receiver is the type of Method's first parameter.
	Receiver typesystem.Type
	// Params are Method's parameters without the receiver.
	Params []typesystem.Param
	// Static is set for methods contributed by a static provider; they are
	// called on the receiver type rather than on an instance.
	Static bool
}

func newExtensionMethod(provider *typesystem.Nominal, m *typesystem.Method, static bool) *ExtensionMethod {
	return &ExtensionMethod{
		Method:   m,
		Provider: provider,
		Receiver: m.Params[0].Type,
		Params:   append([]typesystem.Param(nil), m.Params[1:]...),
		Static:   static,
	}
}

// Name returns the method name.
func (e *ExtensionMethod) Name() string { return e.Method.Name }

// ReturnType returns the type returned by the originating method.
func (e *ExtensionMethod) ReturnType() typesystem.Type { return e.Method.ReturnType }

func (e *ExtensionMethod) String() string {
	var sb strings.Builder
	if e.Static {
		sb.WriteString("static ")
	}
	fmt.Fprintf(&sb, "%s.%s(", e.Receiver, e.Method.Name)
	for i, p := range e.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.String())
	}
	sb.WriteString(")")
	if e.Method.ReturnType != nil {
		sb.WriteString(" ")
		sb.WriteString(e.Method.ReturnType.String())
	}
	return sb.String()
}

// Table maps grouping keys, by default receiver type names, to extension
// methods. A Table never changes after it is built.
type Table struct {
	keys    []string
	methods map[string][]*ExtensionMethod
}

func newTable() *Table {
	return &Table{methods: make(map[string][]*ExtensionMethod)}
}

func (t *Table) add(key string, m *ExtensionMethod) {
	if _, ok := t.methods[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.methods[key] = append(t.methods[key], m)
}

// Methods returns the methods grouped under key in encounter order.
func (t *Table) Methods(key string) []*ExtensionMethod {
	return append([]*ExtensionMethod(nil), t.methods[key]...)
}

// Keys returns the grouping keys in order of first encounter.
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of methods in the table.
func (t *Table) Len() int {
	n := 0
	for _, ms := range t.methods {
		n += len(ms)
	}
	return n
}
