package signature

import (
	"strings"

	"github.com/funvibe/stc/internal/typesystem"
)

// Descriptor returns the canonical descriptor string of a non-array
// nominal type: a single character for primitives and void, "TName;" for
// type variables and "Lpkg/Name;" for everything else.
func Descriptor(n *typesystem.Nominal) string {
	if code, ok := typesystem.PrimitiveCode(n); ok {
		return string(code)
	}
	name := strings.ReplaceAll(n.TypeName, ".", "/")
	if n.Placeholder {
		return "T" + name + ";"
	}
	return "L" + name + ";"
}

// fromDescriptor maps a descriptor back to a nominal type. Primitives need
// no environment; names the resolver cannot find become unresolved
// placeholders.
func fromDescriptor(desc string, r typesystem.Resolver) *typesystem.Nominal {
	if len(desc) == 1 {
		if p, ok := typesystem.PrimitiveByCode(desc[0]); ok {
			return p
		}
		panic(corruptf("unknown primitive code %q", desc))
	}
	if len(desc) < 3 || desc[len(desc)-1] != ';' {
		panic(corruptf("bad descriptor %q", desc))
	}
	name := strings.ReplaceAll(desc[1:len(desc)-1], "/", ".")
	switch desc[0] {
	case 'T':
		return typesystem.TypeVar(name)
	case 'L':
		if r != nil {
			if n, ok := r.Resolve(name); ok {
				return n
			}
		}
		return typesystem.Unresolved(name)
	default:
		panic(corruptf("bad descriptor %q", desc))
	}
}
