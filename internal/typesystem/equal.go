package typesystem

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Equal reports whether a and b are structurally equal: same variant and
// recursively equal fields. Union members compare in order. For nominal
// types the name, array component, generics and resolution status count;
// hierarchy and members belong to the environment and do not.
func Equal(a, b Type) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	switch a := a.(type) {
	case *Nominal:
		b, ok := b.(*Nominal)
		return ok && nominalEqual(a, b)
	case *Union:
		b, ok := b.(*Union)
		return ok && typesEqual(a.members, b.members)
	case *LUB:
		b, ok := b.(*LUB)
		return ok &&
			a.displayName == b.displayName &&
			Equal(a.upper, b.upper) &&
			a.hasIfaces == b.hasIfaces &&
			typesEqual(a.interfaces, b.interfaces)
	default:
		panic(fmt.Sprintf("impossible type: %T", a))
	}
}

func isNil(t Type) bool {
	if t == nil {
		return true
	}
	switch t := t.(type) {
	case *Nominal:
		return t == nil
	case *Union:
		return t == nil
	case *LUB:
		return t == nil
	}
	return false
}

func nominalEqual(a, b *Nominal) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.TypeName != b.TypeName ||
		a.Primitive != b.Primitive ||
		a.Placeholder != b.Placeholder ||
		a.Resolved != b.Resolved ||
		a.UsesGenerics != b.UsesGenerics {
		return false
	}
	if (a.Component == nil) != (b.Component == nil) {
		return false
	}
	if a.Component != nil && !nominalEqual(a.Component, b.Component) {
		return false
	}
	if len(a.Generics) != len(b.Generics) {
		return false
	}
	for i := range a.Generics {
		if !GenericEqual(a.Generics[i], b.Generics[i]) {
			return false
		}
	}
	return true
}

// GenericEqual compares two generic parameter records.
func GenericEqual(a, b *GenericParam) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Placeholder == b.Placeholder &&
		a.Wildcard == b.Wildcard &&
		Equal(a.Type, b.Type) &&
		Equal(a.Lower, b.Lower) &&
		(a.Upper == nil) == (b.Upper == nil) &&
		typesEqual(a.Upper, b.Upper)
}

func typesEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal.
func Hash(t Type) uint64 {
	h := fnv.New64a()
	var sb strings.Builder
	writeKey(&sb, t)
	h.Write([]byte(sb.String()))
	return h.Sum64()
}

// Key returns the canonical structural key of t. Two descriptors have the
// same key exactly when Equal holds.
func Key(t Type) string {
	var sb strings.Builder
	writeKey(&sb, t)
	return sb.String()
}

func writeKey(sb *strings.Builder, t Type) {
	if isNil(t) {
		sb.WriteString("_")
		return
	}
	switch t := t.(type) {
	case *Nominal:
		sb.WriteString("N(")
		sb.WriteString(strconv.Quote(t.TypeName))
		for _, flag := range []bool{t.Primitive, t.Placeholder, t.Resolved, t.UsesGenerics} {
			if flag {
				sb.WriteString(",1")
			} else {
				sb.WriteString(",0")
			}
		}
		if t.Component != nil {
			sb.WriteString(",[")
			writeKey(sb, t.Component)
		}
		for _, g := range t.Generics {
			sb.WriteString(",G(")
			writeGenericKey(sb, g)
			sb.WriteString(")")
		}
		sb.WriteString(")")
	case *Union:
		sb.WriteString("U(")
		for _, m := range t.members {
			writeKey(sb, m)
			sb.WriteString(";")
		}
		sb.WriteString(")")
	case *LUB:
		sb.WriteString("L(")
		sb.WriteString(strconv.Quote(t.displayName))
		sb.WriteString(",")
		writeKey(sb, t.upper)
		if t.hasIfaces {
			sb.WriteString(",I(")
			for _, i := range t.interfaces {
				writeKey(sb, i)
				sb.WriteString(";")
			}
			sb.WriteString(")")
		}
		sb.WriteString(")")
	default:
		panic(fmt.Sprintf("impossible type: %T", t))
	}
}

func writeGenericKey(sb *strings.Builder, g *GenericParam) {
	if g == nil {
		sb.WriteString("_")
		return
	}
	if g.Placeholder {
		sb.WriteString("p")
	}
	if g.Wildcard {
		sb.WriteString("w")
	}
	sb.WriteString(":")
	writeKey(sb, g.Type)
	sb.WriteString(":")
	writeKey(sb, g.Lower)
	if g.Upper != nil {
		sb.WriteString(":^")
		for _, u := range g.Upper {
			writeKey(sb, u)
			sb.WriteString(";")
		}
	}
}
