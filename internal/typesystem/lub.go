package typesystem

import "strings"

// LUBFunc computes the lowest upper bound of two types.
type LUBFunc func(a, b Type) Type

// LowestUpperBound is the default LUBFunc. Equal types return a, a type
// deriving from the other returns the ancestor, anything else returns the
// common superclass, or a *LUB when the two also share interfaces the
// superclass does not implement.
func LowestUpperBound(a, b Type) Type {
	if isNil(a) {
		return b
	}
	if isNil(b) || Equal(a, b) {
		return a
	}
	na, nb := erase(a), erase(b)
	if na == nil || nb == nil {
		return ObjectType
	}
	if na.Primitive || nb.Primitive {
		if nominalEqual(na, nb) {
			return na
		}
		return ObjectType
	}
	if subtypeOf(na, nb) {
		return nb
	}
	if subtypeOf(nb, na) {
		return na
	}

	super := commonSuperclass(na, nb)
	var shared []Type
	var names []string
	for _, i := range na.AllInterfaces() {
		if (nb.TypeName == i.TypeName || nb.Implements(i.TypeName)) && !super.Implements(i.TypeName) {
			shared = append(shared, i)
			names = append(names, i.TypeName)
		}
	}
	if len(shared) == 0 {
		return super
	}
	if super.TypeName == ObjectType.TypeName && len(shared) == 1 {
		return shared[0]
	}
	lub, err := NewLUB(super.TypeName+"_"+strings.Join(names, "_"), super, shared)
	if err != nil {
		return super
	}
	return lub
}

// erase maps a descriptor to the nominal type used for hierarchy walks.
func erase(t Type) *Nominal {
	switch t := t.(type) {
	case *Nominal:
		return t
	case *Union:
		var acc Type
		for _, m := range t.members {
			acc = LowestUpperBound(acc, m)
		}
		return erase(acc)
	case *LUB:
		return erase(t.upper)
	}
	return nil
}

func subtypeOf(a, b *Nominal) bool {
	if b.IsInterface {
		return a.TypeName == b.TypeName || a.Implements(b.TypeName)
	}
	return a.DerivedFrom(b.TypeName)
}

func commonSuperclass(a, b *Nominal) *Nominal {
	for c := a; c != nil; c = c.Superclass() {
		if !c.IsInterface && b.DerivedFrom(c.TypeName) {
			return c
		}
	}
	return ObjectType
}
