package typesystem

import (
	"errors"
	"testing"
)

func names(ns []*Nominal) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Name()
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewUnion_Empty(t *testing.T) {
	if _, err := NewUnion(); !errors.Is(err, ErrInvalidAlgebra) {
		t.Fatalf("NewUnion() error = %v, want ErrInvalidAlgebra", err)
	}
	if _, err := NewPrimaryUnion(); !errors.Is(err, ErrInvalidAlgebra) {
		t.Fatalf("NewPrimaryUnion() error = %v, want ErrInvalidAlgebra", err)
	}
	if _, err := NewUnion(StringType, nil); !errors.Is(err, ErrInvalidAlgebra) {
		t.Fatalf("NewUnion with nil member error = %v, want ErrInvalidAlgebra", err)
	}
}

func TestUnion_Interfaces(t *testing.T) {
	u, err := NewUnion(StringType, IntegerType)
	if err != nil {
		t.Fatalf("NewUnion: %v", err)
	}
	got := names(u.Interfaces())
	want := []string{"Serializable", "Comparable", "CharSequence"}
	if !sameStrings(got, want) {
		t.Errorf("Interfaces() = %v, want %v", got, want)
	}

	// set union is membership preserving regardless of member order
	u2, _ := NewUnion(IntegerType, StringType)
	got2 := names(u2.Interfaces())
	want2 := []string{"Comparable", "Serializable", "CharSequence"}
	if !sameStrings(got2, want2) {
		t.Errorf("Interfaces() = %v, want %v", got2, want2)
	}
}

func TestUnion_Views(t *testing.T) {
	reg := NewRegistry()
	a := reg.Declare("A", nil)
	a.AddField(&Field{Name: "x", Type: IntType})
	a.AddMethod(&Method{Name: "foo", Public: true, ReturnType: VoidType})
	b := reg.Declare("B", a)
	b.AddMethod(&Method{Name: "bar", Public: true, ReturnType: VoidType})
	c := reg.Declare("C", nil, SerializableType)

	u, err := NewUnion(b, c)
	if err != nil {
		t.Fatal(err)
	}
	if u.Name() != "<UnionType:B+C>" {
		t.Errorf("Name() = %q", u.Name())
	}
	if len(u.Delegates()) != 2 {
		t.Errorf("Delegates() len = %d, want 2", len(u.Delegates()))
	}
	if f := u.Field("x"); f == nil || f.DeclaringType != a {
		t.Errorf("Field(x) = %v, want field inherited from A", f)
	}
	if !u.DerivedFrom("A") {
		t.Error("union should derive from A through B")
	}
	if !u.Implements("Serializable") {
		t.Error("union should implement Serializable through C")
	}
	if len(u.Methods()) != 1 || u.Methods()[0].Name != "bar" {
		t.Errorf("Methods() = %v, want declared methods of members", u.Methods())
	}
	if u.Superclass() != ObjectType {
		t.Errorf("Superclass() = %v, want Object", u.Superclass())
	}

	// the delegate view is a copy
	d := u.Delegates()
	d[0] = StringType
	if u.Delegates()[0] != Type(b) {
		t.Error("mutating Delegates() leaked into the union")
	}
}

func TestUnion_SetHierarchy(t *testing.T) {
	u, _ := NewUnion(StringType, IntegerType)
	if err := u.SetHierarchy(NumberType, nil); !errors.Is(err, ErrInvalidAlgebra) {
		t.Fatalf("SetHierarchy on non-primary union: err = %v, want ErrInvalidAlgebra", err)
	}

	p, _ := NewPrimaryUnion(StringType, IntegerType)
	if err := p.SetHierarchy(NumberType, []*Nominal{ComparableType}); err != nil {
		t.Fatalf("first SetHierarchy: %v", err)
	}
	if p.Superclass() != NumberType {
		t.Errorf("Superclass() = %v, want Number", p.Superclass())
	}
	if got := names(p.Interfaces()); !sameStrings(got, []string{"Comparable"}) {
		t.Errorf("Interfaces() = %v, want [Comparable]", got)
	}
	if err := p.SetHierarchy(ObjectType, nil); !errors.Is(err, ErrInvalidAlgebra) {
		t.Fatalf("second SetHierarchy: err = %v, want ErrInvalidAlgebra", err)
	}
	if p.Superclass() != NumberType {
		t.Error("failed SetHierarchy must not change the hierarchy")
	}
}

func TestNewLUB(t *testing.T) {
	if _, err := NewLUB("x", nil, nil); !errors.Is(err, ErrInvalidAlgebra) {
		t.Fatalf("NewLUB without upper: err = %v", err)
	}
	l, err := NewLUB("Object_Comparable", ObjectType, []Type{ComparableType})
	if err != nil {
		t.Fatal(err)
	}
	if !Implements(l, "Comparable") {
		t.Error("LUB should implement its interfaces")
	}
	l2, _ := NewLUB("Object", ObjectType, nil)
	if l2.Interfaces() != nil {
		t.Error("absent interface list should stay nil")
	}
	l3, _ := NewLUB("Object", ObjectType, []Type{})
	if l3.Interfaces() == nil || Equal(l2, l3) {
		t.Error("empty interface list must differ from an absent one")
	}
}

func TestArrays(t *testing.T) {
	arr := ArrayOf(ArrayOf(IntType))
	if !arr.IsArray() || !IsArray(arr) {
		t.Fatal("expected array")
	}
	if arr.ComponentType().ComponentType() != IntType {
		t.Error("component chain broken")
	}
	if arr.String() != "int[][]" {
		t.Errorf("String() = %q", arr.String())
	}
	if StringType.IsArray() || IsArray(StringType) {
		t.Error("String is not an array")
	}
}

func TestEqual(t *testing.T) {
	listOf := func(arg Type) *Nominal { return Parameterize(ListType, &GenericParam{Type: arg}) }
	u1, _ := NewUnion(StringType, IntegerType)
	u2, _ := NewUnion(StringType, IntegerType)
	u3, _ := NewUnion(IntegerType, StringType)
	l1, _ := NewLUB("L", ObjectType, []Type{ComparableType})
	l2, _ := NewLUB("L", ObjectType, []Type{ComparableType})

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same pointer", StringType, StringType, true},
		{"distinct equal nominals", NewNominal("Foo"), NewNominal("Foo"), true},
		{"different names", NewNominal("Foo"), NewNominal("Bar"), false},
		{"resolution status", NewNominal("Foo"), Unresolved("Foo"), false},
		{"generic args", listOf(StringType), listOf(StringType), true},
		{"different generic args", listOf(StringType), listOf(IntegerType), false},
		{"raw vs parameterized", ListType, listOf(StringType), false},
		{"arrays", ArrayOf(StringType), ArrayOf(StringType), true},
		{"array vs component", ArrayOf(StringType), StringType, false},
		{"unions", u1, u2, true},
		{"union order matters", u1, u3, false},
		{"union vs nominal", u1, StringType, false},
		{"lubs", l1, l2, true},
		{"nil", nil, nil, true},
		{"nil vs type", nil, StringType, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if tt.want && Hash(tt.a) != Hash(tt.b) {
				t.Error("equal types must hash equally")
			}
			if tt.want != (Key(tt.a) == Key(tt.b)) {
				t.Error("Key must agree with Equal")
			}
		})
	}
}

func TestNominalHierarchy(t *testing.T) {
	if !IntegerType.DerivedFrom("Number") {
		t.Error("Integer derives from Number")
	}
	if !IntegerType.Implements("Serializable") {
		t.Error("Integer implements Serializable through Number")
	}
	if !ListType.Implements("Iterable") {
		t.Error("List implements Iterable through Collection")
	}
	p := Parameterize(ListType, &GenericParam{Type: StringType})
	if p.Superclass() != ListType.Superclass() || len(p.Interfaces()) != 1 {
		t.Error("parameterized type should redirect hierarchy to its declaration")
	}
}

func TestLowestUpperBound(t *testing.T) {
	reg := NewRegistry()
	animal := reg.Declare("Animal", nil)
	dog := reg.Declare("Dog", animal)
	cat := reg.Declare("Cat", animal)

	tests := []struct {
		name string
		a, b Type
		want string
	}{
		{"same", dog, dog, "Dog"},
		{"subtype", dog, animal, "Animal"},
		{"supertype", animal, cat, "Animal"},
		{"siblings", dog, cat, "Animal"},
		{"interface", IntegerType, ComparableType, "Comparable"},
		{"shared interfaces", StringType, IntegerType, "Object_Serializable_Comparable"},
		{"primitives", IntType, LongType, "Object"},
		{"nil left", nil, dog, "Dog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LowestUpperBound(tt.a, tt.b)
			if got.Name() != tt.want {
				t.Errorf("LowestUpperBound = %s, want %s", got.Name(), tt.want)
			}
		})
	}

	lub := LowestUpperBound(StringType, IntegerType)
	l, ok := lub.(*LUB)
	if !ok {
		t.Fatalf("expected *LUB, got %T", lub)
	}
	if l.Upper() != ObjectType || len(l.Interfaces()) != 2 {
		t.Errorf("unexpected LUB shape: upper=%v ifaces=%v", l.Upper(), l.Interfaces())
	}
}

func TestParseType(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		src  string
		want string
	}{
		{"String", "String"},
		{"int[]", "int[]"},
		{"List<String>", "List<String>"},
		{"List<Map<String, Integer>>[]", "List<Map<String, Integer>>[]"},
		{"List<? extends Number>", "List<? extends Number>"},
		{"Comparable<? super T>", "Comparable<? super T>"},
		{"Map<K extends Comparable & Serializable, V>", "Map<K extends Comparable & Serializable, V>"},
		{"com.acme.Widget", "com.acme.Widget"},
		{"Map<String,\n\tInteger>", "Map<String, Integer>"},
		{" List<String>\r\n", "List<String>"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n, err := ParseType(reg, tt.src)
			if err != nil {
				t.Fatalf("ParseType: %v", err)
			}
			if n.String() != tt.want {
				t.Errorf("String() = %q, want %q", n.String(), tt.want)
			}
		})
	}

	n, _ := ParseType(reg, "com.acme.Widget")
	if n.Resolved {
		t.Error("unknown name should be an unresolved placeholder")
	}
	tv, _ := ParseType(reg, "T")
	if !tv.Placeholder {
		t.Error("single upper-case letter should be a type variable")
	}

	for _, bad := range []string{"", "List<", "List<String", "int[", "<>", "List<String>>"} {
		if _, err := ParseType(reg, bad); err == nil {
			t.Errorf("ParseType(%q) should fail", bad)
		}
	}
}

func TestInvalidAlgebraError(t *testing.T) {
	_, err := NewUnion()
	var iae *InvalidAlgebraError
	if !errors.As(err, &iae) {
		t.Fatalf("expected *InvalidAlgebraError, got %T", err)
	}
	if iae.Op != "NewUnion" {
		t.Errorf("Op = %q", iae.Op)
	}
}
