package typesystem

import (
	"sort"
	"sync"

	"github.com/funvibe/stc/internal/config"
)

// Primitive and void types. Each has a single-character descriptor code.
var (
	IntType     = primitive("int")
	LongType    = primitive("long")
	ShortType   = primitive("short")
	ByteType    = primitive("byte")
	CharType    = primitive("char")
	BooleanType = primitive("boolean")
	FloatType   = primitive("float")
	DoubleType  = primitive("double")
	VoidType    = primitive("void")
)

var primitiveCodes = map[string]byte{
	"int":     'I',
	"long":    'J',
	"short":   'S',
	"byte":    'B',
	"char":    'C',
	"boolean": 'Z',
	"float":   'F',
	"double":  'D',
	"void":    'V',
}

var primitivesByCode = map[byte]*Nominal{
	'I': IntType,
	'J': LongType,
	'S': ShortType,
	'B': ByteType,
	'C': CharType,
	'Z': BooleanType,
	'F': FloatType,
	'D': DoubleType,
	'V': VoidType,
}

func primitive(name string) *Nominal {
	return &Nominal{TypeName: name, Primitive: true, Resolved: true}
}

// PrimitiveCode returns the descriptor code of a primitive or void type.
func PrimitiveCode(n *Nominal) (byte, bool) {
	if !n.Primitive {
		return 0, false
	}
	c, ok := primitiveCodes[n.TypeName]
	return c, ok
}

// PrimitiveByCode maps a descriptor code back to its built-in type.
func PrimitiveByCode(code byte) (*Nominal, bool) {
	n, ok := primitivesByCode[code]
	return n, ok
}

// Built-in reference types. They are shared by every Registry and must be
// treated as read-only once initialized.
var (
	ObjectType         = NewNominal(config.ObjectTypeName)
	SerializableType   = NewInterface(config.SerializableTypeName)
	ComparableType     = NewInterface(config.ComparableTypeName)
	CharSequenceType   = NewInterface(config.CharSequenceTypeName)
	IterableType       = NewInterface(config.IterableTypeName)
	CollectionType     = NewInterface(config.CollectionTypeName)
	ListType           = NewInterface(config.ListTypeName)
	MapType            = NewInterface(config.MapTypeName)
	StringType         = NewNominal(config.StringTypeName)
	NumberType         = NewNominal(config.NumberTypeName)
	IntegerType        = NewNominal(config.IntegerTypeName)
	LongWrapperType    = NewNominal("Long")
	DoubleWrapperType  = NewNominal("Double")
	BooleanWrapperType = NewNominal(config.BooleanTypeName)
	ClosureType        = NewNominal(config.ClosureTypeName)
)

// Built-in default method providers.
var (
	DefaultMethodsType       = NewNominal(config.DefaultMethodsTypeName)
	StringDefaultMethodsType = NewNominal(config.StringDefaultMethodsTypeName)
	StaticDefaultMethodsType = NewNominal(config.StaticDefaultMethodsTypeName)
)

var builtins []*Nominal

func init() {
	for _, i := range []*Nominal{SerializableType, ComparableType, CharSequenceType, IterableType} {
		i.SetSuperclass(ObjectType)
	}
	CollectionType.SetSuperclass(ObjectType)
	CollectionType.AddInterface(IterableType)
	CollectionType.Generics = []*GenericParam{{Type: TypeVar("E"), Placeholder: true}}
	ListType.SetSuperclass(ObjectType)
	ListType.AddInterface(CollectionType)
	ListType.Generics = []*GenericParam{{Type: TypeVar("E"), Placeholder: true}}
	MapType.SetSuperclass(ObjectType)
	MapType.Generics = []*GenericParam{
		{Type: TypeVar("K"), Placeholder: true},
		{Type: TypeVar("V"), Placeholder: true},
	}

	StringType.SetSuperclass(ObjectType)
	StringType.AddInterface(SerializableType)
	StringType.AddInterface(ComparableType)
	StringType.AddInterface(CharSequenceType)
	StringType.AddMethod(&Method{Name: "length", ReturnType: IntType, Public: true})

	NumberType.SetSuperclass(ObjectType)
	NumberType.AddInterface(SerializableType)
	for _, w := range []*Nominal{IntegerType, LongWrapperType, DoubleWrapperType} {
		w.SetSuperclass(NumberType)
		w.AddInterface(ComparableType)
	}
	BooleanWrapperType.SetSuperclass(ObjectType)
	BooleanWrapperType.AddInterface(SerializableType)
	BooleanWrapperType.AddInterface(ComparableType)
	ClosureType.SetSuperclass(ObjectType)

	DefaultMethodsType.SetSuperclass(ObjectType)
	DefaultMethodsType.AddMethod(&Method{
		Name:       "each",
		Params:     []Param{{Name: "self", Type: ObjectType}, {Name: "closure", Type: ClosureType}},
		ReturnType: ObjectType,
		Static:     true,
		Public:     true,
	})
	DefaultMethodsType.AddMethod(&Method{
		Name:       "collect",
		Params:     []Param{{Name: "self", Type: IterableType}, {Name: "closure", Type: ClosureType}},
		ReturnType: ListType,
		Static:     true,
		Public:     true,
	})
	DefaultMethodsType.AddMethod(&Method{
		Name:       "inspect",
		Params:     []Param{{Name: "self", Type: ObjectType}},
		ReturnType: StringType,
		Static:     true,
		Public:     true,
	})
	DefaultMethodsType.AddMethod(&Method{
		Name:        "getAt",
		Params:      []Param{{Name: "self", Type: ObjectType}, {Name: "property", Type: StringType}},
		ReturnType:  ObjectType,
		Static:      true,
		Public:      true,
		Annotations: []string{config.DeprecatedAnnotation},
	})
	// not static, never an extension method
	DefaultMethodsType.AddMethod(&Method{Name: "toString", ReturnType: StringType, Public: true})

	StringDefaultMethodsType.SetSuperclass(ObjectType)
	StringDefaultMethodsType.AddMethod(&Method{
		Name:       "size",
		Params:     []Param{{Name: "self", Type: CharSequenceType}},
		ReturnType: IntType,
		Static:     true,
		Public:     true,
	})
	StringDefaultMethodsType.AddMethod(&Method{
		Name:       "reverse",
		Params:     []Param{{Name: "self", Type: StringType}},
		ReturnType: StringType,
		Static:     true,
		Public:     true,
	})
	StringDefaultMethodsType.AddMethod(&Method{
		Name:       "capitalize",
		Params:     []Param{{Name: "self", Type: StringType}},
		ReturnType: StringType,
		Static:     true,
		Public:     true,
	})
	// no receiver parameter
	StringDefaultMethodsType.AddMethod(&Method{
		Name:       "emptyString",
		ReturnType: StringType,
		Static:     true,
		Public:     true,
	})

	StaticDefaultMethodsType.SetSuperclass(ObjectType)
	StaticDefaultMethodsType.AddMethod(&Method{
		Name:       "sleep",
		Params:     []Param{{Name: "self", Type: ObjectType}, {Name: "millis", Type: LongType}},
		ReturnType: VoidType,
		Static:     true,
		Public:     true,
	})

	builtins = []*Nominal{
		ObjectType, SerializableType, ComparableType, CharSequenceType,
		IterableType, CollectionType, ListType, MapType,
		StringType, NumberType, IntegerType, LongWrapperType, DoubleWrapperType,
		BooleanWrapperType, ClosureType,
		DefaultMethodsType, StringDefaultMethodsType, StaticDefaultMethodsType,
	}
}

// Resolver resolves type names in one environment.
type Resolver interface {
	Resolve(name string) (*Nominal, bool)
}

// Registry is the name table of one environment. It is preloaded with the
// built-in types and is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Nominal
}

// NewRegistry creates a registry holding the built-in types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]*Nominal)}
	for _, b := range builtins {
		r.types[b.TypeName] = b
	}
	for name, p := range primitiveCodes {
		r.types[name] = primitivesByCode[p]
	}
	return r
}

// Define adds n to the registry, replacing any type with the same name.
func (r *Registry) Define(n *Nominal) *Nominal {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[n.TypeName] = n
	return n
}

// Declare creates and registers a class extending super (Object when nil).
func (r *Registry) Declare(name string, super *Nominal, interfaces ...*Nominal) *Nominal {
	n := NewNominal(name)
	if super == nil {
		super = ObjectType
	}
	n.SetSuperclass(super)
	for _, i := range interfaces {
		n.AddInterface(i)
	}
	return r.Define(n)
}

// Resolve implements Resolver.
func (r *Registry) Resolve(name string) (*Nominal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.types[name]
	return n, ok
}

// Object returns the root class of the registry.
func (r *Registry) Object() *Nominal {
	if n, ok := r.Resolve(config.ObjectTypeName); ok {
		return n
	}
	return ObjectType
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty is a Resolver that resolves nothing.
type Empty struct{}

func (Empty) Resolve(string) (*Nominal, bool) { return nil, false }
