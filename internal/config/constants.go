package config

// ManifestFileExt is the suffix of extension module manifest files.
const ManifestFileExt = ".extmodule.yaml"

// ManifestFileExtensions are all recognized manifest file suffixes.
var ManifestFileExtensions = []string{ManifestFileExt, ".extmodule.yml"}

// SettingsFileName is the settings file looked up by the stc tool.
const SettingsFileName = "stc.yaml"

// Built-in type names
const (
	ObjectTypeName       = "Object"
	StringTypeName       = "String"
	NumberTypeName       = "Number"
	IntegerTypeName      = "Integer"
	BooleanTypeName      = "Boolean"
	ListTypeName         = "List"
	MapTypeName          = "Map"
	CollectionTypeName   = "Collection"
	IterableTypeName     = "Iterable"
	ComparableTypeName   = "Comparable"
	SerializableTypeName = "Serializable"
	CharSequenceTypeName = "CharSequence"
	ClosureTypeName      = "Closure"
)

// Built-in default method providers, always contributed by the
// default-methods extension cache.
const (
	DefaultMethodsTypeName       = "lang.DefaultMethods"
	StringDefaultMethodsTypeName = "lang.StringMethods"
	StaticDefaultMethodsTypeName = "lang.StaticDefaultMethods"
)

// Signature wire format
const (
	SignatureFormatVersion byte = 0x01
)

// DeprecatedAnnotation marks provider methods skipped by the default-methods cache.
const DeprecatedAnnotation = "Deprecated"
