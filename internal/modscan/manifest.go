package modscan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/stc/internal/config"
	"github.com/funvibe/stc/internal/typesystem"
)

// Manifest is the content of an *.extmodule.yaml file.
type Manifest struct {
	// ModuleName identifies the module. Required.
	ModuleName string `yaml:"moduleName"`

	// ModuleVersion defaults to "0.0.0".
	ModuleVersion string `yaml:"moduleVersion,omitempty"`

	// ExtensionClasses are providers of instance extension methods.
	ExtensionClasses []string `yaml:"extensionClasses,omitempty"`

	// StaticExtensionClasses are providers of static extension methods.
	StaticExtensionClasses []string `yaml:"staticExtensionClasses,omitempty"`

	// Classes declares provider types so an environment can resolve them.
	// Providers may also be declared elsewhere in the environment.
	Classes []ClassSpec `yaml:"classes,omitempty"`

	path string
}

// ClassSpec declares a type and its methods.
type ClassSpec struct {
	Name       string       `yaml:"name"`
	Super      string       `yaml:"super,omitempty"`
	Interfaces []string     `yaml:"interfaces,omitempty"`
	Interface  bool         `yaml:"interface,omitempty"`
	Methods    []MethodSpec `yaml:"methods,omitempty"`
}

// MethodSpec declares a method. Types use the ParseType syntax.
type MethodSpec struct {
	Name       string   `yaml:"name"`
	Params     []string `yaml:"params,omitempty"`
	Returns    string   `yaml:"returns,omitempty"`
	Static     bool     `yaml:"static,omitempty"`
	Private    bool     `yaml:"private,omitempty"`
	Deprecated bool     `yaml:"deprecated,omitempty"`
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return ParseManifest(data, path)
}

// ParseManifest parses manifest content. The path is used for error messages.
func ParseManifest(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := m.validate(path); err != nil {
		return nil, err
	}
	m.setDefaults()
	m.path = path
	return &m, nil
}

// Path returns the file the manifest was read from.
func (m *Manifest) Path() string { return m.path }

// Module returns the provider module described by the manifest.
func (m *Manifest) Module() *ProviderModule {
	return &ProviderModule{
		ModuleName:             m.ModuleName,
		ModuleVersion:          m.ModuleVersion,
		ExtensionClasses:       append([]string(nil), m.ExtensionClasses...),
		StaticExtensionClasses: append([]string(nil), m.StaticExtensionClasses...),
	}
}

func (m *Manifest) validate(path string) error {
	if strings.TrimSpace(m.ModuleName) == "" {
		return fmt.Errorf("%s: moduleName is required", path)
	}
	for i, c := range m.ExtensionClasses {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%s: extensionClasses[%d]: empty class name", path, i)
		}
	}
	for i, c := range m.StaticExtensionClasses {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%s: staticExtensionClasses[%d]: empty class name", path, i)
		}
	}
	seen := make(map[string]bool)
	for i, c := range m.Classes {
		if c.Name == "" {
			return fmt.Errorf("%s: classes[%d]: name is required", path, i)
		}
		if seen[c.Name] {
			return fmt.Errorf("%s: classes[%d]: duplicate class %q", path, i, c.Name)
		}
		seen[c.Name] = true
		for j, meth := range c.Methods {
			if meth.Name == "" {
				return fmt.Errorf("%s: classes[%d].methods[%d]: name is required", path, i, j)
			}
		}
	}
	return nil
}

func (m *Manifest) setDefaults() {
	if m.ModuleVersion == "" {
		m.ModuleVersion = "0.0.0"
	}
}

// IsManifest reports whether name has a manifest file suffix.
func IsManifest(name string) bool {
	for _, ext := range config.ManifestFileExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// FindManifests returns the manifest files under dir, sorted by path.
func FindManifests(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsManifest(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadManifests loads every manifest under dir.
func LoadManifests(dir string) ([]*Manifest, error) {
	paths, err := FindManifests(dir)
	if err != nil {
		return nil, err
	}
	manifests := make([]*Manifest, 0, len(paths))
	for _, p := range paths {
		m, err := LoadManifest(p)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// DefineClasses declares the classes of every manifest in reg. All names
// are declared first so classes may refer to each other in any order.
// When several manifests declare the same class the first one wins and
// later declarations are ignored, like duplicate modules.
func DefineClasses(reg *typesystem.Registry, manifests ...*Manifest) error {
	type declaration struct {
		node     *typesystem.Nominal
		spec     ClassSpec
		manifest *Manifest
	}
	var order []declaration
	seen := make(map[string]bool)
	for _, m := range manifests {
		for _, c := range m.Classes {
			if seen[c.Name] {
				continue
			}
			seen[c.Name] = true
			n := typesystem.NewNominal(c.Name)
			n.IsInterface = c.Interface
			order = append(order, declaration{node: reg.Define(n), spec: c, manifest: m})
		}
	}
	for _, d := range order {
		if err := defineMembers(reg, d.node, d.spec); err != nil {
			return fmt.Errorf("%s: class %s: %w", d.manifest.path, d.spec.Name, err)
		}
	}
	return nil
}

func defineMembers(reg *typesystem.Registry, n *typesystem.Nominal, c ClassSpec) error {
	super := typesystem.ObjectType
	if c.Super != "" {
		s, err := typesystem.ParseType(reg, c.Super)
		if err != nil {
			return err
		}
		super = s
	}
	n.SetSuperclass(super)
	for _, name := range c.Interfaces {
		i, err := typesystem.ParseType(reg, name)
		if err != nil {
			return err
		}
		n.AddInterface(i)
	}
	for _, spec := range c.Methods {
		m, err := buildMethod(reg, spec)
		if err != nil {
			return fmt.Errorf("method %s: %w", spec.Name, err)
		}
		n.AddMethod(m)
	}
	return nil
}

func buildMethod(reg *typesystem.Registry, spec MethodSpec) (*typesystem.Method, error) {
	m := &typesystem.Method{
		Name:   spec.Name,
		Static: spec.Static,
		Public: !spec.Private,
	}
	if spec.Deprecated {
		m.Annotations = append(m.Annotations, config.DeprecatedAnnotation)
	}
	for i, p := range spec.Params {
		t, err := typesystem.ParseType(reg, p)
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, typesystem.Param{Name: fmt.Sprintf("arg%d", i), Type: t})
	}
	returns := spec.Returns
	if returns == "" {
		returns = "void"
	}
	t, err := typesystem.ParseType(reg, returns)
	if err != nil {
		return nil, err
	}
	m.ReturnType = t
	return m, nil
}
