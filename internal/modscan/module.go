package modscan

// Module is a discovered extension module.
type Module interface {
	Name() string
	Version() string
}

// ProviderModule is a module contributing extension methods through
// provider types. Instance providers add methods callable on a receiver,
// static providers add methods callable on the receiver's type.
type ProviderModule struct {
	ModuleName             string
	ModuleVersion          string
	ExtensionClasses       []string
	StaticExtensionClasses []string
}

var _ Module = (*ProviderModule)(nil)

func (m *ProviderModule) Name() string    { return m.ModuleName }
func (m *ProviderModule) Version() string { return m.ModuleVersion }
