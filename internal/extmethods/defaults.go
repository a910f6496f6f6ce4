package extmethods

import (
	"log"

	"github.com/funvibe/stc/internal/config"
	"github.com/funvibe/stc/internal/modscan"
	"github.com/funvibe/stc/internal/typesystem"
)

// DefaultProviders are the built-in providers of default methods.
var DefaultProviders = []Provider{
	{Type: typesystem.DefaultMethodsType},
	{Type: typesystem.StringDefaultMethodsType},
	{Type: typesystem.StaticDefaultMethodsType, Static: true},
}

// NotDeprecated rejects methods marked deprecated.
func NotDeprecated(m *typesystem.Method) bool {
	return !m.HasAnnotation(config.DeprecatedAnnotation)
}

// NewDefaultMethodsCache creates the cache used by the checker: the
// built-in providers come first and deprecated methods are dropped.
func NewDefaultMethodsCache(scanner modscan.Scanner, opts ...func(*Options)) *Cache {
	o := Options{
		Scanner:             scanner,
		AdditionalProviders: DefaultProviders,
		Filter:              NotDeprecated,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return New(o)
}

// WithLogger sets the logger of a default-methods cache.
func WithLogger(l *log.Logger) func(*Options) {
	return func(o *Options) { o.Logger = l }
}
