// Package extmethods builds and caches the extension methods visible in an
// environment.
//
// A table is built from the modules a scanner reports for the environment.
// Modules are de-duplicated by name, first one wins. Every public static
// method with at least one parameter on a provider type becomes an
// extension method of its first parameter's type.
//
// Tables are cached per environment. At most one build runs per
// environment at a time, and the cache does not keep environments alive:
// once an environment is garbage collected its entry is dropped.
package extmethods

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/funvibe/stc/internal/modscan"
	"github.com/funvibe/stc/internal/typesystem"
)

// Provider is a provider type contributed without a module.
type Provider struct {
	Type   *typesystem.Nominal
	Static bool
}

// Options configures a Cache.
type Options struct {
	// Scanner enumerates modules. Defaults to modscan.Default().
	Scanner modscan.Scanner

	// AdditionalProviders are always scanned, before any module provider.
	AdditionalProviders []Provider

	// Filter rejects provider methods when it returns false.
	Filter func(*typesystem.Method) bool

	// GroupKey maps a method to its table key. Defaults to the receiver name.
	GroupKey func(*ExtensionMethod) string

	// Logger receives progress messages. Defaults to discarding them.
	Logger *log.Logger
}

// Stats are cache counters.
type Stats struct {
	Builds  int64
	Hits    int64
	Entries int
}

type entry struct {
	env   weak.Pointer[modscan.Environment]
	table *Table
}

// Cache holds one Table per live environment. It is safe for concurrent use.
type Cache struct {
	opts  Options
	log   *log.Logger
	group singleflight.Group

	mu      sync.Mutex
	entries map[uuid.UUID]*entry

	builds atomic.Int64
	hits   atomic.Int64
}

// New creates a cache.
func New(opts Options) *Cache {
	if opts.Scanner == nil {
		opts.Scanner = modscan.Default()
	}
	if opts.GroupKey == nil {
		opts.GroupKey = ReceiverName
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Cache{
		opts:    opts,
		log:     logger,
		entries: make(map[uuid.UUID]*entry),
	}
}

// ReceiverName is the default grouping key.
func ReceiverName(m *ExtensionMethod) string { return m.Receiver.Name() }

// Lookup returns the table of env, building it on first use. Concurrent
// callers for the same environment share one build. A failed build is not
// cached. Cancelling ctx stops waiting but not the build itself.
func (c *Cache) Lookup(ctx context.Context, env *modscan.Environment) (*Table, error) {
	if env == nil {
		return nil, fmt.Errorf("extmethods: nil environment")
	}
	if t := c.cached(env); t != nil {
		c.hits.Add(1)
		return t, nil
	}

	ch := c.group.DoChan(env.ID().String(), func() (interface{}, error) {
		if t := c.cached(env); t != nil {
			return t, nil
		}
		t, err := c.build(env)
		if err != nil {
			return nil, err
		}
		c.store(env, t)
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Table), nil
	}
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	return Stats{Builds: c.builds.Load(), Hits: c.hits.Load(), Entries: n}
}

func (c *Cache) cached(env *modscan.Environment) *Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[env.ID()]
	if !ok {
		return nil
	}
	if e.env.Value() != env {
		delete(c.entries, env.ID())
		return nil
	}
	return e.table
}

func (c *Cache) store(env *modscan.Environment, t *Table) {
	id := env.ID()
	c.mu.Lock()
	c.entries[id] = &entry{env: weak.Make(env), table: t}
	c.mu.Unlock()
	runtime.AddCleanup(env, c.evict, id)
}

func (c *Cache) evict(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok && e.env.Value() == nil {
		delete(c.entries, id)
		c.log.Printf("[extmethods] evicted %s", id)
	}
}

func (c *Cache) build(env *modscan.Environment) (*Table, error) {
	c.builds.Add(1)
	c.log.Printf("[extmethods] scanning modules of %s", env)

	instance := linkedhashset.New()
	static := linkedhashset.New()
	known := make(map[string]*typesystem.Nominal)
	for _, p := range c.opts.AdditionalProviders {
		known[p.Type.TypeName] = p.Type
		if p.Static {
			static.Add(p.Type.TypeName)
		} else {
			instance.Add(p.Type.TypeName)
		}
	}

	seen := make(map[string]bool)
	err := c.opts.Scanner.Scan(env, func(m modscan.Module) {
		pm, ok := m.(*modscan.ProviderModule)
		if !ok {
			return
		}
		if seen[pm.Name()] {
			c.log.Printf("[extmethods] duplicate module %s ignored", pm.Name())
			return
		}
		seen[pm.Name()] = true
		for _, name := range pm.ExtensionClasses {
			instance.Add(name)
		}
		for _, name := range pm.StaticExtensionClasses {
			static.Add(name)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scanning extension modules of %s: %w", env, err)
	}

	table := newTable()
	c.collect(env, table, known, instance, false)
	c.collect(env, table, known, static, true)
	c.log.Printf("[extmethods] %s: %d methods on %d receivers", env, table.Len(), len(table.keys))
	return table, nil
}

func (c *Cache) collect(env *modscan.Environment, table *Table, known map[string]*typesystem.Nominal, providers *linkedhashset.Set, static bool) {
	for _, v := range providers.Values() {
		name := v.(string)
		provider, ok := known[name]
		if !ok {
			provider, ok = env.Resolver().Resolve(name)
		}
		if !ok {
			c.log.Printf("[extmethods] warning: provider %s not found in %s", name, env)
			continue
		}
		for _, m := range provider.Methods() {
			if !m.Public || !m.Static || len(m.Params) == 0 {
				continue
			}
			if c.opts.Filter != nil && !c.opts.Filter(m) {
				continue
			}
			em := newExtensionMethod(provider, m, static)
			table.add(c.opts.GroupKey(em), em)
		}
	}
}
