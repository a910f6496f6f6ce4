package extmethods

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/stc/internal/config"
	"github.com/funvibe/stc/internal/modscan"
	"github.com/funvibe/stc/internal/typesystem"
)

// provider declares a provider type with one public static method per
// receiver, named after it.
func provider(reg *typesystem.Registry, name string, receivers ...*typesystem.Nominal) *typesystem.Nominal {
	p := reg.Declare(name, nil)
	for _, r := range receivers {
		p.AddMethod(&typesystem.Method{
			Name:       name + "On" + r.TypeName,
			Params:     []typesystem.Param{{Name: "self", Type: r}, {Name: "n", Type: typesystem.IntType}},
			ReturnType: typesystem.StringType,
			Static:     true,
			Public:     true,
		})
	}
	return p
}

func methodNames(ms []*ExtensionMethod) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name()
	}
	return out
}

func TestCache_BuildTable(t *testing.T) {
	reg := typesystem.NewRegistry()
	extras := provider(reg, "acme.Extras", typesystem.StringType, typesystem.ListType)
	extras.AddMethod(&typesystem.Method{Name: "private", Static: true, Params: []typesystem.Param{{Type: typesystem.StringType}}})
	extras.AddMethod(&typesystem.Method{Name: "instance", Public: true, Params: []typesystem.Param{{Type: typesystem.StringType}}})
	extras.AddMethod(&typesystem.Method{Name: "noargs", Public: true, Static: true})
	provider(reg, "acme.Statics", typesystem.StringType)

	env := modscan.NewEnvironment("build", reg)
	env.AddModule(&modscan.ProviderModule{
		ModuleName:             "acme",
		ExtensionClasses:       []string{"acme.Extras", "acme.Missing"},
		StaticExtensionClasses: []string{"acme.Statics"},
	})

	c := New(Options{Scanner: modscan.StaticScanner{}})
	table, err := c.Lookup(context.Background(), env)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	if diff := cmp.Diff([]string{"String", "List"}, table.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	strs := table.Methods("String")
	if diff := cmp.Diff([]string{"acme.ExtrasOnString", "acme.StaticsOnString"}, methodNames(strs)); diff != "" {
		t.Fatalf("String methods mismatch (-want +got):\n%s", diff)
	}
	inst, stat := strs[0], strs[1]
	if inst.Static || !stat.Static {
		t.Error("static flag should follow the provider kind")
	}
	if inst.Receiver != typesystem.StringType || inst.Provider != extras {
		t.Errorf("receiver = %v, provider = %v", inst.Receiver, inst.Provider)
	}
	if len(inst.Params) != 1 || inst.Params[0].Type != typesystem.IntType {
		t.Errorf("Params = %v, want the receiver dropped", inst.Params)
	}
	if got := inst.String(); got != "String.acme.ExtrasOnString(int) String" {
		t.Errorf("String() = %q", got)
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}

	view := table.Methods("String")
	view[0] = nil
	if table.Methods("String")[0] == nil {
		t.Error("Methods() must return a copy")
	}
}

func TestCache_DeduplicatesModulesByName(t *testing.T) {
	reg := typesystem.NewRegistry()
	provider(reg, "first.P", typesystem.StringType)
	provider(reg, "second.P", typesystem.StringType)

	env := modscan.NewEnvironment("dedup", reg)
	env.AddModule(&modscan.ProviderModule{ModuleName: "dup", ExtensionClasses: []string{"first.P"}})
	env.AddModule(&modscan.ProviderModule{ModuleName: "dup", ExtensionClasses: []string{"second.P"}})

	table, err := New(Options{Scanner: modscan.StaticScanner{}}).Lookup(context.Background(), env)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"first.POnString"}, methodNames(table.Methods("String"))); diff != "" {
		t.Errorf("only the first module should contribute (-want +got):\n%s", diff)
	}
}

func TestCache_ClassDeclaredByTwoManifests(t *testing.T) {
	dir := t.TempDir()
	manifest := `extensionClasses: [acme.P]
classes:
  - name: acme.P
    methods:
      - name: shout
        static: true
        params: [String]
        returns: String
`
	for _, name := range []string{"a", "b"} {
		path := filepath.Join(dir, name+".extmodule.yaml")
		if err := os.WriteFile(path, []byte("moduleName: "+name+"\n"+manifest), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	env, err := modscan.LoadEnvironment("files", dir)
	if err != nil {
		t.Fatal(err)
	}

	table, err := New(Options{Scanner: modscan.DirScanner{}}).Lookup(context.Background(), env)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"shout"}, methodNames(table.Methods("String"))); diff != "" {
		t.Errorf("String methods mismatch (-want +got):\n%s", diff)
	}
}

type otherModule struct{}

func (otherModule) Name() string    { return "other" }
func (otherModule) Version() string { return "1" }

func TestCache_IgnoresOtherModuleKinds(t *testing.T) {
	env := modscan.NewEnvironment("kinds", typesystem.NewRegistry())
	env.AddModule(otherModule{})
	table, err := New(Options{Scanner: modscan.StaticScanner{}}).Lookup(context.Background(), env)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
}

func TestCache_ConcurrentSingleBuild(t *testing.T) {
	reg := typesystem.NewRegistry()
	provider(reg, "acme.P", typesystem.StringType)
	env := modscan.NewEnvironment("concurrent", reg)
	env.AddModule(&modscan.ProviderModule{ModuleName: "acme", ExtensionClasses: []string{"acme.P"}})

	var scans atomic.Int32
	release := make(chan struct{})
	scanner := modscan.ScannerFunc(func(e *modscan.Environment, visit func(modscan.Module)) error {
		scans.Add(1)
		<-release
		return modscan.StaticScanner{}.Scan(e, visit)
	})
	c := New(Options{Scanner: scanner})

	const n = 16
	tables := make([]*Table, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table, err := c.Lookup(context.Background(), env)
			if err != nil {
				t.Errorf("Lookup() error = %v", err)
				return
			}
			tables[i] = table
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := scans.Load(); got != 1 {
		t.Errorf("scans = %d, want 1", got)
	}
	for i := 1; i < n; i++ {
		if tables[i] != tables[0] {
			t.Fatalf("caller %d got a different table", i)
		}
	}
	if _, err := c.Lookup(context.Background(), env); err != nil {
		t.Fatal(err)
	}
	if scans.Load() != 1 || c.Stats().Builds != 1 || c.Stats().Hits == 0 {
		t.Errorf("cached lookup should not rebuild, stats = %+v", c.Stats())
	}
}

func TestCache_DistinctKeysIndependent(t *testing.T) {
	blocked := modscan.NewEnvironment("blocked", typesystem.NewRegistry())
	free := modscan.NewEnvironment("free", typesystem.NewRegistry())

	release := make(chan struct{})
	scanner := modscan.ScannerFunc(func(e *modscan.Environment, visit func(modscan.Module)) error {
		if e == blocked {
			<-release
		}
		return nil
	})
	c := New(Options{Scanner: scanner})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Lookup(context.Background(), blocked)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := c.Lookup(ctx, free); err != nil {
		t.Errorf("lookup of a distinct key blocked: %v", err)
	}
	close(release)
	<-done
}

func TestCache_FailureNotCached(t *testing.T) {
	env := modscan.NewEnvironment("flaky", typesystem.NewRegistry())
	errScan := errors.New("scan failed")
	var calls int
	scanner := modscan.ScannerFunc(func(*modscan.Environment, func(modscan.Module)) error {
		calls++
		if calls == 1 {
			return errScan
		}
		return nil
	})
	c := New(Options{Scanner: scanner})

	if _, err := c.Lookup(context.Background(), env); !errors.Is(err, errScan) {
		t.Fatalf("first Lookup() error = %v, want %v", err, errScan)
	}
	if _, err := c.Lookup(context.Background(), env); err != nil {
		t.Fatalf("second Lookup() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("scanner called %d times, want 2", calls)
	}
}

func TestCache_ContextCancelled(t *testing.T) {
	env := modscan.NewEnvironment("slow", typesystem.NewRegistry())
	release := make(chan struct{})
	scanner := modscan.ScannerFunc(func(*modscan.Environment, func(modscan.Module)) error {
		<-release
		return nil
	})
	c := New(Options{Scanner: scanner})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Lookup(ctx, env); !errors.Is(err, context.Canceled) {
		t.Errorf("Lookup() error = %v, want context.Canceled", err)
	}
	close(release)
	if _, err := c.Lookup(context.Background(), env); err != nil {
		t.Fatal(err)
	}
	if c.Stats().Builds != 1 {
		t.Errorf("Builds = %d, the cancelled build should complete and be reused", c.Stats().Builds)
	}
}

func TestCache_GroupKeyAndFilter(t *testing.T) {
	reg := typesystem.NewRegistry()
	p := provider(reg, "acme.P", typesystem.StringType, typesystem.IntegerType)
	p.AddMethod(&typesystem.Method{
		Name:        "old",
		Params:      []typesystem.Param{{Type: typesystem.StringType}},
		Static:      true,
		Public:      true,
		Annotations: []string{config.DeprecatedAnnotation},
	})
	env := modscan.NewEnvironment("custom", reg)

	c := New(Options{
		Scanner:             modscan.StaticScanner{},
		AdditionalProviders: []Provider{{Type: p}},
		Filter:              NotDeprecated,
		GroupKey:            func(m *ExtensionMethod) string { return "all" },
	})
	table, err := c.Lookup(context.Background(), env)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"all"}, table.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"acme.POnString", "acme.POnInteger"}, methodNames(table.Methods("all"))); diff != "" {
		t.Errorf("Methods() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultMethodsCache(t *testing.T) {
	env := modscan.NewEnvironment("defaults", typesystem.NewRegistry())
	table, err := NewDefaultMethodsCache(modscan.StaticScanner{}).Lookup(context.Background(), env)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Object", "Iterable", "CharSequence", "String"}, table.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	object := table.Methods("Object")
	if diff := cmp.Diff([]string{"each", "inspect", "sleep"}, methodNames(object)); diff != "" {
		t.Errorf("Object methods mismatch (-want +got):\n%s", diff)
	}
	if !object[2].Static || object[0].Static {
		t.Error("sleep comes from the static provider")
	}
	if diff := cmp.Diff([]string{"reverse", "capitalize"}, methodNames(table.Methods("String"))); diff != "" {
		t.Errorf("String methods mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_EvictsCollectedEnvironments(t *testing.T) {
	c := New(Options{Scanner: modscan.StaticScanner{}})
	func() {
		env := modscan.NewEnvironment("short-lived", typesystem.NewRegistry())
		if _, err := c.Lookup(context.Background(), env); err != nil {
			t.Fatal(err)
		}
	}()
	if c.Stats().Entries != 1 {
		t.Fatalf("Entries = %d, want 1", c.Stats().Entries)
	}

	deadline := time.Now().Add(5 * time.Second)
	for c.Stats().Entries != 0 {
		if time.Now().After(deadline) {
			t.Fatal("entry of a collected environment was not evicted")
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
}
