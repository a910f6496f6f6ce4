package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	yaml := `
modules:
  - ext/modules
  - /opt/shared
store: build/sigs.db
verbose: true
`
	cfg, err := Parse([]byte(yaml), "/work/stc.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dirs := cfg.ModuleDirs()
	if len(dirs) != 2 {
		t.Fatalf("expected 2 module dirs, got %d", len(dirs))
	}
	if dirs[0] != filepath.Join("/work", "ext/modules") {
		t.Errorf("dirs[0] = %q", dirs[0])
	}
	if dirs[1] != "/opt/shared" {
		t.Errorf("dirs[1] = %q, want /opt/shared", dirs[1])
	}
	if cfg.StorePath() != filepath.Join("/work", "build/sigs.db") {
		t.Errorf("store = %q", cfg.StorePath())
	}
	if !cfg.Verbose {
		t.Error("expected verbose to be true")
	}
	if cfg.ObjectType != ObjectTypeName {
		t.Errorf("object_type = %q, want %q", cfg.ObjectType, ObjectTypeName)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""), "stc.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store != filepath.Join(".stc", "signatures.db") {
		t.Errorf("store = %q", cfg.Store)
	}
	if len(cfg.Modules) != 0 {
		t.Errorf("expected no modules, got %v", cfg.Modules)
	}
}

func TestParse_EmptyModulePath(t *testing.T) {
	_, err := Parse([]byte("modules:\n  - \"  \"\n"), "stc.yaml")
	if err == nil {
		t.Fatal("expected error for empty module path")
	}
	if !strings.Contains(err.Error(), "modules[0]") {
		t.Errorf("error should name the entry: %v", err)
	}
}

func TestParse_BadObjectType(t *testing.T) {
	_, err := Parse([]byte("object_type: List<String>\n"), "stc.yaml")
	if err == nil {
		t.Fatal("expected error for generic object_type")
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("modules: [unclosed"), "bad.yaml")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SettingsFileName)
	if err := os.WriteFile(path, []byte("modules: [mods]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.ModuleDirs()[0]; got != filepath.Join(dir, "mods") {
		t.Errorf("module dir = %q", got)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
