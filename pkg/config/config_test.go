package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Processing.NumThreads <= 0 {
		t.Errorf("expected positive default NumThreads, got %d", cfg.Processing.NumThreads)
	}
	if cfg.Processing.Datatype != Unset {
		t.Errorf("expected Unset default datatype, got %q", cfg.Processing.Datatype)
	}
	if cfg.Processing.Force {
		t.Error("expected Force to default to false")
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(filepath.Join(dir, "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Processing.NumThreads <= 0 {
		t.Errorf("expected default NumThreads when config file absent, got %d", cfg.Processing.NumThreads)
	}
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mrcalc.yaml")

	cfg := DefaultConfig()
	cfg.Processing.NumThreads = 4
	cfg.Processing.Datatype = CFloat32
	cfg.Processing.Force = true
	cfg.Output.Quiet = true

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if loaded.Processing.NumThreads != 4 {
		t.Errorf("NumThreads = %d, want 4", loaded.Processing.NumThreads)
	}
	if loaded.Processing.Datatype != CFloat32 {
		t.Errorf("Datatype = %q, want cfloat32", loaded.Processing.Datatype)
	}
	if !loaded.Processing.Force {
		t.Error("expected Force to round-trip true")
	}
	if !loaded.Output.Quiet {
		t.Error("expected Quiet to round-trip true")
	}
}

func TestLoadConfigRejectsInvalidDatatype(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("processing:\n  datatype: bogus\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error loading config with invalid datatype")
	}
}
