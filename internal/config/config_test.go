package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q, want default :8080", cfg.Addr)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Addr = "127.0.0.1:9000"
	cfg.SensorDevice = "/dev/ttyUSB0"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Addr != "127.0.0.1:9000" || loaded.SensorDevice != "/dev/ttyUSB0" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte("{broken"), 0644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Addr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty addr should fail validation")
	}

	cfg = Default()
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.onnx")
	if err := cfg.Validate(); err == nil {
		t.Error("missing model file should fail validation")
	}
}
