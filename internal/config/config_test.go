package config

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	cfg := NewConfig("/home/user/.wcdb")
	cfg.Database.BusyTimeoutMS = 2500
	cfg.Cache.CacheTxdeltas = true
	cfg.Cache.MemcacheEndpoint = "127.0.0.1:11211"

	var buf bytes.Buffer
	m := &Manager{}
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.BaseDir != cfg.BaseDir || got.LogDir != cfg.LogDir {
		t.Errorf("paths = %q %q", got.BaseDir, got.LogDir)
	}
	if got.Database.BusyTimeoutMS != 2500 {
		t.Errorf("busy timeout = %d", got.Database.BusyTimeoutMS)
	}
	if !got.Cache.CacheTxdeltas || got.Cache.MemcacheEndpoint != "127.0.0.1:11211" {
		t.Errorf("cache = %+v", got.Cache)
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig("/base")

	if cfg.LogDir != filepath.Join("/base", "log") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.Database.BusyTimeoutMS != 5000 || cfg.Database.RetryDeadlineMS != 10000 {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if !cfg.Cache.CacheFulltexts || cfg.Cache.CacheTxdeltas {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
}

func TestInitRefusesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := Init(path, NewConfig(dir)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := Init(path, NewConfig(dir)); err == nil {
		t.Error("second Init() = nil, want error")
	}
}

func TestReadFromMissingFile(t *testing.T) {
	if _, err := ReadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("ReadFromFile() = nil, want error")
	}
}
