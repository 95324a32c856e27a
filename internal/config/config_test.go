package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/linkbundle/linkbundle/internal/kvstore"
)

func TestDirHonorsOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("LINKBUNDLE_HOME", tmp)

	if got := Dir(); got != tmp {
		t.Errorf("Dir() = %q, want %q", got, tmp)
	}
	if got := FilePath(); got != filepath.Join(tmp, "config.yaml") {
		t.Errorf("FilePath() = %q", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LINKBUNDLE_HOME", t.TempDir())
	Load()

	s := Current()
	if s.Backend != kvstore.BackendFile {
		t.Errorf("Backend = %q, want %q", s.Backend, kvstore.BackendFile)
	}
	if s.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", s.Concurrency, DefaultConcurrency)
	}
	if !s.Color {
		t.Error("Color should default to true")
	}
	if s.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", s.LogLevel)
	}
}

func TestSetPersistsAcrossLoads(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("LINKBUNDLE_HOME", tmp)
	Load()

	if err := Set(KeyConcurrency, "2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	Load()
	if got := Current().Concurrency; got != 2 {
		t.Errorf("Concurrency after reload = %d, want 2", got)
	}
	if got := Get(KeyConcurrency); got != "2" {
		t.Errorf("Get() = %q, want %q", got, "2")
	}
}

func TestSetCreatesPrivateFiles(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := filepath.Join(t.TempDir(), "home")
	t.Setenv("LINKBUNDLE_HOME", dir)
	Load()

	if err := Set(KeyColor, "false"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != DirPermSecure {
		t.Errorf("dir permissions = %o, want %o", perm, DirPermSecure)
	}
	info, err = os.Stat(FilePath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("config file permissions = %o, want owner-only", perm)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("LINKBUNDLE_HOME", tmp)
	if err := os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte("store:\n  backend: file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LINKBUNDLE_STORE_BACKEND", "sqlite")

	Load()
	if got := Current().Backend; got != kvstore.BackendSQLite {
		t.Errorf("Backend = %q, want %q", got, kvstore.BackendSQLite)
	}
}

func TestDotEnvFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("LINKBUNDLE_HOME", tmp)
	if err := os.WriteFile(filepath.Join(tmp, ".env"), []byte("LINKBUNDLE_EXEC_OPENER=firefox\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the process env; make sure the test cleans it up.
	t.Setenv("LINKBUNDLE_EXEC_OPENER", "")
	os.Unsetenv("LINKBUNDLE_EXEC_OPENER")

	Load()
	if got := Current().Opener; got != "firefox" {
		t.Errorf("Opener = %q, want %q", got, "firefox")
	}
}

func TestCurrentClampsConcurrency(t *testing.T) {
	t.Setenv("LINKBUNDLE_HOME", t.TempDir())
	t.Setenv("LINKBUNDLE_EXEC_CONCURRENCY", "0")

	Load()
	if got := Current().Concurrency; got != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", got, DefaultConcurrency)
	}
}
