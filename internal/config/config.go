package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/linkbundle/linkbundle/internal/branding"
	"github.com/linkbundle/linkbundle/internal/kvstore"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
	envFile  = ".env"
)

// Config keys.
const (
	KeyBackend     = "store.backend"
	KeyConcurrency = "exec.concurrency"
	KeyOpener      = "exec.opener"
	KeyColor       = "ui.color"
	KeyLogLevel    = "log.level"
)

// Permissions for everything written under Dir.
const (
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
)

// DefaultConcurrency is the number of links opened at the same time.
const DefaultConcurrency = 5

// Settings is the typed view of the loaded configuration.
type Settings struct {
	Backend     string
	Concurrency int
	Opener      string
	Color       bool
	LogLevel    string
}

// Dir returns the path to the config directory (~/.linkbundle/).
// LINKBUNDLE_HOME overrides the location.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.linkbundle/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory with owner-only permissions.
func EnsureDir() error {
	if err := os.MkdirAll(Dir(), DirPermSecure); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}

// Load initializes Viper to read from the config file, the optional .env
// file next to it, and the environment.
func Load() {
	viper.Reset()

	// Existing environment variables win over the .env file.
	_ = godotenv.Load(filepath.Join(Dir(), envFile))

	viper.SetDefault(KeyBackend, kvstore.BackendFile)
	viper.SetDefault(KeyConcurrency, DefaultConcurrency)
	viper.SetDefault(KeyOpener, "")
	viper.SetDefault(KeyColor, true)
	viper.SetDefault(KeyLogLevel, "warn")

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the loaded settings with out-of-range values replaced by
// their defaults.
func Current() Settings {
	s := Settings{
		Backend:     strings.ToLower(strings.TrimSpace(viper.GetString(KeyBackend))),
		Concurrency: viper.GetInt(KeyConcurrency),
		Opener:      strings.TrimSpace(viper.GetString(KeyOpener)),
		Color:       viper.GetBool(KeyColor),
		LogLevel:    viper.GetString(KeyLogLevel),
	}
	if s.Backend == "" {
		s.Backend = kvstore.BackendFile
	}
	if s.Concurrency < 1 {
		s.Concurrency = DefaultConcurrency
	}
	return s
}

// Set stores value under key and writes the whole configuration back to
// FilePath, creating the file if needed.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}
	path := FilePath()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, FilePermSecure)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	f.Close()

	viper.Set(key, value)
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
