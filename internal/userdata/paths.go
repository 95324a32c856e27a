package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/linkbundle/linkbundle/internal/branding"
	"github.com/linkbundle/linkbundle/internal/config"
	"github.com/linkbundle/linkbundle/internal/kvstore"
)

// Directory and file name constants for the data directory layout.
const (
	DataDir      = "data"
	StoreDir     = "store"
	DatabaseFile = "linkbundle.db"
)

// GetDataRoot returns the path to the data directory.
// It checks the LINKBUNDLE_DATA environment variable first,
// then falls back to <config dir>/data.
func GetDataRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("DATA")); v != "" {
		return v, nil
	}
	dir := config.Dir()
	if dir == "" {
		return "", fmt.Errorf("resolving config directory")
	}
	return filepath.Join(dir, DataDir), nil
}

// GetStoreLocation returns where each storage backend keeps its data.
func GetStoreLocation() (kvstore.Location, error) {
	root, err := GetDataRoot()
	if err != nil {
		return kvstore.Location{}, err
	}
	return kvstore.Location{
		StoreDir:     filepath.Join(root, StoreDir),
		DatabasePath: filepath.Join(root, DatabaseFile),
	}, nil
}
