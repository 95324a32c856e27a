// Package config manages user-level settings stored at ~/.linkbundle/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the storage backend and the number of links opened concurrently.
package config
