// Package userdata resolves where bundle data lives on disk: the data root
// under the config directory, the file backend's document directory, and the
// SQLite database path. LINKBUNDLE_DATA relocates all of it.
package userdata
