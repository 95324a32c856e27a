// Package kvstore is the key-value persistence provider behind bundle storage.
// Values are JSON documents addressed by (namespace, key). Three backends
// implement Store: one JSON file per namespace on disk, a single SQLite
// table, and an in-memory map used by tests.
package kvstore
