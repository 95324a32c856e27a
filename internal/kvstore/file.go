package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const fileExt = ".json"

// FileStore keeps one JSON document per namespace under a directory.
// Each document is an object mapping keys to values and is replaced
// atomically (write to a temp file, then rename) on every Set.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) path(namespace string) string {
	return filepath.Join(f.dir, namespace+fileExt)
}

func (f *FileStore) readDoc(namespace string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path(namespace))
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", namespace, err)
	}
	doc := map[string]json.RawMessage{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", namespace, err)
	}
	return doc, nil
}

func (f *FileStore) writeDoc(namespace string, doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", namespace, err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+namespace+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", namespace, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", namespace, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", namespace, err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("securing %s: %w", namespace, err)
	}
	if err := os.Rename(tmpName, f.path(namespace)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", namespace, err)
	}
	return nil
}

// Get implements Store.
func (f *FileStore) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDoc(namespace)
	if err != nil {
		return nil, false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

// Set implements Store.
func (f *FileStore) Set(_ context.Context, namespace, key string, value []byte) error {
	if err := ValidateNamespace(namespace); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for %s/%s is not valid JSON", namespace, key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDoc(namespace)
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(value)
	return f.writeDoc(namespace, doc)
}

// Keys implements Store.
func (f *FileStore) Keys(_ context.Context, namespace string) ([]string, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDoc(namespace)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Namespaces implements Store.
func (f *FileStore) Namespaces(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading store directory: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		ns := strings.TrimSuffix(name, fileExt)
		if ValidateNamespace(ns) != nil {
			continue
		}
		out = append(out, ns)
	}
	sort.Strings(out)
	return out, nil
}

// Remove implements Store.
func (f *FileStore) Remove(_ context.Context, namespace string) error {
	if err := ValidateNamespace(namespace); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(namespace)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", namespace, err)
	}
	return nil
}

// Close implements Store.
func (f *FileStore) Close() error { return nil }
