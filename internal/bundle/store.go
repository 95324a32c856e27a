package bundle

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/linkbundle/linkbundle/internal/kvstore"
)

// Storage layout.
const (
	indexNamespace  = "index"
	bundlesKey      = "bundles"
	linksKey        = "links"
	versionKey      = "version"
	namespacePrefix = "bundle-"
)

// indexEntry maps a bundle name to the storage identifier of its links.
// Names never reach the key-value layer, so any string is a valid name.
type indexEntry struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

func (e indexEntry) namespace() string { return namespacePrefix + e.ID }

// Store persists the bundle index and every bundle's link list.
type Store struct {
	kv    kvstore.Store
	log   *slog.Logger
	newID func() string
}

// NewStore returns a Store backed by kv. A nil logger discards output.
func NewStore(kv kvstore.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		kv:    kv,
		log:   logger,
		newID: uuid.NewString,
	}
}

func (s *Store) entries(ctx context.Context) ([]indexEntry, error) {
	var version string
	if _, err := kvstore.GetJSON(ctx, s.kv, indexNamespace, versionKey, &version); err != nil {
		return nil, storageErr("read index", "", err)
	}
	if err := checkFormat(version); err != nil {
		return nil, storageErr("read index", "", err)
	}

	var entries []indexEntry
	if _, err := kvstore.GetJSON(ctx, s.kv, indexNamespace, bundlesKey, &entries); err != nil {
		return nil, storageErr("read index", "", err)
	}
	return entries, nil
}

func (s *Store) writeEntries(ctx context.Context, entries []indexEntry) error {
	if entries == nil {
		entries = []indexEntry{}
	}
	if err := kvstore.SetJSON(ctx, s.kv, indexNamespace, versionKey, FormatVersion); err != nil {
		return err
	}
	return kvstore.SetJSON(ctx, s.kv, indexNamespace, bundlesKey, entries)
}

func (s *Store) lookup(ctx context.Context, name string) (indexEntry, []indexEntry, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return indexEntry{}, nil, err
	}
	i := slices.IndexFunc(entries, func(e indexEntry) bool { return e.Name == name })
	if i < 0 {
		return indexEntry{}, entries, notFound(name)
	}
	return entries[i], entries, nil
}

// Names returns the bundle names in creation order. A store that has never
// been written yields an empty slice.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// Exists reports whether name is in the index.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(entries, func(e indexEntry) bool { return e.Name == name }), nil
}

// Create writes an empty link list for name and then appends name to the
// index.
func (s *Store) Create(ctx context.Context, name string) error {
	entries, err := s.entries(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(entries, func(e indexEntry) bool { return e.Name == name }) {
		return alreadyExists(name)
	}

	entry := indexEntry{Name: name, ID: s.newID()}
	ns := entry.namespace()
	if err := kvstore.SetJSON(ctx, s.kv, ns, versionKey, FormatVersion); err != nil {
		return storageErr("create", name, err)
	}
	if err := kvstore.SetJSON(ctx, s.kv, ns, linksKey, []string{}); err != nil {
		_ = s.kv.Remove(ctx, ns)
		return storageErr("create", name, err)
	}
	if err := s.writeEntries(ctx, append(entries, entry)); err != nil {
		// The index is the source of truth; drop the unreferenced record.
		_ = s.kv.Remove(ctx, ns)
		return storageErr("create", name, err)
	}

	s.log.Debug("bundle created", "bundle", name, "id", entry.ID)
	return nil
}

// Delete drops name from the index and then removes its link record. If
// the record cannot be removed the index entry is restored, so a failure
// leaves the bundle listed with its links intact.
func (s *Store) Delete(ctx context.Context, name string) error {
	entry, entries, err := s.lookup(ctx, name)
	if err != nil {
		return err
	}

	remaining := slices.DeleteFunc(slices.Clone(entries), func(e indexEntry) bool { return e.Name == name })
	if err := s.writeEntries(ctx, remaining); err != nil {
		return storageErr("delete", name, err)
	}
	if err := s.kv.Remove(ctx, entry.namespace()); err != nil {
		if restoreErr := s.writeEntries(ctx, entries); restoreErr != nil {
			// The record stays behind unreferenced; Verify reports it.
			s.log.Warn("restoring index after failed delete", "bundle", name, "error", restoreErr)
			return storageErr("delete", name, errors.Join(err, restoreErr))
		}
		return storageErr("delete", name, err)
	}

	s.log.Debug("bundle deleted", "bundle", name, "id", entry.ID)
	return nil
}

// Rename moves the links of oldName to newName. The record keeps its
// storage identifier, so the move is a single index write: oldName is
// removed and newName appended.
func (s *Store) Rename(ctx context.Context, oldName, newName string) error {
	entry, entries, err := s.lookup(ctx, oldName)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(entries, func(e indexEntry) bool { return e.Name == newName }) {
		return alreadyExists(newName)
	}

	remaining := slices.DeleteFunc(entries, func(e indexEntry) bool { return e.Name == oldName })
	moved := indexEntry{Name: newName, ID: entry.ID}
	if err := s.writeEntries(ctx, append(remaining, moved)); err != nil {
		return storageErr("rename", oldName, err)
	}

	s.log.Debug("bundle renamed", "bundle", oldName, "to", newName, "id", entry.ID)
	return nil
}

// Links returns the stored links of name in order.
func (s *Store) Links(ctx context.Context, name string) ([]string, error) {
	entry, _, err := s.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	var links []string
	if _, err := kvstore.GetJSON(ctx, s.kv, entry.namespace(), linksKey, &links); err != nil {
		return nil, storageErr("read links", name, err)
	}
	if links == nil {
		links = []string{}
	}
	return links, nil
}

// SetLinks replaces the stored links of name in one write.
func (s *Store) SetLinks(ctx context.Context, name string, links []string) error {
	entry, _, err := s.lookup(ctx, name)
	if err != nil {
		return err
	}
	if links == nil {
		links = []string{}
	}
	if err := kvstore.SetJSON(ctx, s.kv, entry.namespace(), linksKey, links); err != nil {
		return storageErr("write links", name, err)
	}
	s.log.Debug("links written", "bundle", name, "count", len(links))
	return nil
}
