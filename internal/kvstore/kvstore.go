package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidNamespace is returned for namespaces outside [a-z0-9-].
var ErrInvalidNamespace = errors.New("invalid namespace")

var namespacePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,127}$`)

// Store is a namespaced key-value store. Writes of a single key are atomic.
type Store interface {
	// Get returns the raw value for key, or ok=false when it was never set.
	Get(ctx context.Context, namespace, key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, namespace, key string, value []byte) error
	// Keys returns the keys present in namespace, sorted.
	Keys(ctx context.Context, namespace string) ([]string, error)
	// Namespaces returns every namespace holding at least one key, sorted.
	Namespaces(ctx context.Context) ([]string, error)
	// Remove deletes a namespace with all its keys. Removing a namespace
	// that does not exist is not an error.
	Remove(ctx context.Context, namespace string) error
	// Close releases any resources held by the store.
	Close() error
}

// ValidateNamespace checks that namespace is safe to use as a file name
// and a table value.
func ValidateNamespace(namespace string) error {
	if !namespacePattern.MatchString(namespace) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}
	return nil
}

// GetJSON decodes the value under key into out.
func GetJSON(ctx context.Context, s Store, namespace, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, namespace, key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decoding %s/%s: %w", namespace, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, namespace, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", namespace, key, err)
	}
	return s.Set(ctx, namespace, key, raw)
}
