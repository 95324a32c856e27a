package bundle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linkbundle/linkbundle/internal/kvstore"
)

var errDisk = errors.New("disk on fire")

// failingKV wraps a Store and fails selected operations.
type failingKV struct {
	kvstore.Store
	failRemove    bool
	failSetPrefix string
}

func (f *failingKV) Remove(ctx context.Context, namespace string) error {
	if f.failRemove {
		return errDisk
	}
	return f.Store.Remove(ctx, namespace)
}

func (f *failingKV) Set(ctx context.Context, namespace, key string, value []byte) error {
	if f.failSetPrefix != "" && len(namespace) >= len(f.failSetPrefix) && namespace[:len(f.failSetPrefix)] == f.failSetPrefix {
		return errDisk
	}
	return f.Store.Set(ctx, namespace, key, value)
}

// fakeOpener records calls and tracks peak concurrency.
type fakeOpener struct {
	delay time.Duration
	fail  map[string]bool

	mu       sync.Mutex
	opened   []string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeOpener) Open(ctx context.Context, url string) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.opened = append(f.opened, url)
	f.mu.Unlock()

	if f.fail[url] {
		return errors.New("no handler")
	}
	return nil
}

func (f *fakeOpener) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.opened...)
}

func newTestStore(t *testing.T) (*Store, *kvstore.MemoryStore) {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	return NewStore(kv, nil), kv
}

func newTestService(t *testing.T, opener Opener, opts ...Option) *Service {
	t.Helper()
	store, _ := newTestStore(t)
	return NewService(store, opener, opts...)
}
