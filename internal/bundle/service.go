package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps how many links ExecBundleLinks opens at once.
const DefaultConcurrency = 5

// Opener opens a single URL with the platform's default handler.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Service implements the bundle operations on top of a Store.
type Service struct {
	store       *Store
	opener      Opener
	concurrency int
	log         *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency sets the number of links opened simultaneously.
// Values below 1 keep the default.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService returns a Service persisting through store and opening links
// through opener.
func NewService(store *Store, opener Opener, opts ...Option) *Service {
	s := &Service{
		store:       store,
		opener:      opener,
		concurrency: DefaultConcurrency,
		log:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBundle creates an empty bundle. It fails with ErrAlreadyExists when
// the name is taken.
func (s *Service) CreateBundle(ctx context.Context, name string) error {
	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return alreadyExists(name)
	}
	return s.store.Create(ctx, name)
}

// Bundles returns every bundle name in creation order.
func (s *Service) Bundles(ctx context.Context) ([]string, error) {
	return s.store.Names(ctx)
}

// Bundle returns the links of name.
func (s *Service) Bundle(ctx context.Context, name string) ([]string, error) {
	if err := s.mustExist(ctx, name); err != nil {
		return nil, err
	}
	return s.store.Links(ctx, name)
}

// DeleteBundles deletes each named bundle independently. A missing name or a
// storage failure is reported in that name's Result and the rest proceed.
func (s *Service) DeleteBundles(ctx context.Context, names []string) []Result {
	results := make([]Result, 0, len(names))
	for _, name := range names {
		err := s.mustExist(ctx, name)
		if err == nil {
			err = s.store.Delete(ctx, name)
		}
		if err != nil {
			s.log.Debug("delete failed", "bundle", name, "error", err)
		}
		results = append(results, Result{Item: name, Err: err})
	}
	return results
}

// RenameBundle renames oldName to newName, keeping its links.
func (s *Service) RenameBundle(ctx context.Context, oldName, newName string) error {
	if err := s.mustExist(ctx, oldName); err != nil {
		return err
	}
	exists, err := s.store.Exists(ctx, newName)
	if err != nil {
		return err
	}
	if exists {
		return alreadyExists(newName)
	}
	return s.store.Rename(ctx, oldName, newName)
}

// AddToBundle appends every valid candidate to the bundle, persisting after
// each one. A missing bundle aborts before any candidate is looked at;
// invalid or unsaved candidates are reported per item.
func (s *Service) AddToBundle(ctx context.Context, name string, candidates []string) ([]Result, error) {
	if err := s.mustExist(ctx, name); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(candidates))
	for _, link := range candidates {
		if !IsValidURL(link) {
			results = append(results, Result{Item: link, Err: fmt.Errorf("%q %w", link, ErrInvalidURL)})
			continue
		}
		results = append(results, Result{Item: link, Err: s.appendLink(ctx, name, link)})
	}
	return results, nil
}

func (s *Service) appendLink(ctx context.Context, name, link string) error {
	links, err := s.store.Links(ctx, name)
	if err != nil {
		return err
	}
	return s.store.SetLinks(ctx, name, append(links, link))
}

// RemoveBundleLinks drops the links at the given 1-based positions and
// returns how many were removed. All positions refer to the list as it was
// before the call. A position matches only when written exactly as the
// decimal number ("2", not "02" or "+2"); anything else is ignored.
func (s *Service) RemoveBundleLinks(ctx context.Context, name string, indexes []string) (int, error) {
	if err := s.mustExist(ctx, name); err != nil {
		return 0, err
	}
	links, err := s.store.Links(ctx, name)
	if err != nil {
		return 0, err
	}

	drop := make(map[string]bool, len(indexes))
	for _, index := range indexes {
		drop[index] = true
	}

	kept := make([]string, 0, len(links))
	for i, link := range links {
		if !drop[strconv.Itoa(i+1)] {
			kept = append(kept, link)
		}
	}
	if err := s.store.SetLinks(ctx, name, kept); err != nil {
		return 0, err
	}
	return len(links) - len(kept), nil
}

// ExecBundleLinks opens every link of the bundle, at most s.concurrency at a
// time, and returns once all of them have finished. Each outcome is passed to
// onResult (if non-nil) as soon as it is known; calls to onResult never
// overlap. The returned results are in link order. A failed open does not
// stop the others.
func (s *Service) ExecBundleLinks(ctx context.Context, name string, onResult func(Result)) ([]Result, error) {
	links, err := s.Bundle(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("%q %w", name, ErrEmptyBundle)
	}

	results := make([]Result, len(links))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, link := range links {
		g.Go(func() error {
			r := Result{Item: link}
			if err := s.opener.Open(ctx, link); err != nil {
				r.Err = fmt.Errorf("%q %w: %w", link, ErrOpenFailed, err)
			}
			results[i] = r
			s.log.Debug("link opened", "bundle", name, "link", link, "ok", r.OK())

			if onResult != nil {
				mu.Lock()
				onResult(r)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (s *Service) mustExist(ctx context.Context, name string) error {
	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return notFound(name)
	}
	return nil
}
