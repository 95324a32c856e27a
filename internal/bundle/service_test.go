package bundle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/linkbundle/linkbundle/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBundle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeOpener{})

	require.NoError(t, svc.CreateBundle(ctx, "x"))
	err := svc.CreateBundle(ctx, "x")
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorContains(t, err, `"x"`)

	names, err := svc.Bundles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, names)
}

func TestBundles(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeOpener{})

	names, err := svc.Bundles(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, n := range []string{"work", "news", "music"} {
		require.NoError(t, svc.CreateBundle(ctx, n))
	}
	first, err := svc.Bundles(ctx)
	require.NoError(t, err)
	second, err := svc.Bundles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "news", "music"}, first)
	assert.Equal(t, first, second)
}

func TestBundle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeOpener{})

	_, err := svc.Bundle(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.CreateBundle(ctx, "x"))
	links, err := svc.Bundle(ctx, "x")
	require.NoError(t, err)
	assert.Empty(t, links)

	_, err = svc.AddToBundle(ctx, "x", []string{"https://a.com", "https://b.com"})
	require.NoError(t, err)

	first, err := svc.Bundle(ctx, "x")
	require.NoError(t, err)
	second, err := svc.Bundle(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, first)
	assert.Equal(t, first, second)
}

func TestDeleteBundles(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeOpener{})
	require.NoError(t, svc.CreateBundle(ctx, "x"))
	require.NoError(t, svc.CreateBundle(ctx, "y"))

	results := svc.DeleteBundles(ctx, []string{"x", "nonexistent"})
	require.Len(t, results, 2)

	assert.Equal(t, "x", results[0].Item)
	assert.True(t, results[0].OK())

	assert.Equal(t, "nonexistent", results[1].Item)
	assert.ErrorIs(t, results[1].Err, ErrNotFound)

	names, err := svc.Bundles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, names)
}

func TestDeleteBundlesContinuesAfterStorageError(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Store: kvstore.NewMemoryStore()}
	store := NewStore(kv, nil)
	svc := NewService(store, &fakeOpener{})
	require.NoError(t, svc.CreateBundle(ctx, "x"))
	require.NoError(t, svc.CreateBundle(ctx, "y"))

	kv.failRemove = true
	results := svc.DeleteBundles(ctx, []string{"x", "missing", "y"})
	require.Len(t, results, 3)
	assert.ErrorIs(t, results[0].Err, ErrStorage)
	assert.ErrorIs(t, results[1].Err, ErrNotFound)
	assert.ErrorIs(t, results[2].Err, ErrStorage)

	names, err := svc.Bundles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, names)
}

func TestRenameBundle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeOpener{})
	require.NoError(t, svc.CreateBundle(ctx, "x"))
	_, err := svc.AddToBundle(ctx, "x", []string{"https://a.com"})
	require.NoError(t, err)

	require.NoError(t, svc.RenameBundle(ctx, "x", "y"))

	links, err := svc.Bundle(ctx, "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com"}, links)

	_, err = svc.Bundle(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameBundlePreconditions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeOpener{})
	require.NoError(t, svc.CreateBundle(ctx, "x"))
	require.NoError(t, svc.CreateBundle(ctx, "y"))

	assert.ErrorIs(t, svc.RenameBundle(ctx, "missing", "z"), ErrNotFound)
	assert.ErrorIs(t, svc.RenameBundle(ctx, "x", "y"), ErrAlreadyExists)

	names, err := svc.Bundles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, names)
}

func TestAddToBundle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeOpener{})
	require.NoError(t, svc.CreateBundle(ctx, "x"))

	results, err := svc.AddToBundle(ctx, "x", []string{"https://a.com", "not-a-url"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "https://a.com", results[0].Item)
	assert.True(t, results[0].OK())
	assert.Equal(t, "not-a-url", results[1].Item)
	assert.ErrorIs(t, results[1].Err, ErrInvalidURL)

	links, err := svc.Bundle(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com"}, links)
}

func TestAddToBundleKeepsDuplicatesAndOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeOpener{})
	require.NoError(t, svc.CreateBundle(ctx, "x"))

	_, err := svc.AddToBundle(ctx, "x", []string{"https://b.com", "https://a.com"})
	require.NoError(t, err)
	_, err = svc.AddToBundle(ctx, "x", []string{"https://b.com"})
	require.NoError(t, err)

	links, err := svc.Bundle(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://b.com", "https://a.com", "https://b.com"}, links)
}

func TestAddToMissingBundle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeOpener{})

	results, err := svc.AddToBundle(ctx, "x", []string{"https://a.com"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, results)
}

func TestRemoveBundleLinks(t *testing.T) {
	tests := []struct {
		name        string
		indexes     []string
		want        []string
		wantRemoved int
	}{
		{"middle", []string{"2"}, []string{"L1", "L3"}, 1},
		{"several at once", []string{"1", "3"}, []string{"L2"}, 2},
		{"no renumbering", []string{"2", "3"}, []string{"L1"}, 2},
		{"all", []string{"3", "2", "1"}, []string{}, 3},
		{"out of range ignored", []string{"0", "4", "99"}, []string{"L1", "L2", "L3"}, 0},
		{"non numeric ignored", []string{"two", ""}, []string{"L1", "L2", "L3"}, 0},
		{"repeated index", []string{"1", "1"}, []string{"L2", "L3"}, 1},
		{"non canonical spellings ignored", []string{"02", "+2", " 2", "2 ", "2.0"}, []string{"L1", "L2", "L3"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, _ := newTestStore(t)
			svc := NewService(store, &fakeOpener{})
			require.NoError(t, svc.CreateBundle(ctx, "x"))
			require.NoError(t, store.SetLinks(ctx, "x", []string{"L1", "L2", "L3"}))

			removed, err := svc.RemoveBundleLinks(ctx, "x", tt.indexes)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemoved, removed)

			got, err := svc.Bundle(ctx, "x")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoveBundleLinksMissingBundle(t *testing.T) {
	svc := newTestService(t, &fakeOpener{})
	_, err := svc.RemoveBundleLinks(context.Background(), "x", []string{"1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExecBundleLinks(t *testing.T) {
	ctx := context.Background()
	opener := &fakeOpener{fail: map[string]bool{"https://b.com": true}}
	svc := newTestService(t, opener)
	require.NoError(t, svc.CreateBundle(ctx, "x"))
	_, err := svc.AddToBundle(ctx, "x", []string{"https://a.com", "https://b.com", "https://c.com"})
	require.NoError(t, err)

	var streamed []Result
	results, err := svc.ExecBundleLinks(ctx, "x", func(r Result) {
		streamed = append(streamed, r)
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Len(t, streamed, 3)

	assert.Equal(t, "https://a.com", results[0].Item)
	assert.True(t, results[0].OK())
	assert.Equal(t, "https://b.com", results[1].Item)
	assert.ErrorIs(t, results[1].Err, ErrOpenFailed)
	assert.Equal(t, "https://c.com", results[2].Item)
	assert.True(t, results[2].OK())

	assert.ElementsMatch(t, []string{"https://a.com", "https://b.com", "https://c.com"}, opener.calls())
}

func TestExecBundleLinksEmpty(t *testing.T) {
	ctx := context.Background()
	opener := &fakeOpener{}
	svc := newTestService(t, opener)
	require.NoError(t, svc.CreateBundle(ctx, "empty"))

	results, err := svc.ExecBundleLinks(ctx, "empty", nil)
	assert.ErrorIs(t, err, ErrEmptyBundle)
	assert.Nil(t, results)
	assert.Empty(t, opener.calls())
}

func TestExecBundleLinksMissing(t *testing.T) {
	opener := &fakeOpener{}
	svc := newTestService(t, opener)

	_, err := svc.ExecBundleLinks(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, opener.calls())
}

func TestExecBundleLinksConcurrencyCap(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		limit int32
	}{
		{"default", nil, DefaultConcurrency},
		{"configured", []Option{WithConcurrency(2)}, 2},
		{"invalid keeps default", []Option{WithConcurrency(0)}, DefaultConcurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			opener := &fakeOpener{delay: 20 * time.Millisecond}
			store, _ := newTestStore(t)
			svc := NewService(store, opener, tt.opts...)
			require.NoError(t, svc.CreateBundle(ctx, "many"))

			links := make([]string, 12)
			for i := range links {
				links[i] = fmt.Sprintf("https://example.com/%d", i)
			}
			require.NoError(t, store.SetLinks(ctx, "many", links))

			results, err := svc.ExecBundleLinks(ctx, "many", nil)
			require.NoError(t, err)
			assert.Len(t, results, 12)
			assert.Len(t, opener.calls(), 12, "every link is opened before returning")
			assert.LessOrEqual(t, opener.peak.Load(), tt.limit)
			assert.Greater(t, opener.peak.Load(), int32(1), "opens run concurrently")
		})
	}
}

func TestResultErrorsNameTheirItem(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeOpener{})
	require.NoError(t, svc.CreateBundle(ctx, "x"))

	results, err := svc.AddToBundle(ctx, "x", []string{"bad one"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Err.Error(), "bad one")

	del := svc.DeleteBundles(ctx, []string{"ghost"})
	assert.Contains(t, del[0].Err.Error(), "ghost")
	assert.False(t, errors.Is(del[0].Err, ErrStorage))
}
