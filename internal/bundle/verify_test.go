package bundle

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyCleanStore(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	issues, err := s.Verify(ctx)
	require.NoError(t, err)
	assert.Empty(t, issues, "a store that was never written is clean")

	require.NoError(t, s.Create(ctx, "x"))
	require.NoError(t, s.SetLinks(ctx, "x", []string{"https://a.com"}))
	require.NoError(t, s.Create(ctx, "empty"))

	issues, err = s.Verify(ctx)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestVerifyFindsProblems(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	require.NoError(t, s.Create(ctx, "x"))
	require.NoError(t, s.Create(ctx, "y"))

	names, err := s.Names(ctx)
	require.NoError(t, err)
	require.Len(t, names, 2)

	entries, err := s.entries(ctx)
	require.NoError(t, err)
	xNS, yNS := entries[0].namespace(), entries[1].namespace()

	// Bad link content in x, y's record gone, and a stray record.
	require.NoError(t, kv.Set(ctx, xNS, "links", []byte(`["https://a.com", "nope", 42]`)))
	require.NoError(t, kv.Remove(ctx, yNS))
	require.NoError(t, kv.Set(ctx, "bundle-stray", "links", []byte(`[]`)))

	issues, err := s.Verify(ctx)
	require.NoError(t, err)

	var text []string
	for _, i := range issues {
		text = append(text, i.String())
	}
	joined := strings.Join(text, "\n")

	assert.Contains(t, joined, `bundle "x" /links/2`)
	assert.Contains(t, joined, `"nope" is not a valid url`)
	assert.Contains(t, joined, `bundle "y": link record is missing`)
	assert.Contains(t, joined, "record bundle-stray is not referenced")
}

func TestVerifyReportsNewerFormat(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	require.NoError(t, s.Create(ctx, "x"))
	require.NoError(t, kv.Set(ctx, "index", "version", []byte(`"3.1.0"`)))

	issues, err := s.Verify(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	assert.Equal(t, "/version", issues[0].Path)
	assert.Contains(t, issues[0].Message, "unsupported store format")
}

func TestVerifyReportsSchemaViolations(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	require.NoError(t, kv.Set(ctx, "index", "bundles", []byte(`[{"name": "", "id": "not-a-uuid"}]`)))

	issues, err := s.Verify(ctx)
	require.NoError(t, err)

	paths := map[string]bool{}
	for _, i := range issues {
		if i.Bundle == "" {
			paths[i.Path] = true
		}
	}
	assert.True(t, paths["/bundles/0/name"], "issues: %v", issues)
	assert.True(t, paths["/bundles/0/id"], "issues: %v", issues)
}
