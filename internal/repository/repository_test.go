package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type document struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	return map[string]Backend{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	}
}

func TestBackend_CreateTwiceKeepsFirstDocument(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := NewCollection[document](b, "things")

			require.NoError(t, c.Create(ctx, "a1", document{Name: "first", Count: 1}))

			err := c.Create(ctx, "a1", document{Name: "second", Count: 2})
			require.ErrorIs(t, err, ErrExists)

			got, err := c.Read(ctx, "a1")
			require.NoError(t, err)
			assert.Equal(t, document{Name: "first", Count: 1}, got)
		})
	}
}

func TestBackend_ReadUpdateDeleteList(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := NewCollection[document](b, "things")

			_, err := c.Read(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			ids, err := c.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, ids)

			require.NoError(t, c.Update(ctx, "b2", document{Name: "upserted"}))
			require.NoError(t, c.Create(ctx, "a1", document{Name: "created"}))
			require.NoError(t, c.Update(ctx, "a1", document{Name: "overwritten", Count: 7}))

			got, err := c.Read(ctx, "a1")
			require.NoError(t, err)
			assert.Equal(t, document{Name: "overwritten", Count: 7}, got)

			ids, err = c.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a1", "b2"}, ids)

			require.NoError(t, c.Delete(ctx, "a1"))
			require.ErrorIs(t, c.Delete(ctx, "a1"), ErrNotFound)

			_, err = c.Read(ctx, "a1")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestBackend_RejectsPathLikeKeys(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, id := range []string{"", "..", "a/b", `a\b`} {
				err := b.Create(ctx, "things", id, []byte(`{}`))
				assert.ErrorIs(t, err, ErrInvalidKey, "id %q", id)
			}
		})
	}
}

func TestCollection_DecodeError(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryStore()
	require.NoError(t, b.Create(ctx, "things", "bad", []byte("not json")))

	_, err := NewCollection[document](b, "things").Read(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
