package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/Houeta/rentcatalog/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMutatorFixture(t *testing.T, src *fakeSource) (*catalog.Cache[models.Camera], *catalog.Mutator[models.Camera]) {
	t.Helper()

	cache := catalog.NewCache(discardLogger(), models.KindCamera, session.New("token", ""), src.FetchAll, nil)
	cache.EnsureLoaded(t.Context())
	require.Equal(t, 1, src.calls())

	return cache, catalog.NewMutator[models.Camera](discardLogger(), cache, src)
}

func TestMutator_Create(t *testing.T) {
	t.Parallel()

	t.Run("refreshes the list", func(t *testing.T) {
		t.Parallel()

		src := newFakeSource(camera("a", "Canon", "R5"))
		cache, mutator := newMutatorFixture(t, src)

		created, err := mutator.Create(t.Context(), models.Draft{Brand: "Sony", Model: "A7"})
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, 2, src.calls())
		assert.Equal(t, []string{"a", "new"}, ids(cache.Items()))
	})

	t.Run("failure leaves cache untouched", func(t *testing.T) {
		t.Parallel()

		src := newFakeSource(camera("a", "Canon", "R5"))
		cache, mutator := newMutatorFixture(t, src)
		src.writeErr = errors.New("boom")

		created, err := mutator.Create(t.Context(), models.Draft{Brand: "Sony", Model: "A7"})
		require.Error(t, err)
		assert.Nil(t, created)
		assert.Contains(t, err.Error(), "catalog.Mutator.Create")

		assert.Equal(t, 1, src.calls())
		assert.Equal(t, []string{"a"}, ids(cache.Items()))
	})
}

func TestMutator_Update(t *testing.T) {
	t.Parallel()

	t.Run("echo is applied in place without refetch", func(t *testing.T) {
		t.Parallel()

		src := newFakeSource(camera("a", "Canon", "R5"), camera("b", "Sony", "A7"))
		cache, mutator := newMutatorFixture(t, src)

		updated, err := mutator.Update(t.Context(), "a", models.Draft{Brand: "Canon", Model: "R5 II"})
		require.NoError(t, err)
		require.NotNil(t, updated)

		assert.Equal(t, 1, src.calls())
		assert.Equal(t, []string{"a", "b"}, ids(cache.Items()))
		item, ok := cache.Get("a")
		require.True(t, ok)
		assert.Equal(t, "R5 II", item.Model)
	})

	t.Run("no echo triggers refresh", func(t *testing.T) {
		t.Parallel()

		src := newFakeSource(camera("a", "Canon", "R5"))
		cache, mutator := newMutatorFixture(t, src)
		src.echo = false

		updated, err := mutator.Update(t.Context(), "a", models.Draft{Brand: "Canon", Model: "R6"})
		require.NoError(t, err)
		assert.Nil(t, updated)

		assert.Equal(t, 2, src.calls())
		item, _ := cache.Get("a")
		assert.Equal(t, "R6", item.Model)
	})

	t.Run("failure leaves cache untouched", func(t *testing.T) {
		t.Parallel()

		src := newFakeSource(camera("a", "Canon", "R5"))
		cache, mutator := newMutatorFixture(t, src)
		src.writeErr = errors.New("boom")

		_, err := mutator.Update(t.Context(), "a", models.Draft{Brand: "Canon", Model: "R6"})
		require.Error(t, err)

		item, _ := cache.Get("a")
		assert.Equal(t, "R5", item.Model)
		assert.Equal(t, 1, src.calls())
	})
}

func TestMutator_Delete(t *testing.T) {
	t.Parallel()

	t.Run("confirmed delete removes locally", func(t *testing.T) {
		t.Parallel()

		src := newFakeSource(camera("a", "Canon", "R5"), camera("b", "Sony", "A7"))
		cache, mutator := newMutatorFixture(t, src)
		confirm := &answer{yes: true}

		require.NoError(t, mutator.Delete(t.Context(), "a", confirm))

		assert.Equal(t, "Delete Canon R5 (a)?", confirm.prompt)
		assert.Equal(t, []string{"a"}, src.deleted)
		assert.Equal(t, []string{"b"}, ids(cache.Items()))
		assert.Equal(t, 1, src.calls(), "no refetch after delete")
	})

	t.Run("declined delete does nothing", func(t *testing.T) {
		t.Parallel()

		src := newFakeSource(camera("a", "Canon", "R5"))
		cache, mutator := newMutatorFixture(t, src)

		err := mutator.Delete(t.Context(), "a", &answer{yes: false})
		require.ErrorIs(t, err, catalog.ErrDeleteDeclined)

		assert.Empty(t, src.deleted)
		assert.Equal(t, []string{"a"}, ids(cache.Items()))
	})

	t.Run("confirmation error", func(t *testing.T) {
		t.Parallel()

		src := newFakeSource(camera("a", "Canon", "R5"))
		_, mutator := newMutatorFixture(t, src)
		cancelled := errors.New("prompt closed")

		err := mutator.Delete(t.Context(), "a", &answer{err: cancelled})
		require.ErrorIs(t, err, cancelled)
		assert.Empty(t, src.deleted)
	})

	t.Run("remote failure keeps item", func(t *testing.T) {
		t.Parallel()

		src := newFakeSource(camera("a", "Canon", "R5"))
		cache, mutator := newMutatorFixture(t, src)
		src.writeErr = errors.New("boom")

		require.Error(t, mutator.Delete(t.Context(), "a", &answer{yes: true}))
		assert.Equal(t, []string{"a"}, ids(cache.Items()))
	})

	t.Run("unknown id uses a generic prompt", func(t *testing.T) {
		t.Parallel()

		src := newFakeSource(camera("a", "Canon", "R5"))
		_, mutator := newMutatorFixture(t, src)
		confirm := catalog.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
			assert.Equal(t, "Delete item zzz?", prompt)
			return true, nil
		})

		require.NoError(t, mutator.Delete(t.Context(), "zzz", confirm))
	})
}
