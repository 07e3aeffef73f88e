package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-model/pkg/contentmodel"
	"github.com/tendant/content-model/pkg/contentmodel/store/sqlite"
	"github.com/tendant/content-model/pkg/contentmodel/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) contentmodel.Store {
		store, err := sqlite.Open(filepath.Join(t.TempDir(), "content-model.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		return store
	})
}

func TestSQLiteStore_InMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) contentmodel.Store {
		store, err := sqlite.Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		return store
	})
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "content-model.db")

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, storetest.Sample("page")))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetByID(ctx, "page")
	require.NoError(t, err)
	assert.Equal(t, "page page", got.Title)
}
