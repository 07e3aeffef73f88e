package presets_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-model/pkg/contentmodel"
	"github.com/tendant/content-model/pkg/contentmodel/presets"
)

var page = contentmodel.TypeDefinition{
	ID:      "Page",
	Regions: []contentmodel.RegionDefinition{{ID: "Body", Type: "Html"}},
}

func TestNewDevelopment(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dev-data")

	svc, cleanup, err := presets.NewDevelopment(presets.WithDevDataDir(dir))
	require.NoError(t, err)
	require.NotNil(t, cleanup)

	ctx := context.Background()
	result, err := svc.Build(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Page"}, result.Inserted)

	_, err = os.Stat(filepath.Join(dir, "content-model.db"))
	require.NoError(t, err)

	cleanup()
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "data directory should be removed after cleanup")
}

func TestNewTesting(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		svc := presets.NewTesting(t)

		types, err := svc.ListContentTypes(context.Background())
		require.NoError(t, err)
		assert.Empty(t, types)
	})

	t.Run("WithTypes", func(t *testing.T) {
		svc := presets.NewTesting(t, presets.WithTestTypes(page))

		inst, err := svc.Create(context.Background(), "Page")
		require.NoError(t, err)
		assert.Equal(t, []string{"Body"}, inst.Regions.Keys())
	})

	t.Run("Isolated", func(t *testing.T) {
		a := presets.NewTesting(t, presets.WithTestTypes(page))
		b := presets.NewTesting(t)

		_, err := a.GetContentType(context.Background(), "Page")
		require.NoError(t, err)
		_, err = b.GetContentType(context.Background(), "Page")
		assert.ErrorIs(t, err, contentmodel.ErrUnknownContentType)
	})
}

func TestNewProduction_RequiresPersistentStore(t *testing.T) {
	_, _, err := presets.NewProduction(context.Background(), "PRESETS_TEST_")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent store")
}

func TestNewProduction_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prod.db")
	t.Setenv("PRESETS_TEST_DATABASE_URL", "sqlite://"+path)

	svc, cleanup, err := presets.NewProduction(context.Background(), "PRESETS_TEST_")
	require.NoError(t, err)
	defer cleanup()

	_, err = svc.Build(context.Background(), page)
	require.NoError(t, err)
}
