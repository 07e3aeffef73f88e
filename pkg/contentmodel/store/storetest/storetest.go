// Package storetest holds the behaviour every contentmodel.Store
// implementation is expected to share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-model/pkg/contentmodel"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) contentmodel.Store

// Sample returns a two-region descriptor with bookkeeping timestamps set.
func Sample(id string) *contentmodel.ContentType {
	// Postgres keeps microseconds.
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &contentmodel.ContentType{
		ID:    id,
		Title: id + " page",
		Group: "Pages",
		Regions: []contentmodel.Region{
			{
				ID:         "Body",
				Title:      "Body",
				ListExpand: true,
				Display:    contentmodel.RegionDisplayContent,
				Fields: []contentmodel.Field{
					{ID: contentmodel.DefaultFieldID, Title: "Body", Type: "fields.HTMLField"},
				},
			},
			{
				ID:             "Slides",
				Title:          "Slides",
				Collection:     true,
				ListTitleField: "Title",
				ListExpand:     true,
				Display:        contentmodel.RegionDisplayContent,
				Fields: []contentmodel.Field{
					{ID: "Title", Title: "Title", Type: "fields.StringField"},
					{ID: "Image", Title: "Image", Type: "fields.ImageField"},
				},
			},
		},
		Routes:        []string{"/" + id},
		CustomEditors: []contentmodel.Editor{{Title: "Preview", Component: "preview-editor"}},
		UseBlocks:     true,
		UseTags:       true,
		Created:       now,
		LastModified:  now,
	}
}

// Run exercises newStore against the shared Store contract.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("SaveAndGetByID", func(t *testing.T) {
		store := newStore(t)
		want := Sample("page")

		require.NoError(t, store.Save(ctx, want))

		got, err := store.GetByID(ctx, "page")
		require.NoError(t, err)
		assert.True(t, contentmodel.Equal(want, got), contentmodel.Diff(got, want))
		assert.True(t, want.Created.Equal(got.Created))
		assert.True(t, want.LastModified.Equal(got.LastModified))
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		store := newStore(t)

		got, err := store.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, contentmodel.ErrContentTypeNotFound)
		assert.Nil(t, got)
	})

	t.Run("SaveReplacesWholesale", func(t *testing.T) {
		store := newStore(t)
		original := Sample("page")
		require.NoError(t, store.Save(ctx, original))

		replacement := Sample("page")
		replacement.Title = "Replaced"
		replacement.Regions = replacement.Regions[:1]
		replacement.Routes = nil
		replacement.CustomEditors = nil
		require.NoError(t, store.Save(ctx, replacement))

		got, err := store.GetByID(ctx, "page")
		require.NoError(t, err)
		assert.Equal(t, "Replaced", got.Title)
		assert.Len(t, got.Regions, 1)
		assert.Empty(t, got.Routes)
		assert.Empty(t, got.CustomEditors)
	})

	t.Run("GetAllOrderedByID", func(t *testing.T) {
		store := newStore(t)
		for _, id := range []string{"news", "about", "home"} {
			require.NoError(t, store.Save(ctx, Sample(id)))
		}

		all, err := store.GetAll(ctx)
		require.NoError(t, err)

		ids := make([]string, 0, len(all))
		for _, ct := range all {
			ids = append(ids, ct.ID)
		}
		assert.Empty(t, cmp.Diff([]string{"about", "home", "news"}, ids))
	})

	t.Run("GetAll_Empty", func(t *testing.T) {
		store := newStore(t)

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, Sample("page")))

		require.NoError(t, store.Delete(ctx, "page"))

		_, err := store.GetByID(ctx, "page")
		assert.ErrorIs(t, err, contentmodel.ErrContentTypeNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "page"), contentmodel.ErrContentTypeNotFound)
	})

	t.Run("ReturnedValuesAreDetached", func(t *testing.T) {
		store := newStore(t)
		saved := Sample("page")
		require.NoError(t, store.Save(ctx, saved))
		saved.Regions[0].Title = "mutated after save"

		got, err := store.GetByID(ctx, "page")
		require.NoError(t, err)
		assert.Equal(t, "Body", got.Regions[0].Title)

		got.Regions[0].Title = "mutated after get"
		again, err := store.GetByID(ctx, "page")
		require.NoError(t, err)
		assert.Equal(t, "Body", again.Regions[0].Title)
	})
}
