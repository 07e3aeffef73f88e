package contentmodel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-model/pkg/contentmodel"
	"github.com/tendant/content-model/pkg/contentmodel/store/memory"
)

// recordingStore counts writes and can fail a Save for one id.
type recordingStore struct {
	*memory.Store
	saves   []string
	deletes []string
	failID  string
	failErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: memory.New()}
}

func (s *recordingStore) Save(ctx context.Context, t *contentmodel.ContentType) error {
	if t.ID == s.failID {
		return s.failErr
	}
	s.saves = append(s.saves, t.ID)
	return s.Store.Save(ctx, t)
}

func (s *recordingStore) Delete(ctx context.Context, id string) error {
	s.deletes = append(s.deletes, id)
	return s.Store.Delete(ctx, id)
}

type mockEventSink struct {
	mock.Mock
}

func (m *mockEventSink) ContentTypeCreated(ctx context.Context, t *contentmodel.ContentType) error {
	return m.Called(ctx, t.ID).Error(0)
}

func (m *mockEventSink) ContentTypeUpdated(ctx context.Context, t *contentmodel.ContentType) error {
	return m.Called(ctx, t.ID).Error(0)
}

func (m *mockEventSink) ContentTypeDeleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func extractTypes(t *testing.T, defs ...contentmodel.Declarer) []*contentmodel.ContentType {
	t.Helper()
	types, err := newExtractor().ExtractAll(defs...)
	require.NoError(t, err)
	return types
}

func pageDef() contentmodel.TypeDefinition {
	return contentmodel.TypeDefinition{
		ID:     "Page",
		Title:  "Standard page",
		Routes: []string{"/page"},
		Regions: []contentmodel.RegionDefinition{
			{ID: "Body", Type: "Html"},
			{ID: "Content", Fields: []contentmodel.FieldDefinition{
				{ID: "Title", Type: "String"},
				{ID: "Body", Type: "Html"},
			}},
			{ID: "Slider", Collection: true, Fields: []contentmodel.FieldDefinition{
				{ID: "Title", Type: "String"},
				{ID: "Image", Type: "Image"},
			}},
		},
		Editors: []contentmodel.EditorDefinition{{Title: "Preview", Component: "page-preview"}},
	}
}

func newsDef() contentmodel.TypeDefinition {
	return contentmodel.TypeDefinition{
		ID:      "News",
		Regions: []contentmodel.RegionDefinition{{ID: "Body", Type: "Markdown"}},
	}
}

func TestSynchronizer_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sync := contentmodel.NewSynchronizer(store)

	declared := extractTypes(t, pageDef(), newsDef())
	_, err := sync.Build(ctx, declared...)
	require.NoError(t, err)

	for _, want := range declared {
		got, err := store.GetByID(ctx, want.ID)
		require.NoError(t, err)
		diff := cmp.Diff(want, got,
			cmpopts.IgnoreFields(contentmodel.ContentType{}, "Created", "LastModified"),
			cmpopts.EquateEmpty())
		assert.Empty(t, diff)
		assert.False(t, got.Created.IsZero())
		assert.Equal(t, got.Created, got.LastModified)
	}
}

func TestSynchronizer_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	sync := contentmodel.NewSynchronizer(store)
	declared := extractTypes(t, pageDef(), newsDef())

	first, err := sync.Build(ctx, declared...)
	require.NoError(t, err)
	assert.Equal(t, []string{"Page", "News"}, first.Inserted)
	assert.True(t, first.Changed())

	second, err := sync.Build(ctx, extractTypes(t, pageDef(), newsDef())...)
	require.NoError(t, err)
	assert.Empty(t, second.Inserted)
	assert.Empty(t, second.Updated)
	assert.Equal(t, []string{"Page", "News"}, second.Unchanged)
	assert.False(t, second.Changed())

	assert.Equal(t, []string{"Page", "News"}, store.saves)
}

func TestSynchronizer_UpdateReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sync := contentmodel.NewSynchronizer(store)

	_, err := sync.Build(ctx, extractTypes(t, pageDef())...)
	require.NoError(t, err)
	before, err := store.GetByID(ctx, "Page")
	require.NoError(t, err)

	changed := pageDef()
	changed.Title = "Page v2"
	changed.Regions = changed.Regions[:1]
	changed.Editors = nil

	result, err := sync.Build(ctx, extractTypes(t, changed)...)
	require.NoError(t, err)
	assert.Equal(t, []string{"Page"}, result.Updated)

	after, err := store.GetByID(ctx, "Page")
	require.NoError(t, err)
	assert.Equal(t, "Page v2", after.Title)
	assert.Len(t, after.Regions, 1)
	assert.Empty(t, after.CustomEditors)
	assert.Equal(t, before.Created, after.Created)
	assert.False(t, after.LastModified.Before(before.LastModified))
}

func TestSynchronizer_DeleteOrphans(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sync := contentmodel.NewSynchronizer(store)

	_, err := sync.Build(ctx, extractTypes(t, pageDef(), newsDef())...)
	require.NoError(t, err)

	_, err = sync.Build(ctx, extractTypes(t, pageDef())...)
	require.NoError(t, err)

	deleted, err := sync.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"News"}, deleted)

	_, err = store.GetByID(ctx, "News")
	assert.ErrorIs(t, err, contentmodel.ErrContentTypeNotFound)
	_, err = store.GetByID(ctx, "Page")
	assert.NoError(t, err)
}

func TestSynchronizer_BuildNeverDeletes(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	sync := contentmodel.NewSynchronizer(store)

	_, err := sync.Build(ctx, extractTypes(t, pageDef(), newsDef())...)
	require.NoError(t, err)
	_, err = sync.Build(ctx, extractTypes(t, pageDef())...)
	require.NoError(t, err)

	assert.Empty(t, store.deletes)
	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSynchronizer_DeleteOrphansWithoutBuild(t *testing.T) {
	sync := contentmodel.NewSynchronizer(memory.New())

	_, err := sync.DeleteOrphans(context.Background())
	assert.ErrorIs(t, err, contentmodel.ErrNoBuild)
}

func TestSynchronizer_PartialFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	store := newRecordingStore()
	store.failID = "News"
	store.failErr = boom
	sync := contentmodel.NewSynchronizer(store)

	other := contentmodel.TypeDefinition{ID: "Other", Regions: []contentmodel.RegionDefinition{{ID: "Body", Type: "Text"}}}
	result, err := sync.Build(ctx, extractTypes(t, pageDef(), newsDef(), other)...)
	assert.Equal(t, boom, err)
	assert.Equal(t, []string{"Page"}, result.Inserted)

	_, err = store.GetByID(ctx, "Page")
	assert.NoError(t, err)
	_, err = store.GetByID(ctx, "Other")
	assert.ErrorIs(t, err, contentmodel.ErrContentTypeNotFound)

	// Ids of the failed build still count as touched.
	require.NoError(t, store.Store.Save(ctx, &contentmodel.ContentType{ID: "Legacy"}))
	deleted, err := sync.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Legacy"}, deleted)
}

func TestSynchronizer_RejectsInvalidDescriptors(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	sync := contentmodel.NewSynchronizer(store)

	valid := extractTypes(t, pageDef())[0]
	invalid := &contentmodel.ContentType{
		ID: "Broken",
		Regions: []contentmodel.Region{
			{ID: "Body", Fields: []contentmodel.Field{{ID: "Default", Type: "fields.TextField"}}},
			{ID: "Body", Fields: []contentmodel.Field{{ID: "Default", Type: "fields.TextField"}}},
		},
	}

	_, err := sync.Build(ctx, valid, invalid)
	assert.ErrorIs(t, err, contentmodel.ErrSchemaValidation)
	assert.Empty(t, store.saves)

	_, err = sync.Build(ctx, valid, valid)
	assert.ErrorIs(t, err, contentmodel.ErrSchemaValidation)
	assert.Empty(t, store.saves)
}

func TestSynchronizer_RejectedBuildClearsTouchedSet(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	sync := contentmodel.NewSynchronizer(store)

	_, err := sync.Build(ctx, extractTypes(t, pageDef(), newsDef())...)
	require.NoError(t, err)

	page := extractTypes(t, pageDef())[0]
	_, err = sync.Build(ctx, page, page)
	require.ErrorIs(t, err, contentmodel.ErrSchemaValidation)

	deleted, err := sync.DeleteOrphans(ctx)
	assert.ErrorIs(t, err, contentmodel.ErrNoBuild)
	assert.Empty(t, deleted)
	assert.Empty(t, store.deletes)

	_, err = store.GetByID(ctx, "News")
	assert.NoError(t, err)
}

func TestSynchronizer_DryRun(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	require.NoError(t, store.Store.Save(ctx, &contentmodel.ContentType{
		ID:      "Legacy",
		Regions: []contentmodel.Region{{ID: "Body", Fields: []contentmodel.Field{{ID: "Default", Type: "fields.TextField"}}}},
	}))

	sync := contentmodel.NewSynchronizer(store, contentmodel.WithDryRun(true))
	result, err := sync.Build(ctx, extractTypes(t, pageDef())...)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, []string{"Page"}, result.Inserted)

	deleted, err := sync.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Legacy"}, deleted)

	assert.Empty(t, store.saves)
	assert.Empty(t, store.deletes)
	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Legacy", all[0].ID)
}

func TestSynchronizer_Events(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	events := new(mockEventSink)
	events.On("ContentTypeCreated", ctx, "Page").Return(nil).Once()
	events.On("ContentTypeCreated", ctx, "News").Return(errors.New("sink down")).Once()
	events.On("ContentTypeUpdated", ctx, "Page").Return(nil).Once()
	events.On("ContentTypeDeleted", ctx, "News").Return(nil).Once()

	sync := contentmodel.NewSynchronizer(store, contentmodel.WithSyncEventSink(events))

	_, err := sync.Build(ctx, extractTypes(t, pageDef(), newsDef())...)
	require.NoError(t, err, "event sink failures do not fail the build")

	changed := pageDef()
	changed.Title = "Page v2"
	_, err = sync.Build(ctx, extractTypes(t, changed)...)
	require.NoError(t, err)

	_, err = sync.DeleteOrphans(ctx)
	require.NoError(t, err)

	events.AssertExpectations(t)
}
