package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-model/pkg/contentmodel"
	"github.com/tendant/content-model/pkg/contentmodel/store/cache"
	"github.com/tendant/content-model/pkg/contentmodel/store/memory"
	"github.com/tendant/content-model/pkg/contentmodel/store/storetest"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*contentmodel.ContentType, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*contentmodel.ContentType)
	return t, args.Error(1)
}

func (m *mockStore) GetAll(ctx context.Context) ([]*contentmodel.ContentType, error) {
	args := m.Called(ctx)
	types, _ := args.Get(0).([]*contentmodel.ContentType)
	return types, args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, t *contentmodel.ContentType) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestCacheStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) contentmodel.Store {
		return cache.New(memory.New())
	})
}

func TestCacheStore_ReadThrough(t *testing.T) {
	ctx := context.Background()
	next := new(mockStore)
	next.On("GetByID", ctx, "page").Return(storetest.Sample("page"), nil).Once()

	store := cache.New(next)
	for i := 0; i < 3; i++ {
		got, err := store.GetByID(ctx, "page")
		require.NoError(t, err)
		assert.Equal(t, "page", got.ID)
	}

	next.AssertExpectations(t)
}

func TestCacheStore_GetAllServesMisses(t *testing.T) {
	ctx := context.Background()
	next := new(mockStore)
	next.On("GetAll", ctx).Return([]*contentmodel.ContentType{storetest.Sample("home")}, nil).Once()

	store := cache.New(next)
	_, err := store.GetAll(ctx)
	require.NoError(t, err)

	_, err = store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, contentmodel.ErrContentTypeNotFound)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	next.AssertExpectations(t)
}

func TestCacheStore_FailedSaveInvalidates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	page := storetest.Sample("page")

	next := new(mockStore)
	next.On("GetByID", ctx, "page").Return(page, nil).Twice()
	next.On("Save", ctx, mock.Anything).Return(boom).Once()

	store := cache.New(next)
	_, err := store.GetByID(ctx, "page")
	require.NoError(t, err)

	err = store.Save(ctx, storetest.Sample("page"))
	assert.ErrorIs(t, err, boom)

	_, err = store.GetByID(ctx, "page")
	require.NoError(t, err)

	next.AssertExpectations(t)
}
