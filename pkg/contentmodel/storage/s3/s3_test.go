package s3_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-model/pkg/contentmodel"
	"github.com/tendant/content-model/pkg/contentmodel/storage"
	s3storage "github.com/tendant/content-model/pkg/contentmodel/storage/s3"
	"github.com/tendant/content-model/pkg/contentmodel/store/objectstore"
	"github.com/tendant/content-model/pkg/contentmodel/store/storetest"
)

func TestS3Backend_Configuration(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyBucket", func(t *testing.T) {
		_, err := s3storage.New(ctx, s3storage.Config{Region: "us-east-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket name is required")
	})

	t.Run("InvalidSSEAlgorithm", func(t *testing.T) {
		_, err := s3storage.New(ctx, s3storage.Config{
			Bucket:       "content-model",
			EnableSSE:    true,
			SSEAlgorithm: "rot13",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid SSE algorithm")
	})

	t.Run("StaticCredentials", func(t *testing.T) {
		backend, err := s3storage.New(ctx, s3storage.Config{
			Bucket:          "content-model",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			Endpoint:        "http://localhost:9000",
			UsePathStyle:    true,
		})
		require.NoError(t, err)
		assert.NotNil(t, backend)
	})
}

// newTestBackend connects to the S3-compatible service at TEST_S3_ENDPOINT
// (MinIO in CI) or skips.
func newTestBackend(t *testing.T) *s3storage.Backend {
	t.Helper()

	endpoint := os.Getenv("TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_S3_ENDPOINT not set")
	}

	backend, err := s3storage.New(context.Background(), s3storage.Config{
		Bucket:                 "content-model-test",
		Prefix:                 fmt.Sprintf("run-%d/", time.Now().UnixNano()),
		AccessKeyID:            os.Getenv("TEST_S3_ACCESS_KEY"),
		SecretAccessKey:        os.Getenv("TEST_S3_SECRET_KEY"),
		Endpoint:               endpoint,
		UsePathStyle:           true,
		CreateBucketIfNotExist: true,
	})
	require.NoError(t, err)
	return backend
}

func TestS3Backend_Integration(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "content-types/page.json", []byte(`{"id":"page"}`)))

	got, err := backend.Get(ctx, "content-types/page.json")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"page"}`, string(got))

	keys, err := backend.List(ctx, "content-types/")
	require.NoError(t, err)
	assert.Equal(t, []string{"content-types/page.json"}, keys)

	require.NoError(t, backend.Delete(ctx, "content-types/page.json"))
	_, err = backend.Get(ctx, "content-types/page.json")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	assert.ErrorIs(t, backend.Delete(ctx, "content-types/page.json"), storage.ErrObjectNotFound)
}

func TestS3Backend_DescriptorStore(t *testing.T) {
	backend := newTestBackend(t)
	n := 0
	storetest.Run(t, func(t *testing.T) contentmodel.Store {
		n++
		return objectstore.New(backend, objectstore.WithPrefix(fmt.Sprintf("suite-%d/", n)))
	})
}
