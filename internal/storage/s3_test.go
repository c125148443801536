package storage

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"fitnote/planner/internal/config"
	"fitnote/planner/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "", normalizePrefix(""))
	assert.Equal(t, "", normalizePrefix("/"))
	assert.Equal(t, "users/1/", normalizePrefix("/users/1/"))
	assert.Equal(t, "fitnote/", normalizePrefix("fitnote"))
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://localhost:9000", endpointURL("http://localhost:9000", true))
	assert.Equal(t, "https://s3.example.net", endpointURL("https://s3.example.net", false))
}

func TestS3ObjectKey(t *testing.T) {
	s := &s3Storage{prefix: "fitnote/"}
	assert.Equal(t, "fitnote/fitnote_workout_plan.json", s.objectKey(repository.PlanKey))
}

func TestS3Storage(t *testing.T) {
	bucket := os.Getenv("TEST_S3_BUCKET")
	if bucket == "" {
		t.Skip("TEST_S3_BUCKET not set")
	}
	store, err := NewS3Storage(config.S3Config{
		Endpoint:        os.Getenv("TEST_S3_ENDPOINT"),
		UseSSL:          os.Getenv("TEST_S3_USE_SSL") != "false",
		Region:          os.Getenv("TEST_S3_REGION"),
		AccessKeyID:     os.Getenv("TEST_S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("TEST_S3_SECRET_ACCESS_KEY"),
		BucketName:      bucket,
		Prefix:          "test-" + uuid.NewString(),
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, repository.PlanKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Put(ctx, repository.PlanKey, []byte(`{"sections":[]}`)))
	got, err := store.Get(ctx, repository.PlanKey)
	require.NoError(t, err)
	assert.Equal(t, `{"sections":[]}`, string(got))

	url, err := store.GeneratePresignedDownloadURL(ctx, repository.PlanKey, time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, repository.PlanKey))

	require.NoError(t, store.Delete(ctx, repository.PlanKey))
}
