package s3compat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/s3info/types"
)

type fakeAPI struct {
	buckets   []minio.BucketInfo
	locations map[string]string
	objects   []minio.ObjectInfo
	opts      minio.ListObjectsOptions
	sseConfig *sse.Configuration
	sseErr    error
}

func (f *fakeAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	return f.buckets, nil
}

func (f *fakeAPI) GetBucketLocation(ctx context.Context, bucketName string) (string, error) {
	loc, ok := f.locations[bucketName]
	if !ok {
		return "", errors.New("NoSuchBucket")
	}
	return loc, nil
}

func (f *fakeAPI) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	f.opts = opts
	ch := make(chan minio.ObjectInfo, len(f.objects))
	for _, obj := range f.objects {
		ch <- obj
	}
	close(ch)
	return ch
}

func (f *fakeAPI) GetBucketEncryption(ctx context.Context, bucketName string) (*sse.Configuration, error) {
	return f.sseConfig, f.sseErr
}

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		client, err := NewClient(Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "us-east-1",
		})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		client, err := NewClient(Config{
			Endpoint:  "https://s3.example.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
		})
		assert.NoError(t, err)
		assert.Equal(t, "us-east-1", client.defaultRegion)
	})
}

func TestListBucketsAndRegion(t *testing.T) {
	created := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	fake := &fakeAPI{
		buckets:   []minio.BucketInfo{{Name: "a", CreationDate: created}},
		locations: map[string]string{"a": "", "b": "eu-central-1"},
	}
	client := NewClientFromAPI(fake, "home")
	ctx := context.Background()

	buckets, err := client.ListBuckets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Bucket{{Name: "a", CreationDate: created}}, buckets)

	region, err := client.GetBucketRegion(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "home", region)

	region, err = client.GetBucketRegion(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", region)

	_, err = client.GetBucketRegion(ctx, "c")
	assert.Error(t, err)
}

func TestListObjects(t *testing.T) {
	fake := &fakeAPI{objects: []minio.ObjectInfo{
		{Key: "logs/a", Size: 5},
		{Key: "logs/b", Size: 7, StorageClass: "REDUCED_REDUNDANCY"},
	}}
	client := NewClientFromAPI(fake, "")

	var got []types.ObjectMetadata
	err := client.ListObjects(context.Background(), types.Bucket{Name: "x"}, "logs/", func(obj types.ObjectMetadata) {
		got = append(got, obj)
	})
	require.NoError(t, err)
	assert.Equal(t, "logs/", fake.opts.Prefix)
	assert.True(t, fake.opts.Recursive)
	require.Len(t, got, 2)
	assert.Equal(t, "STANDARD", got[0].StorageClass)
	assert.Equal(t, "REDUCED_REDUNDANCY", got[1].StorageClass)

	fake.objects = append(fake.objects, minio.ObjectInfo{Err: errors.New("AccessDenied")})
	err = client.ListObjects(context.Background(), types.Bucket{Name: "x"}, "", func(types.ObjectMetadata) {})
	assert.Error(t, err)
}

func TestGetBucketEncryption(t *testing.T) {
	ctx := context.Background()
	bucket := types.Bucket{Name: "x"}

	client := NewClientFromAPI(&fakeAPI{sseConfig: sse.NewConfigurationSSES3()}, "")
	alg, err := client.GetBucketEncryption(ctx, bucket)
	require.NoError(t, err)
	assert.Equal(t, "AES256", alg)

	client = NewClientFromAPI(&fakeAPI{sseErr: minio.ErrorResponse{Code: "ServerSideEncryptionConfigurationNotFoundError"}}, "")
	_, err = client.GetBucketEncryption(ctx, bucket)
	assert.ErrorIs(t, err, types.ErrEncryptionNotConfigured)

	client = NewClientFromAPI(&fakeAPI{sseErr: errors.New("connection refused")}, "")
	_, err = client.GetBucketEncryption(ctx, bucket)
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrEncryptionNotConfigured)
}
