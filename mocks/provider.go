package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yourusername/s3info/types"
)

// Provider is a mock implementation of profiler.Provider
type Provider struct {
	mock.Mock
}

func (m *Provider) ListBuckets(ctx context.Context) ([]types.Bucket, error) {
	args := m.Called(ctx)
	if buckets, ok := args.Get(0).([]types.Bucket); ok {
		return buckets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Provider) GetBucketRegion(ctx context.Context, bucketName string) (string, error) {
	args := m.Called(ctx, bucketName)
	return args.String(0), args.Error(1)
}

// ListObjects feeds the objects given to Return, in order, to fn.
func (m *Provider) ListObjects(ctx context.Context, bucket types.Bucket, prefix string, fn func(types.ObjectMetadata)) error {
	args := m.Called(ctx, bucket, prefix)
	if objects, ok := args.Get(0).([]types.ObjectMetadata); ok {
		for _, obj := range objects {
			fn(obj)
		}
	}
	return args.Error(1)
}

func (m *Provider) GetBucketEncryption(ctx context.Context, bucket types.Bucket) (string, error) {
	args := m.Called(ctx, bucket)
	return args.String(0), args.Error(1)
}
