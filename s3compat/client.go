// Package s3compat lists buckets and objects on S3-compatible services
// (MinIO, Ceph RGW and similar) through minio-go.
package s3compat

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/sse"
	"github.com/yourusername/s3info/types"
)

const encryptionNotFoundCode = "ServerSideEncryptionConfigurationNotFoundError"

// API is the subset of the minio client used by the provider.
type API interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	GetBucketLocation(ctx context.Context, bucketName string) (string, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	GetBucketEncryption(ctx context.Context, bucketName string) (*sse.Configuration, error)
}

// Client lists buckets and objects on an S3-compatible endpoint.
type Client struct {
	api           API
	defaultRegion string
}

// NewClient creates a new minio-backed client based on the configuration.
func NewClient(cfg Config) (*Client, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return NewClientFromAPI(minioClient, cfg.Region), nil
}

// NewClientFromAPI wraps an existing API.
func NewClientFromAPI(api API, defaultRegion string) *Client {
	if defaultRegion == "" {
		defaultRegion = "us-east-1"
	}
	return &Client{api: api, defaultRegion: defaultRegion}
}

// ListBuckets lists every bucket visible to the credentials.
func (c *Client) ListBuckets(ctx context.Context) ([]types.Bucket, error) {
	infos, err := c.api.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make([]types.Bucket, 0, len(infos))
	for _, info := range infos {
		buckets = append(buckets, types.Bucket{
			Name:         info.Name,
			CreationDate: info.CreationDate,
		})
	}
	return buckets, nil
}

// GetBucketRegion returns the bucket location, falling back to the configured
// region when the service reports none.
func (c *Client) GetBucketRegion(ctx context.Context, bucketName string) (string, error) {
	location, err := c.api.GetBucketLocation(ctx, bucketName)
	if err != nil {
		return "", err
	}
	if location == "" {
		return c.defaultRegion, nil
	}
	return location, nil
}

// ListObjects walks every object under prefix recursively. minio-go pages
// through the listing internally.
func (c *Client) ListObjects(ctx context.Context, bucket types.Bucket, prefix string, fn func(types.ObjectMetadata)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := c.api.ListObjects(ctx, bucket.Name, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return obj.Err
		}
		fn(objectFromInfo(obj))
	}
	return nil
}

// GetBucketEncryption returns the default SSE algorithm of the bucket, or
// types.ErrEncryptionNotConfigured when it has none.
func (c *Client) GetBucketEncryption(ctx context.Context, bucket types.Bucket) (string, error) {
	cfg, err := c.api.GetBucketEncryption(ctx, bucket.Name)
	if err != nil {
		if minio.ToErrorResponse(err).Code == encryptionNotFoundCode {
			return "", types.ErrEncryptionNotConfigured
		}
		return "", fmt.Errorf("failed to get bucket encryption: %w", err)
	}
	if cfg == nil || len(cfg.Rules) == 0 || cfg.Rules[0].Apply.SSEAlgorithm == "" {
		return "", types.ErrEncryptionNotConfigured
	}
	return cfg.Rules[0].Apply.SSEAlgorithm, nil
}

func objectFromInfo(info minio.ObjectInfo) types.ObjectMetadata {
	storageClass := info.StorageClass
	if storageClass == "" {
		storageClass = types.DefaultStorageClass
	}
	return types.ObjectMetadata{
		Key:          info.Key,
		Size:         info.Size,
		LastModified: info.LastModified,
		StorageClass: storageClass,
	}
}

