package aws

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/yourusername/s3info/types"
)

// DefaultRegion is the region of buckets with an empty location constraint
const DefaultRegion = "us-east-1"

const encryptionNotFoundCode = "ServerSideEncryptionConfigurationNotFoundError"

// API is the subset of the S3 client used by the provider
type API interface {
	s3.ListBucketsAPIClient
	s3.ListObjectsV2APIClient
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	GetBucketEncryption(ctx context.Context, params *s3.GetBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.GetBucketEncryptionOutput, error)
}

// Client wraps the AWS S3 client with configuration
type Client struct {
	S3     API
	Config aws.Config

	mu        sync.Mutex
	regional  map[string]API
	newClient func(region string) API
}

// NewClient creates a new AWS S3 client with the specified profile and region
func NewClient(ctx context.Context, profile, region string) (*Client, error) {
	var opts []func(*config.LoadOptions) error

	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Bucket listing and location lookups work from any region
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	c := NewClientFromAPI(s3.NewFromConfig(cfg), func(region string) API {
		return s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.Region = region
		})
	})
	c.Config = cfg
	return c, nil
}

// NewClientFromAPI builds a client around an existing API. newClient creates
// the client used for requests against a bucket in a given region; when nil,
// api is used for every region.
func NewClientFromAPI(api API, newClient func(region string) API) *Client {
	return &Client{
		S3:        api,
		regional:  make(map[string]API),
		newClient: newClient,
	}
}

// forRegion returns the cached client bound to region
func (c *Client) forRegion(region string) API {
	if c.newClient == nil || region == "" {
		return c.S3
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if api, ok := c.regional[region]; ok {
		return api
	}
	api := c.newClient(region)
	c.regional[region] = api
	return api
}

// ListBuckets returns every bucket visible to the credentials. Regions are
// not resolved here.
func (c *Client) ListBuckets(ctx context.Context) ([]types.Bucket, error) {
	var buckets []types.Bucket

	paginator := s3.NewListBucketsPaginator(c.S3, &s3.ListBucketsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, bucket := range page.Buckets {
			buckets = append(buckets, types.Bucket{
				Name:         aws.ToString(bucket.Name),
				CreationDate: aws.ToTime(bucket.CreationDate),
			})
		}
	}

	return buckets, nil
}

// GetBucketRegion retrieves the region for a specific bucket
func (c *Client) GetBucketRegion(ctx context.Context, bucketName string) (string, error) {
	result, err := c.S3.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return "", err
	}

	switch result.LocationConstraint {
	case "":
		return DefaultRegion, nil
	case "EU":
		return "eu-west-1", nil
	}

	return string(result.LocationConstraint), nil
}

// ListObjects pages through the objects of a bucket under prefix and calls fn
// for each of them, in listing order.
func (c *Client) ListObjects(ctx context.Context, bucket types.Bucket, prefix string, fn func(types.ObjectMetadata)) error {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket.Name),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	paginator := s3.NewListObjectsV2Paginator(c.forRegion(bucket.Region), input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}

		for _, obj := range page.Contents {
			storageClass := string(obj.StorageClass)
			if storageClass == "" {
				storageClass = types.DefaultStorageClass
			}

			fn(types.ObjectMetadata{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				StorageClass: storageClass,
			})
		}
	}

	return nil
}

// GetBucketEncryption returns the default server-side encryption algorithm of
// a bucket, or types.ErrEncryptionNotConfigured when there is none.
func (c *Client) GetBucketEncryption(ctx context.Context, bucket types.Bucket) (string, error) {
	result, err := c.forRegion(bucket.Region).GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{
		Bucket: aws.String(bucket.Name),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == encryptionNotFoundCode {
			return "", types.ErrEncryptionNotConfigured
		}
		return "", fmt.Errorf("failed to get bucket encryption: %w", err)
	}

	cfg := result.ServerSideEncryptionConfiguration
	if cfg == nil || len(cfg.Rules) == 0 || cfg.Rules[0].ApplyServerSideEncryptionByDefault == nil {
		return "", types.ErrEncryptionNotConfigured
	}

	algorithm := string(cfg.Rules[0].ApplyServerSideEncryptionByDefault.SSEAlgorithm)
	if algorithm == "" {
		return "", types.ErrEncryptionNotConfigured
	}

	return algorithm, nil
}
