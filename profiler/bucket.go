package profiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/s3info/types"
	"go.uber.org/zap"
)

// progressInterval is the number of listed objects between progress logs
const progressInterval = 10000

// BucketAnalyzer computes the statistics of a single bucket
type BucketAnalyzer struct {
	provider Provider
	filter   types.FilterOptions
	prefix   string
	log      *zap.Logger
}

// NewBucketAnalyzer creates a new bucket analyzer
func NewBucketAnalyzer(provider Provider, filter types.FilterOptions, log *zap.Logger) *BucketAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &BucketAnalyzer{
		provider: provider,
		filter:   filter,
		prefix:   NormalizePrefix(filter.Prefix),
		log:      log,
	}
}

// AnalyzeBucket lists the bucket's objects and aggregates them. It returns a
// nil summary and no error when the bucket does not pass the name filter.
func (ba *BucketAnalyzer) AnalyzeBucket(ctx context.Context, bucket types.Bucket) (*types.BucketSummary, error) {
	if !ba.filter.MatchesBucket(bucket.Name) {
		return nil, nil
	}

	log := ba.log.With(zap.String("bucket", bucket.Name), zap.String("region", bucket.Region))

	summary := &types.BucketSummary{
		Name:           bucket.Name,
		Region:         bucket.Region,
		CreationDate:   bucket.CreationDate,
		StorageClasses: make(map[string]types.StorageClassStats),
	}
	metadata := NewMetadataAnalyzer(summary)

	listed := 0
	err := ba.provider.ListObjects(ctx, bucket, ba.prefix, func(obj types.ObjectMetadata) {
		listed++
		if listed%progressInterval == 0 {
			log.Debug("listing objects", zap.Int("processed", listed))
		}

		if !ba.filter.MatchesStorageClass(obj.StorageClass) {
			return
		}
		metadata.Add(obj)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	summary.Encryption = ba.encryption(ctx, bucket, log)

	log.Debug("bucket analyzed",
		zap.Int("listed", listed),
		zap.Int64("files", summary.TotalObjects),
		zap.Int64("bytes", summary.TotalSize))

	return summary, nil
}

// encryption resolves the bucket's default encryption; any failure reads as disabled
func (ba *BucketAnalyzer) encryption(ctx context.Context, bucket types.Bucket, log *zap.Logger) string {
	algorithm, err := ba.provider.GetBucketEncryption(ctx, bucket)
	if err != nil {
		if !errors.Is(err, types.ErrEncryptionNotConfigured) {
			log.Debug("encryption lookup failed", zap.Error(err))
		}
		return types.EncryptionDisabled
	}
	if algorithm == "" {
		return types.EncryptionDisabled
	}
	return algorithm
}

// ListBucketsByRegion lists all buckets, resolves their regions and groups
// them by region in order of first appearance. Buckets outside the region
// filter are dropped. Any lookup error aborts the enumeration.
func ListBucketsByRegion(ctx context.Context, provider Provider, filter types.FilterOptions) ([]types.RegionBuckets, error) {
	buckets, err := provider.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}

	var groups []types.RegionBuckets
	index := make(map[string]int)

	for _, bucket := range buckets {
		region, err := provider.GetBucketRegion(ctx, bucket.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to get region for bucket %s: %w", bucket.Name, err)
		}
		if !filter.MatchesRegion(region) {
			continue
		}
		bucket.Region = region

		i, ok := index[region]
		if !ok {
			i = len(groups)
			index[region] = i
			groups = append(groups, types.RegionBuckets{Region: region})
		}
		groups[i].Buckets = append(groups[i].Buckets, bucket)
	}

	return groups, nil
}
