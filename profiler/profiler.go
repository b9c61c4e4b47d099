package profiler

import (
	"context"
	"fmt"

	"github.com/yourusername/s3info/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Provider is the storage service the profiler reads from
type Provider interface {
	// ListBuckets lists every bucket visible to the credentials.
	ListBuckets(ctx context.Context) ([]types.Bucket, error)
	// GetBucketRegion resolves the region a bucket lives in.
	GetBucketRegion(ctx context.Context, bucketName string) (string, error)
	// ListObjects pages through the objects under prefix, calling fn in listing order.
	ListObjects(ctx context.Context, bucket types.Bucket, prefix string, fn func(types.ObjectMetadata)) error
	// GetBucketEncryption returns the bucket's default encryption algorithm.
	GetBucketEncryption(ctx context.Context, bucket types.Bucket) (string, error)
}

// RegionSink receives each region's results once all of its buckets are done
type RegionSink interface {
	WriteRegion(report types.RegionReport) error
}

// Profiler orchestrates the profiling of buckets, one region at a time
type Profiler struct {
	provider    Provider
	filter      types.FilterOptions
	analyzer    *BucketAnalyzer
	concurrency int
	log         *zap.Logger
}

// NewProfiler creates a new profiler instance. concurrency caps the number of
// buckets analyzed at once within a region; 0 starts one worker per bucket.
func NewProfiler(provider Provider, filter types.FilterOptions, concurrency int, log *zap.Logger) *Profiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Profiler{
		provider:    provider,
		filter:      filter,
		analyzer:    NewBucketAnalyzer(provider, filter, log),
		concurrency: concurrency,
		log:         log,
	}
}

// Run enumerates buckets, profiles every region in turn and hands each
// region's report to the sinks. Enumeration and sink errors abort the run.
func (p *Profiler) Run(ctx context.Context, sinks ...RegionSink) error {
	regions, err := p.Enumerate(ctx)
	if err != nil {
		return err
	}
	return p.Profile(ctx, regions, sinks...)
}

// Enumerate lists the buckets that pass the region filter, grouped by region
func (p *Profiler) Enumerate(ctx context.Context) ([]types.RegionBuckets, error) {
	regions, err := ListBucketsByRegion(ctx, p.provider, p.filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	p.log.Info("buckets enumerated", zap.Int("regions", len(regions)))
	return regions, nil
}

// Profile runs one wave per region, in order, and hands each region's report
// to the sinks as soon as its wave is done.
func (p *Profiler) Profile(ctx context.Context, regions []types.RegionBuckets, sinks ...RegionSink) error {
	for _, rb := range regions {
		report := p.ProfileRegion(ctx, rb)
		for _, sink := range sinks {
			if err := sink.WriteRegion(report); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProfileRegion analyzes all buckets of a region concurrently and waits for
// them. Buckets excluded by the name filter or whose listing failed are left
// out; the remaining summaries keep enumeration order.
func (p *Profiler) ProfileRegion(ctx context.Context, rb types.RegionBuckets) types.RegionReport {
	log := p.log.With(zap.String("region", rb.Region))
	log.Info("profiling region", zap.Int("buckets", len(rb.Buckets)))

	results := make([]*types.BucketSummary, len(rb.Buckets))

	var g errgroup.Group
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}
	for i, bucket := range rb.Buckets {
		g.Go(func() error {
			summary, err := p.analyzer.AnalyzeBucket(ctx, bucket)
			if err != nil {
				log.Warn("bucket skipped", zap.String("bucket", bucket.Name), zap.Error(err))
				return nil
			}
			results[i] = summary
			return nil
		})
	}
	_ = g.Wait()

	report := types.RegionReport{Region: rb.Region}
	for _, summary := range results {
		if summary != nil {
			report.Buckets = append(report.Buckets, summary)
		}
	}
	return report
}
