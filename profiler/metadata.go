package profiler

import "github.com/yourusername/s3info/types"

// MetadataAnalyzer folds listed objects into a bucket summary
type MetadataAnalyzer struct {
	summary *types.BucketSummary
}

// NewMetadataAnalyzer creates an analyzer that updates summary in place
func NewMetadataAnalyzer(summary *types.BucketSummary) *MetadataAnalyzer {
	if summary.StorageClasses == nil {
		summary.StorageClasses = make(map[string]types.StorageClassStats)
	}
	return &MetadataAnalyzer{summary: summary}
}

// Add records one object. Every object is a candidate for the most recent
// one, keeping the first seen on equal timestamps. Only objects with a
// positive size count as files; zero-size keys are directory markers.
func (ma *MetadataAnalyzer) Add(obj types.ObjectMetadata) {
	s := ma.summary

	if s.MostRecent == nil || obj.LastModified.After(s.MostRecent.LastModified) {
		recent := obj
		s.MostRecent = &recent
	}

	if obj.Size <= 0 {
		return
	}

	s.TotalObjects++
	s.TotalSize += obj.Size

	stats := s.StorageClasses[obj.StorageClass]
	stats.Count++
	stats.Size += obj.Size
	s.StorageClasses[obj.StorageClass] = stats
}
