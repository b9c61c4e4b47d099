package types

import (
	"errors"
	"strings"
	"time"
)

// DefaultStorageClass is reported for listing entries that carry no storage class.
const DefaultStorageClass = "STANDARD"

// EncryptionDisabled is reported when a bucket has no usable default encryption.
const EncryptionDisabled = "Disabled"

// ErrEncryptionNotConfigured is returned by providers when a bucket has no
// server-side default encryption configuration.
var ErrEncryptionNotConfigured = errors.New("bucket encryption not configured")

// Bucket is a bucket as returned by enumeration, with its resolved region
type Bucket struct {
	Name         string
	Region       string
	CreationDate time.Time
}

// ObjectMetadata contains metadata for a single listed object
type ObjectMetadata struct {
	Key          string
	Size         int64
	LastModified time.Time
	StorageClass string
}

// StorageClassStats holds count and size for a specific storage class
type StorageClassStats struct {
	Count int64
	Size  int64
}

// BucketSummary contains the statistics computed for one bucket
type BucketSummary struct {
	Name           string
	Region         string
	CreationDate   time.Time
	Encryption     string
	TotalObjects   int64
	TotalSize      int64
	StorageClasses map[string]StorageClassStats
	// MostRecent is nil when no object survived the storage class filter.
	MostRecent *ObjectMetadata
}

// RegionBuckets groups enumerated buckets by their resolved region
type RegionBuckets struct {
	Region  string
	Buckets []Bucket
}

// RegionReport holds the summaries of one region's buckets, in enumeration order
type RegionReport struct {
	Region  string
	Buckets []*BucketSummary
}

// FilterOptions holds the filters applied during a run. Empty values disable
// the corresponding filter.
type FilterOptions struct {
	StorageClass string
	BucketName   string
	Regions      []string
	Prefix       string
}

// MatchesBucket reports whether a bucket name passes the bucket name filter
func (f FilterOptions) MatchesBucket(name string) bool {
	return f.BucketName == "" || f.BucketName == name
}

// MatchesRegion reports whether a region passes the region filter
func (f FilterOptions) MatchesRegion(region string) bool {
	if len(f.Regions) == 0 {
		return true
	}
	for _, r := range f.Regions {
		if r == region {
			return true
		}
	}
	return false
}

// MatchesStorageClass reports whether an object's storage class passes the filter
func (f FilterOptions) MatchesStorageClass(class string) bool {
	return f.StorageClass == "" || f.StorageClass == class
}

// ParseRegions splits a comma-separated region list, trimming whitespace and
// dropping empty and duplicate entries.
func ParseRegions(regions string) []string {
	if strings.TrimSpace(regions) == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range strings.Split(regions, ",") {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
