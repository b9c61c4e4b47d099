package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// SizeRanking ranks buckets by total size. Buckets with identical sizes are
// grouped together and keep the order in which they were added.
type SizeRanking struct {
	total int64
	sizes map[int64][]string
}

// NewSizeRanking creates an empty ranking
func NewSizeRanking() *SizeRanking {
	return &SizeRanking{sizes: make(map[int64][]string)}
}

// Add records a bucket's total size
func (r *SizeRanking) Add(bucket string, size int64) {
	r.total += size
	r.sizes[size] = append(r.sizes[size], bucket)
}

// Total returns the sum of all recorded sizes
func (r *SizeRanking) Total() int64 {
	return r.total
}

// WriteTo writes one "bucket - pct% bytes" line per bucket, largest first.
// Nothing is written when the grand total is zero.
func (r *SizeRanking) WriteTo(w io.Writer) (int64, error) {
	if r.total <= 0 {
		return 0, nil
	}

	sizes := make([]int64, 0, len(r.sizes))
	for size := range r.sizes {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool {
		return sizes[i] > sizes[j]
	})

	var sb strings.Builder
	for _, size := range sizes {
		for _, bucket := range r.sizes[size] {
			fmt.Fprintf(&sb, "%s - %s%% %d\n", bucket, FormatPercent(size, r.total), size)
		}
	}

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
