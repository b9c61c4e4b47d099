// Package metrics exports bucket statistics as Prometheus gauges written to a
// node_exporter textfile.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yourusername/s3info/types"
)

// BucketMetrics holds the gauges describing one run.
type BucketMetrics struct {
	reg          *prometheus.Registry
	size         *prometheus.GaugeVec
	objects      *prometheus.GaugeVec
	classObjects *prometheus.GaugeVec
	classSize    *prometheus.GaugeVec
	totalSize    prometheus.Gauge
}

// NewBucketMetrics registers the gauges on the provided registry.
func NewBucketMetrics(reg *prometheus.Registry) *BucketMetrics {
	size := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "s3info",
		Subsystem: "bucket",
		Name:      "size_bytes",
		Help:      "Total size of the non-empty objects in a bucket.",
	}, []string{"bucket", "region"})
	objects := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "s3info",
		Subsystem: "bucket",
		Name:      "objects",
		Help:      "Number of non-empty objects in a bucket.",
	}, []string{"bucket", "region"})
	classObjects := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "s3info",
		Subsystem: "bucket",
		Name:      "storage_class_objects",
		Help:      "Number of non-empty objects in a bucket per storage class.",
	}, []string{"bucket", "region", "storage_class"})
	classSize := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "s3info",
		Subsystem: "bucket",
		Name:      "storage_class_size_bytes",
		Help:      "Size of the objects in a bucket per storage class.",
	}, []string{"bucket", "region", "storage_class"})
	totalSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "s3info",
		Name:      "total_size_bytes",
		Help:      "Total size across all reported buckets.",
	})

	reg.MustRegister(size, objects, classObjects, classSize, totalSize)

	return &BucketMetrics{
		reg:          reg,
		size:         size,
		objects:      objects,
		classObjects: classObjects,
		classSize:    classSize,
		totalSize:    totalSize,
	}
}

// WriteRegion records the summaries of one region.
func (m *BucketMetrics) WriteRegion(report types.RegionReport) error {
	for _, b := range report.Buckets {
		m.size.WithLabelValues(b.Name, b.Region).Set(float64(b.TotalSize))
		m.objects.WithLabelValues(b.Name, b.Region).Set(float64(b.TotalObjects))
		for class, stats := range b.StorageClasses {
			m.classObjects.WithLabelValues(b.Name, b.Region, class).Set(float64(stats.Count))
			m.classSize.WithLabelValues(b.Name, b.Region, class).Set(float64(stats.Size))
		}
		m.totalSize.Add(float64(b.TotalSize))
	}
	return nil
}

// WriteFile writes every registered metric to path in the text exposition format.
func (m *BucketMetrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
