// Package output renders bucket statistics into the report and stats files.
package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/s3info/types"
)

// StatsSuffix is appended to the report path to name the stats file
const StatsSuffix = ".stats"

// Writer streams region sections into a temporary report file and collects
// the size ranking. Close moves the report into place and writes the stats
// file; Abort discards everything, leaving files from earlier runs untouched.
type Writer struct {
	path    string
	unit    string
	file    *os.File
	buf     *bufio.Writer
	ranking *SizeRanking
}

// NewWriter creates a temporary report file next to path
func NewWriter(path, unit string) (*Writer, error) {
	f, err := createTemp(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &Writer{
		path:    path,
		unit:    unit,
		file:    f,
		buf:     bufio.NewWriter(f),
		ranking: NewSizeRanking(),
	}, nil
}

// Path returns the report file path
func (w *Writer) Path() string {
	return w.path
}

// StatsPath returns the stats file path
func (w *Writer) StatsPath() string {
	return w.path + StatsSuffix
}

// WriteRegion appends a region section to the report
func (w *Writer) WriteRegion(report types.RegionReport) error {
	if err := WriteRegion(w.buf, report, w.unit); err != nil {
		return fmt.Errorf("failed to write region %s: %w", report.Region, err)
	}
	for _, bucket := range report.Buckets {
		w.ranking.Add(bucket.Name, bucket.TotalSize)
	}
	return nil
}

// Close moves the report into place and writes the stats file
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.Abort()
		return fmt.Errorf("failed to write report file: %w", err)
	}
	if err := w.file.Close(); err != nil {
		os.Remove(w.file.Name())
		return fmt.Errorf("failed to close report file: %w", err)
	}

	stats, err := createTemp(w.StatsPath())
	if err != nil {
		os.Remove(w.file.Name())
		return fmt.Errorf("failed to create stats file: %w", err)
	}
	if _, err := w.ranking.WriteTo(stats); err != nil {
		stats.Close()
		os.Remove(stats.Name())
		os.Remove(w.file.Name())
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	if err := stats.Close(); err != nil {
		os.Remove(stats.Name())
		os.Remove(w.file.Name())
		return fmt.Errorf("failed to close stats file: %w", err)
	}

	if err := os.Rename(w.file.Name(), w.path); err != nil {
		os.Remove(stats.Name())
		os.Remove(w.file.Name())
		return fmt.Errorf("failed to move report file: %w", err)
	}
	if err := os.Rename(stats.Name(), w.StatsPath()); err != nil {
		os.Remove(stats.Name())
		return fmt.Errorf("failed to move stats file: %w", err)
	}
	return nil
}

// Abort drops the temporary report without touching path or its stats file
func (w *Writer) Abort() {
	w.file.Close()
	os.Remove(w.file.Name())
}

// createTemp creates a hidden temporary file in the directory of path, so
// the final rename stays on one filesystem.
func createTemp(path string) (*os.File, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	return f, nil
}
