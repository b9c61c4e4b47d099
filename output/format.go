package output

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/s3info/types"
)

// Units lists the supported display units, in ascending powers of 1024
var Units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// Most recent timestamps render as date, time and UTC offset, with
// microseconds only when the timestamp has a fractional part.
const (
	mostRecentLayout     = "2006-01-02 15:04:05-07:00"
	mostRecentFracLayout = "2006-01-02 15:04:05.000000-07:00"
)

// ParseUnit normalizes a display unit. An empty unit means bytes.
func ParseUnit(unit string) (string, error) {
	if unit == "" {
		return "B", nil
	}
	normalized := strings.ToUpper(strings.TrimSpace(unit))
	for _, u := range Units {
		if u == normalized {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown display unit %q (expected one of %s)", unit, strings.Join(Units, ", "))
}

// FormatSize renders a byte count in the given unit. Bytes are rendered as a
// plain integer, larger units with one decimal place and the unit suffix.
func FormatSize(bytes int64, unit string) string {
	unit = strings.ToUpper(unit)
	power := 0
	for i, u := range Units {
		if u == unit {
			power = i
			break
		}
	}
	if power == 0 {
		return strconv.FormatInt(bytes, 10)
	}

	value := float64(bytes) / math.Pow(2, float64(10*power))
	return strconv.FormatFloat(value, 'f', 1, 64) + Units[power]
}

// FormatPercent renders part/total as a percentage rounded to two decimal
// places, always keeping at least one decimal digit (50.0, 42.86). Rounding
// is done on the exact binary value, so 1.1149999... renders as 1.11.
func FormatPercent(part, total int64) string {
	value := 100 * float64(part) / float64(total)
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(value, 'f', 2, 64), 64)

	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// StorageClassLine is one rendered entry of a storage class breakdown
type StorageClassLine struct {
	Class string
	Text  string
}

// FormatStorageClasses renders the share of files per storage class, sorted
// by class name. totalFiles must be positive.
func FormatStorageClasses(classes map[string]types.StorageClassStats, totalFiles int64) []StorageClassLine {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]StorageClassLine, 0, len(names))
	for _, name := range names {
		count := classes[name].Count
		noun := "file"
		if count > 1 {
			noun = "files"
		}
		lines = append(lines, StorageClassLine{
			Class: name,
			Text:  fmt.Sprintf("%s%% (%d %s)", FormatPercent(count, totalFiles), count, noun),
		})
	}
	return lines
}

// FormatMostRecent renders the most recent object as "key - timestamp"
func FormatMostRecent(obj *types.ObjectMetadata) string {
	if obj == nil {
		return "None - None"
	}
	layout := mostRecentLayout
	if obj.LastModified.Nanosecond() != 0 {
		layout = mostRecentFracLayout
	}
	return fmt.Sprintf("%s - %s", obj.Key, obj.LastModified.Format(layout))
}
