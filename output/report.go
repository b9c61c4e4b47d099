package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yourusername/s3info/types"
)

// WriteRegion writes the report section of one region. Regions without
// buckets produce no output.
func WriteRegion(w io.Writer, report types.RegionReport, unit string) error {
	if len(report.Buckets) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nRegion: %s\n", report.Region)
	for _, bucket := range report.Buckets {
		fmt.Fprintf(&sb, "    Bucket: %s\n", bucket.Name)
		fmt.Fprintf(&sb, "        Creation Date: %s\n", bucket.CreationDate.Format(time.ANSIC))
		fmt.Fprintf(&sb, "        Encryption: %s\n", bucket.Encryption)
		fmt.Fprintf(&sb, "        Most Recent File: %s\n", FormatMostRecent(bucket.MostRecent))
		fmt.Fprintf(&sb, "        Number of Files: %d\n", bucket.TotalObjects)
		if bucket.TotalObjects > 0 {
			for _, line := range FormatStorageClasses(bucket.StorageClasses, bucket.TotalObjects) {
				fmt.Fprintf(&sb, "            %s: %s\n", line.Class, line.Text)
			}
		}
		fmt.Fprintf(&sb, "        Total Size: %s\n", FormatSize(bucket.TotalSize, unit))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
