package profiler

import "strings"

const uriScheme = "s3://"

// NormalizePrefix strips a leading s3:// from a key prefix. The rest is used
// as a literal listing prefix; wildcards have no special meaning.
func NormalizePrefix(prefix string) string {
	return strings.TrimPrefix(prefix, uriScheme)
}
