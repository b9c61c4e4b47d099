package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/s3info/config"
	"github.com/yourusername/s3info/types"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("outfile", "", "")
	fs.String("display-size", "B", "")
	fs.String("regions", "", "")
	fs.String("prefix", "", "")
	fs.Int("concurrency", 10, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, "aws", cfg.Provider)
	assert.Equal(t, 10, cfg.Concurrency)
	assert.Equal(t, "B", cfg.Output.Unit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, 30, cfg.Storage.TimeoutSeconds)
	assert.Empty(t, cfg.Output.File)
}

func TestLoadConfigPrecedence(t *testing.T) {
	t.Setenv("S3INFO_OUTPUT_FILE", "from-env.txt")
	t.Setenv("S3INFO_FILTER_REGIONS", "eu-west-1")
	t.Setenv("S3INFO_CONCURRENCY", "3")

	cfg, err := config.LoadConfig(t.TempDir(), "", newFlags(t, "--outfile", "from-flag.txt", "--display-size", "mb"))
	require.NoError(t, err)

	assert.Equal(t, "from-flag.txt", cfg.Output.File)
	assert.Equal(t, "mb", cfg.Output.Unit)
	assert.Equal(t, "eu-west-1", cfg.Filter.Regions)
	assert.Equal(t, 3, cfg.Concurrency)
}

func TestLoadConfigEnvWithoutDefault(t *testing.T) {
	t.Setenv("S3INFO_STORAGE_ACCESS_KEY", "minio")
	t.Setenv("S3INFO_AWS_PROFILE", "audit")
	t.Setenv("S3INFO_STORAGE_USE_SSL", "true")

	cfg, err := config.LoadConfig(t.TempDir(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, "minio", cfg.Storage.AccessKey)
	assert.Equal(t, "audit", cfg.AWS.Profile)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Empty(t, cfg.Storage.SecretKey)
	assert.Empty(t, cfg.Storage.Region)
	assert.Empty(t, cfg.Filter.Prefix)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "s3info.yaml")
	require.NoError(t, os.WriteFile(file, []byte("filter:\n  bucket_name: logs-bucket\noutput:\n  unit: GB\n"), 0o644))

	cfg, err := config.LoadConfig(dir, file, nil)
	require.NoError(t, err)
	assert.Equal(t, "logs-bucket", cfg.Filter.BucketName)
	assert.Equal(t, "GB", cfg.Output.Unit)

	_, err = config.LoadConfig(dir, filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("S3INFO_FILTER_STORAGE_CLASS=GLACIER\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("S3INFO_FILTER_STORAGE_CLASS") })

	cfg, err := config.LoadConfig(dir, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "GLACIER", cfg.Filter.StorageClass)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Output:   config.OutputConfig{File: "out.txt", Unit: "kb"},
			Provider: config.ProviderAWS,
		}
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "KB", cfg.Output.Unit)

	cfg = valid()
	cfg.Output.File = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Output.Unit = "XB"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Provider = "gcs"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Concurrency = -1
	assert.Error(t, cfg.Validate())
}

func TestFilterOptions(t *testing.T) {
	cfg := &config.Config{Filter: config.FilterConfig{
		StorageClass: "STANDARD",
		BucketName:   "logs-bucket",
		Regions:      "us-east-1, eu-west-1",
		Prefix:       "s3://logs/",
	}}

	assert.Equal(t, types.FilterOptions{
		StorageClass: "STANDARD",
		BucketName:   "logs-bucket",
		Regions:      []string{"us-east-1", "eu-west-1"},
		Prefix:       "s3://logs/",
	}, cfg.FilterOptions())
}
