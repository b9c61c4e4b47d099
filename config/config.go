// Package config loads the run configuration from flags, environment
// variables (S3INFO_ prefix), a .env file and an optional config file.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/yourusername/s3info/logger"
	"github.com/yourusername/s3info/output"
	"github.com/yourusername/s3info/s3compat"
	"github.com/yourusername/s3info/types"
)

// EnvPrefix prefixes every environment variable, e.g. S3INFO_FILTER_PREFIX.
const EnvPrefix = "S3INFO"

const (
	ProviderAWS      = "aws"
	ProviderS3Compat = "s3compat"
)

// Config holds all configuration for a run.
type Config struct {
	// Filter selects the buckets and objects to report on.
	Filter FilterConfig `mapstructure:"filter"`
	// Output names the report files and the size unit.
	Output OutputConfig `mapstructure:"output"`
	// Provider is the storage backend: aws or s3compat.
	Provider string `mapstructure:"provider" default:"aws"`
	// Concurrency caps concurrent bucket workers per region; 0 means unlimited.
	Concurrency int `mapstructure:"concurrency" default:"10"`
	// AWS holds settings for the aws provider.
	AWS AWSConfig `mapstructure:"aws"`
	// Storage holds settings for the s3compat provider.
	Storage s3compat.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// FilterConfig holds the bucket and object filters.
type FilterConfig struct {
	StorageClass string `mapstructure:"storage_class" default:""`
	BucketName   string `mapstructure:"bucket_name" default:""`
	// Regions is a comma-separated list.
	Regions string `mapstructure:"regions" default:""`
	Prefix  string `mapstructure:"prefix" default:""`
}

// OutputConfig holds the output settings.
type OutputConfig struct {
	File        string `mapstructure:"file" default:""`
	Unit        string `mapstructure:"unit" default:"B"`
	MetricsFile string `mapstructure:"metrics_file" default:""`
}

// AWSConfig holds the shared-config profile and client region.
type AWSConfig struct {
	Profile string `mapstructure:"profile" default:""`
	Region  string `mapstructure:"region" default:""`
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"storage-type": "filter.storage_class",
	"bucket-name":  "filter.bucket_name",
	"regions":      "filter.regions",
	"prefix":       "filter.prefix",
	"outfile":      "output.file",
	"display-size": "output.unit",
	"metrics-file": "output.metrics_file",
	"provider":     "provider",
	"concurrency":  "concurrency",
	"profile":      "aws.profile",
	"aws-region":   "aws.region",
	"endpoint":     "storage.endpoint",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// LoadConfig loads configuration from the .env file in path, the environment,
// configFile when set, and the flags in FlagKeys that were set explicitly.
func LoadConfig(path, configFile string, flags *pflag.FlagSet) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist
	_ = godotenv.Overload(envPath)

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v, reflect.TypeOf(Config{}), "")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			flag := flags.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// registerKeys walks the mapstructure tags of t, binding every leaf key to
// its S3INFO_ environment variable and registering non-empty `default` tags.
func registerKeys(v *viper.Viper, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			registerKeys(v, field.Type, key)
			continue
		}

		_ = v.BindEnv(key)
		if def := field.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
	}
}

// Validate checks required settings and normalizes the display unit.
func (c *Config) Validate() error {
	if c.Output.File == "" {
		return fmt.Errorf("an output file is required (--outfile)")
	}

	unit, err := output.ParseUnit(c.Output.Unit)
	if err != nil {
		return err
	}
	c.Output.Unit = unit

	switch c.Provider {
	case ProviderAWS, ProviderS3Compat:
	default:
		return fmt.Errorf("unknown provider %q (expected %s or %s)", c.Provider, ProviderAWS, ProviderS3Compat)
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}

	return nil
}

// FilterOptions returns the filters of the run.
func (c *Config) FilterOptions() types.FilterOptions {
	return types.FilterOptions{
		StorageClass: c.Filter.StorageClass,
		BucketName:   c.Filter.BucketName,
		Regions:      types.ParseRegions(c.Filter.Regions),
		Prefix:       c.Filter.Prefix,
	}
}
