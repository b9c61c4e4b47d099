package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	awsclient "github.com/yourusername/s3info/aws"
	"github.com/yourusername/s3info/config"
	"github.com/yourusername/s3info/logger"
	"github.com/yourusername/s3info/metrics"
	"github.com/yourusername/s3info/output"
	"github.com/yourusername/s3info/profiler"
	"github.com/yourusername/s3info/s3compat"
	"go.uber.org/zap"
)

// NewRootCmd builds the s3info command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "s3info",
		Short: "Inventory S3 buckets and report their size and storage classes",
		Long: `s3info lists the buckets visible to your credentials, grouped by region,
and writes a report with per-bucket statistics: creation date, default
encryption, most recent object, number of files, storage class breakdown
and total size.

Two files are written:
  - <outfile>:       the per-region report
  - <outfile>.stats: buckets ranked by their share of the total size

Every flag can also be set through the environment with the S3INFO_ prefix,
e.g. S3INFO_FILTER_PREFIX or S3INFO_OUTPUT_UNIT.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runReport,
	}

	flags := cmd.Flags()
	flags.StringP("storage-type", "t", "", "Filter by storage class (STANDARD, STANDARD_IA, INTELLIGENT_TIERING, ONEZONE_IA, GLACIER, DEEP_ARCHIVE)")
	flags.StringP("bucket-name", "b", "", "Filter by bucket name")
	flags.StringP("regions", "r", "", "Filter by region, separated by comma")
	flags.StringP("prefix", "p", "", "Filter by key prefix, ex: s3://Folder/SubFolder/log")
	flags.StringP("display-size", "d", "B", "Display size: B, KB, MB, GB, TB, PB")
	flags.StringP("outfile", "o", "", "Output results to file (required)")
	flags.String("metrics-file", "", "Also write Prometheus metrics to this textfile")
	flags.String("provider", config.ProviderAWS, "Storage provider: aws or s3compat")
	flags.Int("concurrency", 10, "Maximum buckets analyzed at once per region (0 = unlimited)")
	flags.String("profile", "", "AWS profile name to use")
	flags.String("aws-region", "", "AWS region used for bucket listing (default us-east-1)")
	flags.String("endpoint", "", "Endpoint of the S3-compatible service (s3compat provider)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: console or json")
	flags.String("config", "", "Config file (yaml, json or toml)")

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(".", configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	log.Info("starting report",
		zap.String("provider", cfg.Provider),
		zap.String("outfile", cfg.Output.File),
		zap.Int("concurrency", cfg.Concurrency))

	p := profiler.NewProfiler(provider, cfg.FilterOptions(), cfg.Concurrency, log)

	// Enumerate before touching the output files, so a failed run keeps the
	// previous report.
	regions, err := p.Enumerate(ctx)
	if err != nil {
		return err
	}

	writer, err := output.NewWriter(cfg.Output.File, cfg.Output.Unit)
	if err != nil {
		return err
	}

	sinks := []profiler.RegionSink{writer}
	var bucketMetrics *metrics.BucketMetrics
	if cfg.Output.MetricsFile != "" {
		bucketMetrics = metrics.NewBucketMetrics(prometheus.NewRegistry())
		sinks = append(sinks, bucketMetrics)
	}

	if err := p.Profile(ctx, regions, sinks...); err != nil {
		writer.Abort()
		return err
	}

	if err := writer.Close(); err != nil {
		return err
	}

	if bucketMetrics != nil {
		if err := bucketMetrics.WriteFile(cfg.Output.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
		log.Info("metrics written", zap.String("path", cfg.Output.MetricsFile))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "All results are saved in %q and %q\n", writer.Path(), writer.StatsPath())
	return nil
}

func newProvider(ctx context.Context, cfg *config.Config) (profiler.Provider, error) {
	switch cfg.Provider {
	case config.ProviderS3Compat:
		client, err := s3compat.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := awsclient.NewClient(ctx, cfg.AWS.Profile, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS client: %w", err)
		}
		return client, nil
	}
}
