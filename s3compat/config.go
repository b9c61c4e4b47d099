package s3compat

// Config holds connection settings for an S3-compatible endpoint.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Region pins the client to one region. When empty, bucket locations are
	// looked up and buckets without a location constraint report us-east-1.
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
