package s3resource

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of *s3.Client used by Model.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config contains the connection settings for S3 and S3-compatible services.
type Config struct {
	Bucket         string `env:"RESCACHE_S3_BUCKET"`
	Region         string `env:"RESCACHE_S3_REGION"`
	AccessKeyID    string `env:"RESCACHE_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"RESCACHE_S3_SECRET_KEY"`
	Endpoint       string `env:"RESCACHE_S3_ENDPOINT"`         // Optional: for S3-compatible services
	ForcePathStyle bool   `env:"RESCACHE_S3_FORCE_PATH_STYLE"` // For S3-compatible services like MinIO
}

// ClientOption configures NewClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient    *http.Client
	configOptions []func(*config.LoadOptions) error
	clientOptions []func(*s3.Options)
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithConfigOption adds a custom AWS config option.
func WithConfigOption(opt func(*config.LoadOptions) error) ClientOption {
	return func(o *clientOptions) {
		o.configOptions = append(o.configOptions, opt)
	}
}

// WithClientOption adds a custom S3 client option.
func WithClientOption(opt func(*s3.Options)) ClientOption {
	return func(o *clientOptions) {
		o.clientOptions = append(o.clientOptions, opt)
	}
}

// NewClient builds an S3 client from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewClient(ctx context.Context, cfg Config, opts ...ClientOption) (*s3.Client, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	if o.httpClient != nil {
		awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
	}
	awsOptions = append(awsOptions, o.configOptions...)

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
	}

	return s3.NewFromConfig(awsConfig, func(so *s3.Options) {
		if cfg.Endpoint != "" {
			so.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		so.UsePathStyle = cfg.ForcePathStyle
		for _, opt := range o.clientOptions {
			opt(so)
		}
	}), nil
}
