package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client defines the S3 operations the provider performs.
// Narrowed to what Upload and Rollback need so tests can mock it.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Options configures one send call against an S3-compatible store.
type S3Options struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string // Optional: for S3-compatible services
	BaseURL        string // Public URL base for serving files
	ForcePathStyle bool   // For S3-compatible services like MinIO
	KeyPrefix      string // Optional key prefix, joined with the final file name
}

// Provider returns the identifier these options target.
func (S3Options) Provider() string { return "s3" }

// S3 uploads files to Amazon S3 and S3-compatible services.
// It is safe for concurrent use; the client built for a given set of
// options is cached and reused across calls.
type S3 struct {
	mu            sync.Mutex
	client        S3Client // pre-configured client, used for all options
	cached        S3Client
	cachedOpts    S3Options
	httpClient    *http.Client
	uploadTimeout time.Duration
}

// S3Option configures the S3 provider.
type S3Option func(*S3)

// WithS3Client sets a custom pre-configured S3 client.
// Useful for testing with mocks.
func WithS3Client(client S3Client) S3Option {
	return func(p *S3) {
		p.client = client
	}
}

// WithS3HTTPClient sets a custom HTTP client for S3 requests.
func WithS3HTTPClient(client *http.Client) S3Option {
	return func(p *S3) {
		p.httpClient = client
	}
}

// WithS3UploadTimeout sets the timeout for upload operations.
// If not set, no timeout is applied (context deadline from caller is used).
func WithS3UploadTimeout(timeout time.Duration) S3Option {
	return func(p *S3) {
		p.uploadTimeout = timeout
	}
}

// NewS3 creates the S3 provider.
func NewS3(opts ...S3Option) *S3 {
	p := &S3{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the registry identifier.
func (p *S3) Name() string { return "s3" }

// Upload stores the file as an object keyed by the final file name,
// under the configured key prefix when one is set.
func (p *S3) Upload(ctx context.Context, up Upload) (*Result, error) {
	o, err := p.options(up.Options)
	if err != nil {
		return nil, err
	}

	if p.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.uploadTimeout)
		defer cancel()
	}

	client, err := p.clientFor(ctx, o)
	if err != nil {
		return nil, err
	}

	key := objectKey(o.KeyPrefix, up.Filename)

	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(o.Bucket),
		Key:           aws.String(key),
		Body:          up.Body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(up.Size),
	})
	if err != nil {
		return nil, classifyS3Error(err, "upload object")
	}

	return &Result{
		Provider: p.Name(),
		Bucket:   o.Bucket,
		Key:      key,
		URL:      objectURL(o, key),
		Rollback: RollbackRef{Bucket: o.Bucket, Key: key, Options: o},
	}, nil
}

// Rollback deletes a previously uploaded object.
func (p *S3) Rollback(ctx context.Context, ref RollbackRef) error {
	o, err := p.options(ref.Options)
	if err != nil {
		return err
	}

	client, err := p.clientFor(ctx, o)
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		return classifyS3Error(err, "delete object")
	}
	return nil
}

// options narrows generic send options to S3Options and validates the
// required fields.
func (p *S3) options(opts Options) (S3Options, error) {
	o, ok := opts.(S3Options)
	if !ok {
		return S3Options{}, fmt.Errorf("%w: s3 provider requires S3Options, got %T", ErrInvalidOptions, opts)
	}
	if o.Bucket == "" || o.Region == "" {
		return S3Options{}, fmt.Errorf("%w: bucket and region are required", ErrInvalidOptions)
	}
	return o, nil
}

// clientFor returns the S3 client for the given options. A client
// injected through WithS3Client always wins; otherwise the last built
// client is reused as long as the options match.
func (p *S3) clientFor(ctx context.Context, o S3Options) (S3Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	if p.cached != nil && p.cachedOpts == o {
		return p.cached, nil
	}

	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(o.Region),
	}
	if o.AccessKeyID != "" && o.SecretKey != "" {
		awsOptions = append(awsOptions,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				o.AccessKeyID,
				o.SecretKey,
				"",
			)),
		)
	}
	if p.httpClient != nil {
		awsOptions = append(awsOptions, config.WithHTTPClient(p.httpClient))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
	}

	client := s3.NewFromConfig(awsConfig, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
		so.UsePathStyle = o.ForcePathStyle
	})

	p.cached, p.cachedOpts = client, o
	return client, nil
}

// objectKey joins the optional prefix with the file name using forward
// slashes, the way object stores expect.
func objectKey(prefix, filename string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return filename
	}
	return prefix + "/" + filename
}

// objectURL synthesizes the public URL for an uploaded object.
func objectURL(o S3Options, key string) string {
	base := o.BaseURL
	if base == "" {
		if o.Endpoint != "" {
			base = fmt.Sprintf("%s/%s", strings.TrimSuffix(o.Endpoint, "/"), o.Bucket)
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", o.Bucket, o.Region)
		}
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}

// classifyS3Error converts S3 errors to provider errors.
func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrOperationTimeout, operation)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", ErrOperationCanceled, operation)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, operation)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return fmt.Errorf("%w: %s", ErrAccessDenied, operation)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s", ErrServiceUnavailable, operation)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %s", ErrBucketNotFound, operation)
		default:
			return fmt.Errorf("%w: %s (code: %s): %v", ErrUploadFailed, operation, apiErr.ErrorCode(), err)
		}
	}

	return fmt.Errorf("%w: %s: %v", ErrUploadFailed, operation, err)
}
