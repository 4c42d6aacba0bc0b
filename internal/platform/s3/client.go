package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/imamik/kubecloud/internal/util/retry"
)

// BackendScheme prefixes Pulumi state backend URLs stored in S3.
const BackendScheme = "s3://"

// defaultRegion needs no location constraint on CreateBucket.
const defaultRegion = "us-east-1"

// Options configure the S3 client. Empty credentials fall back to the
// default AWS credential chain.
type Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Client wraps the S3 client for the state bucket.
type Client struct {
	s3        *s3.Client
	region    string
	retryOpts []retry.Option
}

// NewClient creates a new S3 client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	return &Client{s3: client, region: region}, nil
}

// BucketFromBackend extracts the bucket name from an s3:// backend URL.
// The second result is false for any other backend.
func BucketFromBackend(backendURL string) (string, bool) {
	rest, ok := strings.CutPrefix(backendURL, BackendScheme)
	if !ok {
		return "", false
	}
	bucket, _, _ := strings.Cut(rest, "/")
	if i := strings.IndexByte(bucket, '?'); i >= 0 {
		bucket = bucket[:i]
	}
	return bucket, bucket != ""
}

// EnsureBucket creates the bucket with versioning enabled unless it already
// exists. It reports whether the bucket was created.
func (c *Client) EnsureBucket(ctx context.Context, bucketName string) (bool, error) {
	exists, err := c.BucketExists(ctx, bucketName)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := c.CreateBucket(ctx, bucketName); err != nil {
		return false, err
	}
	// A new bucket can briefly answer NoSuchBucket.
	err = retry.Do(ctx, func(ctx context.Context) error {
		err := c.EnableVersioning(ctx, bucketName)
		if err != nil && !isNotFoundError(err) {
			return retry.Permanent(err)
		}
		return err
	}, c.retryOpts...)
	if err != nil {
		return true, err
	}
	return true, nil
}

// CreateBucket creates a new S3 bucket.
// Returns nil if the bucket already exists and is owned by us.
func (c *Client) CreateBucket(ctx context.Context, bucketName string) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	}
	if c.region != "" && c.region != defaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.region),
		}
	}

	_, err := c.s3.CreateBucket(ctx, input)
	if err != nil {
		if isBucketAlreadyOwnedByYou(err) {
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}
	return nil
}

// EnableVersioning turns on object versioning so earlier state checkpoints
// stay recoverable.
func (c *Client) EnableVersioning(ctx context.Context, bucketName string) error {
	_, err := c.s3.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: aws.String(bucketName),
		VersioningConfiguration: &types.VersioningConfiguration{
			Status: types.BucketVersioningStatusEnabled,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to enable versioning on bucket %s: %w", bucketName, err)
	}
	return nil
}

// BucketExists checks if a bucket exists and is accessible.
func (c *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	return true, nil
}

// isBucketAlreadyOwnedByYou checks if the error indicates the bucket exists and is owned by us.
func isBucketAlreadyOwnedByYou(err error) bool {
	if err == nil {
		return false
	}

	var baoby *types.BucketAlreadyOwnedByYou
	if errors.As(err, &baoby) {
		return true
	}

	// S3-compatible services may only report the error code.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "BucketAlreadyOwnedByYou"
	}

	return false
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchBucket" || code == "404"
	}

	return false
}
