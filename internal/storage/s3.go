package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vvka-141/starload/pkg/starload"
)

// ListObjectsAPI is the part of the S3 client the checker uses.
type ListObjectsAPI interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3SourceChecker verifies that an s3:// prefix holds at least one object.
type S3SourceChecker struct {
	client ListObjectsAPI
}

// NewS3SourceChecker wraps an S3 client.
func NewS3SourceChecker(client ListObjectsAPI) *S3SourceChecker {
	if client == nil {
		panic("client cannot be nil")
	}
	return &S3SourceChecker{client: client}
}

// NewS3SourceCheckerFromEnv loads the default AWS credential chain for region.
func NewS3SourceCheckerFromEnv(ctx context.Context, region string) (*S3SourceChecker, error) {
	if region == "" {
		region = starload.DefaultRegion
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3SourceChecker(s3.NewFromConfig(cfg)), nil
}

// Check lists a single key under location.
func (c *S3SourceChecker) Check(ctx context.Context, location string) error {
	bucket, prefix, err := ParseS3URI(location)
	if err != nil {
		return err
	}

	out, err := c.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", location, err)
	}
	if len(out.Contents) == 0 {
		return fmt.Errorf("%s holds no objects: %w", location, starload.ErrSourceNotFound)
	}
	return nil
}

// ParseS3URI splits s3://bucket/prefix. The prefix may be empty.
func ParseS3URI(location string) (bucket, prefix string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid S3 location %q: %w", location, starload.ErrInvalidConfig)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid S3 location %q, expected s3://bucket/prefix: %w", location, starload.ErrInvalidConfig)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// IsS3URI reports whether location uses the s3:// scheme.
func IsS3URI(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

var _ starload.SourceChecker = (*S3SourceChecker)(nil)
