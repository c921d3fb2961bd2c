package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
)

// rdsTokenLifetime is fixed by AWS.
const rdsTokenLifetime = 15 * time.Minute

// RDSTokenProvider builds IAM authentication tokens for PostgreSQL on
// RDS or Aurora, used with the postgres dialect.
type RDSTokenProvider struct {
	endpoint string // host:port
	region   string
	username string

	// credentials overrides the default AWS credential chain.
	credentials aws.CredentialsProvider
}

// NewRDSTokenProvider validates the token parameters. AWS credentials are
// resolved on first use.
func NewRDSTokenProvider(endpoint, region, username string) (*RDSTokenProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("rds-iam auth requires endpoint (host:port)")
	}
	if region == "" {
		return nil, fmt.Errorf("rds-iam auth requires region (use --aws-region or $AWS_REGION)")
	}
	if username == "" {
		return nil, fmt.Errorf("rds-iam auth requires database username")
	}
	return &RDSTokenProvider{endpoint: endpoint, region: region, username: username}, nil
}

// GetCredentials builds a signed IAM token used as the password, loading
// the default AWS credential chain unless credentials were injected.
func (p *RDSTokenProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	creds := p.credentials
	if creds == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(p.region))
		if err != nil {
			return Credentials{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		creds = cfg.Credentials
	}

	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, creds)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to build RDS auth token: %w", err)
	}

	return Credentials{Password: token, Expires: time.Now().Add(rdsTokenLifetime)}, nil
}

// String describes the provider for log messages.
func (p *RDSTokenProvider) String() string {
	return fmt.Sprintf("RDSTokenProvider(endpoint=%s, region=%s, user=%s)", p.endpoint, p.region, p.username)
}
