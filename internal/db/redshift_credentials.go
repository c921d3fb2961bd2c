package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
)

// DefaultCredentialDuration is how long GetClusterCredentials passwords stay valid.
const DefaultCredentialDuration = 15 * time.Minute

// ClusterCredentialsAPI is the subset of the Redshift client the provider uses.
type ClusterCredentialsAPI interface {
	GetClusterCredentials(ctx context.Context, params *redshift.GetClusterCredentialsInput, optFns ...func(*redshift.Options)) (*redshift.GetClusterCredentialsOutput, error)
}

// RedshiftCredentialsProvider obtains temporary database credentials with
// redshift:GetClusterCredentials.
type RedshiftCredentialsProvider struct {
	clusterID string
	region    string
	dbUser    string
	dbName    string
	client    ClusterCredentialsAPI
}

// NewRedshiftCredentialsProvider uses client when non-nil and otherwise builds
// one from the default AWS credential chain on first use.
func NewRedshiftCredentialsProvider(clusterID, region, dbUser, dbName string, client ClusterCredentialsAPI) (*RedshiftCredentialsProvider, error) {
	if clusterID == "" {
		return nil, fmt.Errorf("redshift-iam auth requires a cluster identifier (use --cluster-id or cluster.cluster_identifier)")
	}
	if region == "" {
		return nil, fmt.Errorf("redshift-iam auth requires region (use --aws-region or $AWS_REGION)")
	}
	if dbUser == "" {
		return nil, fmt.Errorf("redshift-iam auth requires database username")
	}
	return &RedshiftCredentialsProvider{
		clusterID: clusterID,
		region:    region,
		dbUser:    dbUser,
		dbName:    dbName,
		client:    client,
	}, nil
}

// GetCredentials calls GetClusterCredentials and returns the temporary
// database user and password.
func (p *RedshiftCredentialsProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	client := p.client
	if client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(p.region))
		if err != nil {
			return Credentials{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = redshift.NewFromConfig(cfg)
	}

	input := &redshift.GetClusterCredentialsInput{
		ClusterIdentifier: aws.String(p.clusterID),
		DbUser:            aws.String(p.dbUser),
		DurationSeconds:   aws.Int32(int32(DefaultCredentialDuration.Seconds())),
		AutoCreate:        aws.Bool(false),
	}
	if p.dbName != "" {
		input.DbName = aws.String(p.dbName)
	}

	out, err := client.GetClusterCredentials(ctx, input)
	if err != nil {
		return Credentials{}, fmt.Errorf("GetClusterCredentials for cluster %s: %w", p.clusterID, err)
	}

	creds := Credentials{
		Username: aws.ToString(out.DbUser),
		Password: aws.ToString(out.DbPassword),
		Expires:  aws.ToTime(out.Expiration),
	}
	if creds.Password == "" {
		return Credentials{}, fmt.Errorf("GetClusterCredentials for cluster %s returned no password", p.clusterID)
	}
	return creds, nil
}

func (p *RedshiftCredentialsProvider) String() string {
	return fmt.Sprintf("RedshiftCredentialsProvider(cluster=%s, region=%s, user=%s)", p.clusterID, p.region, p.dbUser)
}

// clusterFromHost derives the cluster identifier and region from a Redshift
// endpoint such as examplecluster.abc123.us-west-2.redshift.amazonaws.com.
func clusterFromHost(host string) (clusterID, region string, ok bool) {
	labels := strings.Split(host, ".")
	if len(labels) < 5 || labels[3] != "redshift" {
		return "", "", false
	}
	return labels[0], labels[2], true
}
