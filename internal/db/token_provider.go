package db

import (
	"context"
	"time"
)

// Credentials are short-lived database credentials issued by a cloud provider.
type Credentials struct {
	// Username replaces the configured user when set. Redshift returns
	// the user it issued the password for, e.g. "IAM:awsuser".
	Username string

	Password string
	Expires  time.Time
}

// CredentialProvider abstracts cloud credential acquisition so connectors can
// be tested without AWS.
type CredentialProvider interface {
	// GetCredentials is called once per connection attempt.
	GetCredentials(ctx context.Context) (Credentials, error)

	// String describes the provider for logs. It must not include secrets.
	String() string
}
