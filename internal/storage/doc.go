// Package storage checks that the COPY sources hold data before a load
// starts. S3 locations are listed through the AWS SDK; anything else is
// treated as a local path or glob, which is what the duckdb dialect reads.
package storage
