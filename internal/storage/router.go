package storage

import (
	"context"
	"fmt"

	"github.com/vvka-141/starload/pkg/starload"
)

// Router dispatches s3:// locations to an S3 checker and everything else
// to the local checker.
type Router struct {
	s3    starload.SourceChecker
	local starload.SourceChecker
}

// NewRouter builds a router. s3 may be nil when no S3 access is configured;
// checking an s3:// location then fails with ErrInvalidConfig.
func NewRouter(s3 starload.SourceChecker, local starload.SourceChecker) *Router {
	if local == nil {
		local = NewLocalSourceChecker()
	}
	return &Router{s3: s3, local: local}
}

// Check verifies location with the checker matching its scheme.
func (r *Router) Check(ctx context.Context, location string) error {
	if IsS3URI(location) {
		if r.s3 == nil {
			return fmt.Errorf("cannot check %s without S3 access: %w", location, starload.ErrInvalidConfig)
		}
		return r.s3.Check(ctx, location)
	}
	return r.local.Check(ctx, location)
}

var _ starload.SourceChecker = (*Router)(nil)
