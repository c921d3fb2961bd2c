package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vvka-141/starload/pkg/starload"
)

// LocalSourceChecker verifies that a directory or glob matches at least one
// JSON file. Directories are searched recursively, matching how the duckdb
// dialect expands them.
type LocalSourceChecker struct{}

// NewLocalSourceChecker creates a checker for local files.
func NewLocalSourceChecker() *LocalSourceChecker {
	return &LocalSourceChecker{}
}

// Check reports ErrSourceNotFound when location matches no file. Globs accept
// ** for any number of directories, as read_json_auto does.
func (c *LocalSourceChecker) Check(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if strings.ContainsAny(location, "*?[") {
		matches, err := doublestar.FilepathGlob(location, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", location, starload.ErrInvalidConfig)
		}
		if len(matches) == 0 {
			return fmt.Errorf("%s matches no files: %w", location, starload.ErrSourceNotFound)
		}
		return nil
	}

	info, err := os.Stat(location)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist: %w", location, starload.ErrSourceNotFound)
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	found := false
	err = filepath.WalkDir(location, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", location, err)
	}
	if !found {
		return fmt.Errorf("%s holds no JSON files: %w", location, starload.ErrSourceNotFound)
	}
	return nil
}

var _ starload.SourceChecker = (*LocalSourceChecker)(nil)
