package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileExtension is appended to the fingerprint to name mirror files.
const FileExtension = ".code"

// DiskMirror writes one file per fingerprint under a directory. The directory
// is created on the first write.
type DiskMirror struct {
	dir string
}

// NewDiskMirror returns a mirror rooted at dir.
func NewDiskMirror(dir string) *DiskMirror {
	return &DiskMirror{dir: dir}
}

// Write stores code in {dir}/{key}.code.
func (d *DiskMirror) Write(ctx context.Context, key, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(d.Path(key), []byte(code), 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Path returns the file used for key.
func (d *DiskMirror) Path(key string) string {
	return filepath.Join(d.dir, key+FileExtension)
}

// Name returns "disk".
func (d *DiskMirror) Name() string { return "disk" }
