// Package fs is the filesystem layer drm lists and deletes through.
// Production code uses the OS filesystem; tests swap in an in-memory one.
package fs

import (
	"context"
	"os"
)

type FS interface {
	Stat(path string) (os.FileInfo, error)
	// ReadDir lists the immediate children of dir, sorted by name.
	ReadDir(dir string) ([]os.FileInfo, error)
	// RemoveAll deletes path and, for directories, everything below it.
	RemoveAll(ctx context.Context, path string) error
}
