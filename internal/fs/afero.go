package fs

import (
	"context"
	"os"

	"github.com/spf13/afero"
)

// AferoFS implements FS on top of an afero filesystem.
type AferoFS struct {
	fs afero.Fs
}

func New(fs afero.Fs) *AferoFS {
	return &AferoFS{fs: fs}
}

// NewOS returns an FS backed by the local operating system.
func NewOS() *AferoFS {
	return New(afero.NewOsFs())
}

func (a *AferoFS) Stat(path string) (os.FileInfo, error) {
	return a.fs.Stat(path)
}

func (a *AferoFS) ReadDir(dir string) ([]os.FileInfo, error) {
	return afero.ReadDir(a.fs, dir)
}

func (a *AferoFS) RemoveAll(ctx context.Context, path string) error {
	return retry(ctx, "remove", func() error {
		return a.fs.RemoveAll(path)
	})
}
