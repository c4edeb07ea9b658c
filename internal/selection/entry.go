package selection

import (
	"os"
	"time"
)

// Entry is one immediate child of the target directory.
type Entry struct {
	Path    string
	ModTime time.Time
	Size    int64
	IsDir   bool
}

// FromFileInfo builds an Entry for path from its file info.
func FromFileInfo(path string, info os.FileInfo) Entry {
	return Entry{
		Path:    path,
		ModTime: info.ModTime(),
		Size:    info.Size(),
		IsDir:   info.IsDir(),
	}
}

// Paths returns the paths of entries in order.
func Paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}
