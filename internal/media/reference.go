package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"voxscribe/internal/media/format"
	"voxscribe/internal/services"
)

// Reference is an immutable handle to an input media file. The core only
// reads it; the caller keeps ownership of the file.
type Reference struct {
	Path  string
	Size  int64
	Class format.Classification
}

// Tag is shorthand for the classification tag.
func (r Reference) Tag() format.Tag {
	return r.Class.Tag
}

// SizeMB returns the size in mebibytes for diagnostics.
func (r Reference) SizeMB() float64 {
	return float64(r.Size) / (1024 * 1024)
}

// Open stats path and classifies it. A missing path yields ErrInputNotFound;
// directories are rejected the same way since they cannot hold media.
func Open(path string) (Reference, error) {
	if path == "" {
		return Reference{}, services.Wrap(services.ErrInputNotFound, "media", "open", "empty path", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Reference{}, services.Wrap(services.ErrInputNotFound, "media", "open", fmt.Sprintf("file not found: %s", path), nil)
		}
		return Reference{}, services.Wrap(services.ErrInputNotFound, "media", "open", path, err)
	}
	if info.IsDir() {
		return Reference{}, services.Wrap(services.ErrInputNotFound, "media", "open", fmt.Sprintf("%s is a directory", path), nil)
	}
	return Reference{
		Path:  path,
		Size:  info.Size(),
		Class: format.Classify(path),
	}, nil
}
