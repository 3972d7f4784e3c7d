package exchange

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FilePart exposes a local file as a length-known streamable part. The
// length comes from file metadata, so the file is never buffered.
type FilePart struct {
	Name   string // base name, used as the part's filename
	Reader io.ReadCloser
	Size   int64
}

func openFilePart(path string) (*FilePart, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening file '%s'", path)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "getting size of file '%s'", path)
	}
	return &FilePart{
		Name:   filepath.Base(path),
		Reader: file,
		Size:   info.Size(),
	}, nil
}
