// Package media checks uploads before they are handed to storage.
package media

import (
	"errors"
	"fmt"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/postflow/internal/models"
)

const DefaultMaxBytes int64 = 100 * 1024 * 1024 // 100 MB

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedTypes = map[string]models.MediaKind{
	"jpg":  models.MediaKindImage,
	"jpeg": models.MediaKindImage,
	"png":  models.MediaKindImage,
	"gif":  models.MediaKindImage,
	"webp": models.MediaKindImage,
	"mp4":  models.MediaKindVideo,
	"mov":  models.MediaKindVideo,
}

// Info is what sniffing the file content told us.
type Info struct {
	MIME      string
	Extension string
	Kind      models.MediaKind
	Size      int64
}

// Validate sniffs data and enforces the size limit. maxBytes <= 0 uses
// DefaultMaxBytes.
func Validate(data []byte, maxBytes int64) (*Info, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	size := int64(len(data))
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if size > maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, size, maxBytes)
	}

	fileType, err := filetype.Match(data)
	if err != nil || fileType == types.Unknown {
		return nil, ErrUnsupportedType
	}
	kind, ok := allowedTypes[fileType.Extension]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, fileType.Extension)
	}

	return &Info{
		MIME:      fileType.MIME.Value,
		Extension: fileType.Extension,
		Kind:      kind,
		Size:      size,
	}, nil
}
