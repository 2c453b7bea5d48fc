package media

import (
	"testing"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 0x49, 0x48, 0x44, 0x52}
	jpgHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 0x4A, 0x46, 0x49, 0x46, 0, 1}
	mp4Header = []byte{0, 0, 0, 0x18, 0x66, 0x74, 0x79, 0x70, 0x6D, 0x70, 0x34, 0x32, 0, 0, 0, 0, 0x6D, 0x70, 0x34, 0x32, 0x69, 0x73, 0x6F, 0x6D}
	pdfHeader = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
)

func TestValidateAcceptsImagesAndVideos(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		kind models.MediaKind
		mime string
	}{
		{"png", pngHeader, models.MediaKindImage, "image/png"},
		{"jpeg", jpgHeader, models.MediaKindImage, "image/jpeg"},
		{"mp4", mp4Header, models.MediaKindVideo, "video/mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Validate(tt.data, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, info.Kind)
			assert.Equal(t, tt.mime, info.MIME)
			assert.Equal(t, int64(len(tt.data)), info.Size)
		})
	}
}

func TestValidateRejects(t *testing.T) {
	_, err := Validate(nil, 0)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Validate(pngHeader, 4)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = Validate(pdfHeader, 0)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Validate([]byte("just some text"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
