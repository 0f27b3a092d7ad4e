package infrastructure

import (
	"testing"

	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExtensionFromMIME(t *testing.T) {
	for mime, want := range map[string]string{
		"image/jpeg": "jpg",
		"image/jpg":  "jpg",
		"image/png":  "png",
		"image/webp": "webp",
	} {
		ext, err := GetExtensionFromMIME(mime)
		require.NoError(t, err, mime)
		assert.Equal(t, want, ext)
	}

	_, err := GetExtensionFromMIME("image/gif")
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
}
