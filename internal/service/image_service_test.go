package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"bloghub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestImageService(t *testing.T) *ImageService {
	t.Helper()
	return NewImageService(&config.Config{
		ImageUploadDir:       t.TempDir(),
		ImageMaxUploadSizeMB: 10,
	})
}

func TestImageServiceUploadAndResolve(t *testing.T) {
	svc := newTestImageService(t)
	content := tinyPNG(t, 1200, 800)

	uploaded, err := svc.Upload(UploadImageInput{
		UserID:      42,
		Filename:    "thumb.png",
		ContentType: "image/png",
		Content:     content,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uploaded.Hash)
	assert.Equal(t, 1200, uploaded.Width)
	assert.Equal(t, 800, uploaded.Height)

	for _, format := range []string{"jpg", "webp"} {
		path, err := svc.ResolveForServing(uploaded.Hash, format)
		require.NoError(t, err)
		_, statErr := os.Stat(path)
		require.NoError(t, statErr)
	}

	// Same bytes from the same user land at the same path.
	again, err := svc.Upload(UploadImageInput{
		UserID:      42,
		Filename:    "thumb-copy.png",
		ContentType: "image/png",
		Content:     content,
	})
	require.NoError(t, err)
	assert.Equal(t, uploaded.Hash, again.Hash)

	// Different user, different path.
	other, err := svc.Upload(UploadImageInput{
		UserID:      7,
		Filename:    "thumb.png",
		ContentType: "image/png",
		Content:     content,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uploaded.Hash, other.Hash)
}

func TestImageServiceNormalizesOversizedUploads(t *testing.T) {
	svc := newTestImageService(t)

	uploaded, err := svc.Upload(UploadImageInput{
		UserID:      1,
		Filename:    "big.png",
		ContentType: "image/png",
		Content:     tinyPNG(t, 3000, 1500),
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, uploaded.Width, MasterMaxSize)
	assert.LessOrEqual(t, uploaded.Height, MasterMaxSize)
}

func TestImageServiceUploadValidation(t *testing.T) {
	svc := newTestImageService(t)

	tests := []struct {
		name  string
		input UploadImageInput
	}{
		{
			name:  "no user",
			input: UploadImageInput{Content: tinyPNG(t, 10, 10)},
		},
		{
			name:  "empty content",
			input: UploadImageInput{UserID: 1},
		},
		{
			name:  "not an image",
			input: UploadImageInput{UserID: 1, Content: []byte("plain text payload")},
		},
		{
			name: "content type mismatch",
			input: UploadImageInput{
				UserID:      1,
				ContentType: "image/gif",
				Content:     tinyPNG(t, 10, 10),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(tt.input)
			assertValidationError(t, err)
		})
	}
}

func TestImageServiceInlineThumbnail(t *testing.T) {
	svc := newTestImageService(t)

	uri, err := svc.InlineThumbnail(UploadImageInput{
		UserID:  1,
		Content: tinyPNG(t, 64, 64),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}

func TestImageServiceInlineThumbnailSizeGate(t *testing.T) {
	svc := newTestImageService(t)

	// The PNG decoder stops at IEND, so zero padding after the image
	// data lets the payload land on an exact byte count.
	small := tinyPNG(t, 64, 64)
	require.Less(t, len(small), InlineThumbnailMaxBytes)
	atLimit := append(small, make([]byte, InlineThumbnailMaxBytes-len(small))...)

	uri, err := svc.InlineThumbnail(UploadImageInput{
		UserID:  1,
		Content: atLimit,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	_, err = svc.InlineThumbnail(UploadImageInput{
		UserID:  1,
		Content: append(atLimit, 0),
	})
	assertValidationError(t, err)
}

func TestImageServiceResolveRejectsTraversal(t *testing.T) {
	svc := newTestImageService(t)

	_, err := svc.ResolveForServing("../etc/passwd", "jpg")
	assertValidationError(t, err)

	_, err = svc.ResolveForServing("ABCDEF", "jpg")
	assertValidationError(t, err)

	_, err = svc.ResolveForServing(strings.Repeat("a", 64), "png")
	assertValidationError(t, err)
}
