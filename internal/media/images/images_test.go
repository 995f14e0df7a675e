package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTestPNG renders a small solid-color PNG for decoder tests.
func encodeTestPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestComputeBlurHash(t *testing.T) {
	data := encodeTestPNG(t, 120, 180, color.RGBA{R: 200, G: 40, B: 40, A: 255})

	hash, err := ComputeBlurHash(data)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComputeBlurHash_SmallImage(t *testing.T) {
	// Below the thumbnail threshold, the image is hashed as-is.
	data := encodeTestPNG(t, 8, 8, color.White)

	hash, err := ComputeBlurHash(data)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComputeBlurHash_InvalidBytes(t *testing.T) {
	_, err := ComputeBlurHash([]byte("not an image"))
	assert.Error(t, err)
}

func TestPlaceholder(t *testing.T) {
	data := Placeholder()
	require.NotEmpty(t, data)
	assert.Equal(t, "image/png", PlaceholderMimeType)

	// It must decode as a real 1x1 PNG.
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
}

func TestResizeForBlurHash_PreservesAspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	resized := resizeForBlurHash(img)

	assert.Equal(t, 64, resized.Bounds().Dx())
	assert.Equal(t, 32, resized.Bounds().Dy())
}
