package images

import "encoding/base64"

// placeholderPNGBase64 is a transparent 1x1 PNG, served when a book has no
// stored cover and none can be fetched. Keeping the UI fed with valid image
// bytes beats a broken-image icon.
const placeholderPNGBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAAC0lEQVR42mNgAAIAAAUAAen63NgAAAAASUVORK5CYII="

// PlaceholderMimeType is the content type of the placeholder image.
const PlaceholderMimeType = "image/png"

var placeholderPNG = mustDecodeBase64(placeholderPNGBase64)

// Placeholder returns the 1x1 PNG fallback. Callers must not mutate the
// returned slice.
func Placeholder() []byte {
	return placeholderPNG
}

func mustDecodeBase64(s string) []byte {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic("images: invalid placeholder constant: " + err.Error())
	}
	return data
}
