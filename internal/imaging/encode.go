package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
)

// EncodedImage contains a PNG image encoded for transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// SavePNG writes img to path as a PNG file, replacing any existing file.
func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save PNG %s: %w", path, err)
	}
	return nil
}

// EncodePNGBase64 encodes img as a base64 PNG.
func EncodePNGBase64(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Preview downscales img to fit within maxSide x maxSide, preserving the
// aspect ratio. Images already within bounds, or a maxSide <= 0, are returned
// unchanged.
func Preview(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}
