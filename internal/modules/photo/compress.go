package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxWidth    = 1920
	jpegQuality = 85
)

// Compress decodes an image, scales it down to maxWidth keeping the aspect
// ratio and re-encodes as JPEG. Images already narrow enough are re-encoded
// without resampling. Phone camera originals run to 5-15 MB; this brings them
// down before they ever travel to storage.
func Compress(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxWidth {
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, h*maxWidth/w))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		src = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
