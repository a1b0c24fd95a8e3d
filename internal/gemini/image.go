package gemini

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

// MaxImageSide is the longest edge an uploaded image is scaled down to.
const MaxImageSide = 1536

// NormalizeImages decodes each image and re-encodes it as JPEG, scaled to fit
// within MaxImageSide. An undecodable image is a validation error.
func NormalizeImages(images [][]byte) ([][]byte, error) {
	out := make([][]byte, 0, len(images))
	for i, raw := range images {
		img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
		if err != nil {
			return nil, model.Invalid("images", "image %d is not a supported image: %v", i+1, err)
		}
		b := img.Bounds()
		if b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
			img = imaging.Fit(img, MaxImageSide, MaxImageSide, imaging.Lanczos)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
			return nil, fmt.Errorf("encode image %d: %w", i+1, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}
