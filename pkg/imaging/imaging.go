// Package imaging decodes raster images from bytes or files.
// JPEG, PNG and GIF come from the standard library; BMP, TIFF and WebP
// are registered from golang.org/x/image.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels bounds the declared width*height of a decoded image
// when a Decoder leaves MaxPixels unset.
const DefaultMaxPixels = 89478485

var (
	// ErrMalformed indicates the input could not be decoded as an image.
	ErrMalformed = errors.New("malformed image")
	// ErrEmpty indicates the input contained no bytes.
	ErrEmpty = errors.New("empty image data")
	// ErrTooLarge indicates the header declares more pixels than allowed.
	ErrTooLarge = errors.New("image exceeds pixel limit")
)

// Decoder reads images after checking the declared dimensions against
// MaxPixels. A zero MaxPixels means DefaultMaxPixels.
type Decoder struct {
	MaxPixels int
}

func (d Decoder) limit() int64 {
	if d.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return int64(d.MaxPixels)
}

// Decode reads a single image from r. The header is parsed first so an
// oversized image is rejected before any pixel buffer is allocated.
// Decoding failures are reported as ErrMalformed; a blank image is never
// substituted.
func (d Decoder) Decode(r io.Reader) (image.Image, string, error) {
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, "", decodeError(err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: zero-sized bounds %dx%d", ErrMalformed, cfg.Width, cfg.Height)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > d.limit() {
		return nil, "", fmt.Errorf("%w: %dx%d is %d pixels, limit %d",
			ErrTooLarge, cfg.Width, cfg.Height, pixels, d.limit())
	}

	img, format, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, "", decodeError(err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", fmt.Errorf("%w: zero-sized bounds %v", ErrMalformed, b)
	}

	return img, format, nil
}

// DecodeBytes decodes an in-memory image.
func (d Decoder) DecodeBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}
	return d.Decode(bytes.NewReader(data))
}

// DecodeFile opens and decodes the image at path.
func (d Decoder) DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := d.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

func decodeError(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrEmpty
	}
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}
