// Package features encodes images as fixed-length colour histogram vectors.
//
// An image is read as opaque RGB, stretched to the configured size,
// histogrammed per channel with density normalisation, and the concatenated
// R, G, B histograms are L2-normalised. The encoding is pure: the same
// pixels and configuration always produce a bit-identical vector.
package features

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"
)

// Epsilon keeps normalisation finite for degenerate vectors.
const Epsilon = 1e-8

const channels = 3

// ErrInvalidConfig indicates an unusable extractor configuration.
var ErrInvalidConfig = errors.New("invalid feature config")

// Config controls the histogram resolution and the resize target.
type Config struct {
	Bins   int `json:"bins" toml:"bins"`
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

// DefaultConfig returns 8 bins per channel at 128x128.
func DefaultConfig() Config {
	return Config{Bins: 8, Width: 128, Height: 128}
}

// Dim returns the length of vectors produced under this config.
func (c Config) Dim() int {
	return c.Bins * channels
}

// Validate reports whether the config can drive an extractor.
func (c Config) Validate() error {
	if c.Bins < 1 || c.Bins > 256 {
		return fmt.Errorf("%w: bins must be in [1,256], got %d", ErrInvalidConfig, c.Bins)
	}
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("%w: size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	return nil
}

// Vector is an L2-normalised feature vector.
type Vector []float32

// Float64 widens the vector for numeric work.
func (v Vector) Float64() []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}

// Extractor turns images into Vectors. It holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	cfg Config
}

// New validates cfg and returns an Extractor.
func New(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{cfg: cfg}, nil
}

// Config returns the extractor configuration.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Dim returns the output vector length.
func (e *Extractor) Dim() int {
	return e.cfg.Dim()
}

// Extract encodes img as a Vector of length Dim. The source is resampled
// directly to the target size; no full-resolution copy is made.
func (e *Extractor) Extract(img image.Image) Vector {
	resized := stretch(opaqueView(img), e.cfg.Width, e.cfg.Height)
	hist := histogram(resized, e.cfg.Bins)

	norm := floats.Norm(hist, 2) + Epsilon
	out := make(Vector, len(hist))
	for i, h := range hist {
		out[i] = float32(h / norm)
	}
	return out
}

// opaqueView presents src with alpha discarded rather than composited.
// Non-premultiplied sources (NRGBA, NRGBA64, and paletted images whose
// entries are NRGBA) keep their stored RGB under any alpha. Premultiplied
// sources have no colour left at zero alpha, so fully transparent pixels
// read as black.
func opaqueView(src image.Image) image.Image {
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		return src
	}
	return opaque{src}
}

type opaque struct {
	image.Image
}

func (o opaque) ColorModel() color.Model {
	return color.NRGBAModel
}

func (o opaque) At(x, y int) color.Color {
	switch c := o.Image.At(x, y).(type) {
	case color.NRGBA:
		c.A = 0xff
		return c
	case color.NRGBA64:
		c.A = 0xffff
		return c
	default:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		n.A = 0xff
		return n
	}
}

// stretch resizes without preserving aspect ratio into an NRGBA image
// anchored at the origin.
func stretch(src image.Image, w, h int) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// histogram returns the per-channel density histograms over [0,256),
// concatenated in R, G, B order.
func histogram(img *image.NRGBA, bins int) []float64 {
	counts := make([]int, bins*channels)
	for i := 0; i < len(img.Pix); i += 4 {
		for c := range channels {
			v := int(img.Pix[i+c])
			counts[c*bins+v*bins/256]++
		}
	}

	total := float64(img.Bounds().Dx() * img.Bounds().Dy())
	width := 256.0 / float64(bins)

	hist := make([]float64, len(counts))
	for i, n := range counts {
		hist[i] = float64(n) / (total * width)
	}
	return hist
}
