package features_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/JaimeStill/leafscan/internal/synth"
	"github.com/JaimeStill/leafscan/pkg/features"
)

func newExtractor(t *testing.T) *features.Extractor {
	t.Helper()
	e, err := features.New(features.DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func norm(v features.Vector) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

func TestDefaultConfig(t *testing.T) {
	cfg := features.DefaultConfig()
	if cfg.Bins != 8 || cfg.Width != 128 || cfg.Height != 128 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if cfg.Dim() != 24 {
		t.Errorf("Dim(): got %d, want 24", cfg.Dim())
	}
}

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  features.Config
	}{
		{"zero bins", features.Config{Bins: 0, Width: 128, Height: 128}},
		{"too many bins", features.Config{Bins: 257, Width: 128, Height: 128}},
		{"zero width", features.Config{Bins: 8, Width: 0, Height: 128}},
		{"negative height", features.Config{Bins: 8, Width: 128, Height: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := features.New(tt.cfg)
			if !errors.Is(err, features.ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestExtractShapeAcrossInputs(t *testing.T) {
	e := newExtractor(t)

	gray := image.NewGray(image.Rect(0, 0, 31, 17))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 7)
	}

	pal := image.NewPaletted(image.Rect(0, 0, 40, 40), color.Palette{
		color.NRGBA{50, 160, 60, 255},
		color.NRGBA{220, 220, 220, 255},
	})
	for i := range pal.Pix {
		pal.Pix[i] = uint8(i % 2)
	}

	cmyk := image.NewCMYK(image.Rect(0, 0, 12, 64))
	for i := range cmyk.Pix {
		cmyk.Pix[i] = uint8(i * 13)
	}

	ycc := image.NewYCbCr(image.Rect(0, 0, 300, 200), image.YCbCrSubsampleRatio420)
	for i := range ycc.Y {
		ycc.Y[i] = uint8(i)
	}

	offset := synth.Diseased(3).SubImage(image.Rect(20, 30, 90, 100))

	tests := []struct {
		name string
		img  image.Image
	}{
		{"gray", gray},
		{"paletted", pal},
		{"cmyk", cmyk},
		{"ycbcr", ycc},
		{"nrgba", synth.Healthy(0)},
		{"sub-image", offset},
		{"single pixel", synth.Fill(1, 1, color.NRGBA{10, 20, 30, 255})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := e.Extract(tt.img)
			if len(v) != e.Dim() {
				t.Fatalf("len: got %d, want %d", len(v), e.Dim())
			}
			for i, f := range v {
				if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) || f < 0 {
					t.Fatalf("component %d not finite non-negative: %v", i, f)
				}
			}
			if n := norm(v); math.Abs(n-1) > 1e-5 {
				t.Errorf("norm: got %v, want 1", n)
			}
		})
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := newExtractor(t)
	img := synth.Diseased(5)

	a := e.Extract(img)
	b := e.Extract(img)
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			t.Fatalf("component %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestExtractUniformImage(t *testing.T) {
	e := newExtractor(t)
	v := e.Extract(synth.Fill(128, 128, color.NRGBA{50, 160, 60, 255}))

	want := float32(1 / math.Sqrt(3))
	hot := map[int]bool{1: true, 8 + 5: true, 16 + 1: true}
	for i, f := range v {
		if hot[i] {
			if math.Abs(float64(f-want)) > 1e-6 {
				t.Errorf("component %d: got %v, want %v", i, f, want)
			}
			continue
		}
		if f != 0 {
			t.Errorf("component %d: got %v, want 0", i, f)
		}
	}
}

func TestExtractDropsAlpha(t *testing.T) {
	e := newExtractor(t)

	opaque := synth.Fill(128, 128, color.NRGBA{50, 160, 60, 255})
	transparent := synth.Fill(128, 128, color.NRGBA{50, 160, 60, 0})

	a := e.Extract(opaque)
	b := e.Extract(transparent)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("component %d: opaque %v, transparent %v", i, a[i], b[i])
		}
	}
}

func TestExtractGrayMatchesEqualRGB(t *testing.T) {
	e := newExtractor(t)

	gray := image.NewGray(image.Rect(0, 0, 128, 128))
	for i := range gray.Pix {
		gray.Pix[i] = 100
	}
	rgb := synth.Fill(128, 128, color.NRGBA{100, 100, 100, 255})

	a := e.Extract(gray)
	b := e.Extract(rgb)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("component %d: gray %v, rgb %v", i, a[i], b[i])
		}
	}
}

func TestExtractSeparatesClasses(t *testing.T) {
	e := newExtractor(t)

	healthy := e.Extract(synth.Healthy(0))
	diseased := e.Extract(synth.Diseased(0))

	var dist float64
	for i := range healthy {
		d := float64(healthy[i] - diseased[i])
		dist += d * d
	}
	if dist < 0.1 {
		t.Errorf("healthy and diseased vectors too close: %v", dist)
	}
}

func TestExtractCustomBins(t *testing.T) {
	e, err := features.New(features.Config{Bins: 16, Width: 32, Height: 32})
	if err != nil {
		t.Fatal(err)
	}
	v := e.Extract(synth.Diseased(1))
	if len(v) != 48 {
		t.Errorf("len: got %d, want 48", len(v))
	}
}

func assertSameVector(t *testing.T, a, b features.Vector) {
	t.Helper()
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			t.Fatalf("component %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestExtractDropsAlphaAcrossModels(t *testing.T) {
	e := newExtractor(t)

	leaf := color.NRGBA{50, 160, 60, 255}
	sky := color.NRGBA{90, 140, 220, 255}
	clear := func(c color.NRGBA) color.NRGBA {
		c.A = 0
		return c
	}

	paletted := func(p color.Palette) *image.Paletted {
		img := image.NewPaletted(image.Rect(0, 0, 64, 48), p)
		for i := range img.Pix {
			img.Pix[i] = uint8(i % 3 / 2)
		}
		return img
	}

	wide := func(a uint16) *image.NRGBA64 {
		img := image.NewNRGBA64(image.Rect(0, 0, 128, 128))
		for y := range 128 {
			for x := range 128 {
				c := color.NRGBA64{R: 0x3232, G: 0xa0a0, B: 0x3c3c, A: a}
				if (x+y)%4 == 0 {
					c = color.NRGBA64{R: 0x5a5a, G: 0x8c8c, B: 0xdcdc, A: a}
				}
				img.SetNRGBA64(x, y, c)
			}
		}
		return img
	}

	tests := []struct {
		name        string
		opaque      image.Image
		transparent image.Image
	}{
		{
			"paletted resized",
			paletted(color.Palette{leaf, sky}),
			paletted(color.Palette{clear(leaf), sky}),
		},
		{
			"sixteen bit",
			wide(0xffff),
			wide(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSameVector(t, e.Extract(tt.opaque), e.Extract(tt.transparent))
		})
	}
}

func TestExtractPremultipliedTransparentIsBlack(t *testing.T) {
	e := newExtractor(t)

	transparent := image.NewRGBA(image.Rect(0, 0, 128, 128))
	black := synth.Fill(128, 128, color.NRGBA{0, 0, 0, 255})

	assertSameVector(t, e.Extract(black), e.Extract(transparent))
}

func TestExtractSubImage(t *testing.T) {
	e := newExtractor(t)

	full := synth.Fill(256, 256, color.NRGBA{200, 40, 40, 255})
	for y := 64; y < 192; y++ {
		for x := 64; x < 192; x++ {
			full.Set(x, y, color.NRGBA{50, 160, 60, 255})
		}
	}
	sub := full.SubImage(image.Rect(64, 64, 192, 192))

	assertSameVector(t, e.Extract(synth.Fill(128, 128, color.NRGBA{50, 160, 60, 255})), e.Extract(sub))
}
