package imaging_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/JaimeStill/leafscan/pkg/imaging"
)

var dec imaging.Decoder

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecodeBytes(t *testing.T) {
	data := encodePNG(t, solid(4, 3, color.RGBA{50, 160, 60, 255}))

	img, format, err := dec.DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if format != "png" {
		t.Errorf("format: got %s, want png", format)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds: got %v, want 4x3", b)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: imaging.ErrEmpty},
		{name: "garbage", data: []byte("definitely not an image"), want: imaging.ErrMalformed},
		{name: "truncated png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00"), want: imaging.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, _, err := dec.DecodeBytes(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error: got %v, want %v", err, tt.want)
			}
			if img != nil {
				t.Error("expected nil image on failure")
			}
		})
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "leaf.png")
	if err := os.WriteFile(good, encodePNG(t, solid(2, 2, color.White)), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := dec.DecodeFile(good); err != nil {
		t.Fatalf("DecodeFile(good) error = %v", err)
	}

	bad := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(bad, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := dec.DecodeFile(bad); !errors.Is(err, imaging.ErrMalformed) {
		t.Errorf("DecodeFile(bad): got %v, want ErrMalformed", err)
	}

	if _, err := dec.DecodeFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("DecodeFile(missing): expected error")
	}
}

// pngHeader returns a PNG stream whose IHDR declares a w x h 8-bit
// grayscale image, followed by an IDAT holding a single zero byte.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	chunk := func(kind string, data []byte) {
		binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		crc := crc32.NewIEEE()
		crc.Write([]byte(kind))
		crc.Write(data)
		buf.WriteString(kind)
		buf.Write(data)
		binary.Write(&buf, binary.BigEndian, crc.Sum32())
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8
	chunk("IHDR", ihdr)
	chunk("IDAT", []byte{0x78, 0x9c, 0x63, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01})
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	data := pngHeader(50000, 50000)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	img, _, err := dec.DecodeBytes(data)

	runtime.ReadMemStats(&after)

	if !errors.Is(err, imaging.ErrTooLarge) {
		t.Fatalf("DecodeBytes() error = %v, want ErrTooLarge", err)
	}
	if img != nil {
		t.Error("expected nil image on failure")
	}
	if alloc := after.TotalAlloc - before.TotalAlloc; alloc > 16<<20 {
		t.Errorf("rejecting header allocated %d bytes", alloc)
	}
}

func TestDecoderMaxPixels(t *testing.T) {
	data := encodePNG(t, solid(40, 25, color.White))

	tests := []struct {
		name      string
		maxPixels int
		want      error
	}{
		{name: "default", maxPixels: 0},
		{name: "exact limit", maxPixels: 1000},
		{name: "one below", maxPixels: 999, want: imaging.ErrTooLarge},
		{name: "tiny", maxPixels: 1, want: imaging.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := imaging.Decoder{MaxPixels: tt.maxPixels}
			img, _, err := dec.DecodeBytes(data)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("error: got %v, want %v", err, tt.want)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeBytes() error = %v", err)
			}
			if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 25 {
				t.Errorf("bounds: got %v, want 40x25", b)
			}
		})
	}
}

func TestDecoderFileTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	if err := os.WriteFile(path, pngHeader(20000, 20000), 0o644); err != nil {
		t.Fatal(err)
	}

	dec := imaging.Decoder{MaxPixels: 1 << 20}
	if _, err := dec.DecodeFile(path); !errors.Is(err, imaging.ErrTooLarge) {
		t.Errorf("DecodeFile() error = %v, want ErrTooLarge", err)
	}
}
