// Package synth renders a small synthetic leaf dataset: flat green
// "Healthy" leaves and brown "Disease" leaves carrying pale spots. The
// output is fully deterministic and is used for smoke-testing training and
// serving end to end.
package synth

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// Size is the edge length of generated images.
const Size = 128

// SpotColor fills the lesions drawn on diseased leaves.
var SpotColor = color.NRGBA{R: 220, G: 220, B: 220, A: 255}

// Class describes one synthetic category.
type Class struct {
	Name  string
	Fill  color.NRGBA
	Spots bool
}

// Classes are the categories Generate writes.
var Classes = []Class{
	{Name: "Healthy", Fill: color.NRGBA{R: 50, G: 160, B: 60, A: 255}},
	{Name: "Disease", Fill: color.NRGBA{R: 140, G: 90, B: 50, A: 255}, Spots: true},
}

// Healthy returns the i-th healthy leaf.
func Healthy(i int) *image.NRGBA {
	return Leaf(Classes[0], i)
}

// Diseased returns the i-th diseased leaf.
func Diseased(i int) *image.NRGBA {
	return Leaf(Classes[1], i)
}

// Leaf renders the i-th sample of class c.
func Leaf(c Class, i int) *image.NRGBA {
	img := Fill(Size, Size, c.Fill)
	if c.Spots {
		for j := range 6 {
			x := (i*17+j*13)%100 + 10
			y := (i*11+j*19)%100 + 10
			r := 6 + (i+j)%10
			ellipse(img, image.Rect(x, y, x+r+1, y+r+1), SpotColor)
		}
	}
	return img
}

// Fill returns a w x h image of a single colour.
func Fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// Generate writes perClass PNGs per class under dir/<class>/<class>_<i>.png
// and returns the written paths in generation order.
func Generate(dir string, perClass int) ([]string, error) {
	var paths []string
	for _, c := range Classes {
		classDir := filepath.Join(dir, c.Name)
		if err := os.MkdirAll(classDir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", classDir, err)
		}
		for i := range perClass {
			path := filepath.Join(classDir, fmt.Sprintf("%s_%d.png", c.Name, i))
			if err := WritePNG(path, Leaf(c, i)); err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func ellipse(img *image.NRGBA, box image.Rectangle, c color.NRGBA) {
	box = box.Intersect(img.Bounds())
	if box.Empty() {
		return
	}
	cx := float64(box.Min.X+box.Max.X) / 2
	cy := float64(box.Min.Y+box.Max.Y) / 2
	rx := float64(box.Dx()) / 2
	ry := float64(box.Dy()) / 2

	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}
