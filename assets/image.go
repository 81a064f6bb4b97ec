package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image holds CPU-side pixel data ready for upload.
type Image struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
}

// DecodeImage decodes any registered image format and converts it to RGBA8.
func DecodeImage(name string, r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", name, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &Image{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}, nil
}

// FlipRows returns the pixels with rows reversed, which turns a top-down
// image into the bottom-up layout texture uploads expect.
func (img *Image) FlipRows() []byte {
	stride := img.Width * 4
	out := make([]byte, len(img.Pixels))
	for y := 0; y < img.Height; y++ {
		copy(out[(img.Height-1-y)*stride:], img.Pixels[y*stride:(y+1)*stride])
	}
	return out
}
