package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/Faultbox/spritebatch/pkg/sprite"
)

// Decode decodes an image file, picking the format from the file extension.
// The result always has straight alpha and rows packed without padding.
func Decode(name string, data []byte) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".png":
		img, err = png.Decode(bytes.NewReader(data))
	case ".bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	case ".webp":
		img, err = webp.Decode(bytes.NewReader(data))
	case ".tga":
		img, err = DecodeTGA(data)
	default:
		return nil, fmt.Errorf("decoding %s: unsupported image format %q", name, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA converts img to a packed *image.NRGBA whose bounds start at the origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Fit scales img down so neither side exceeds maxSide, keeping its aspect
// ratio. Images that already fit are returned as is.
func Fit(img *image.NRGBA, maxSide int) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}
	scale := float64(maxSide) / float64(max(w, h))
	dw := max(int(float64(w)*scale), 1)
	dh := max(int(float64(h)*scale), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// IsMagentaKey reports whether an RGB color is the magenta transparency key
// common in BMP sprite sheets. The tolerance absorbs encoder rounding.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ApplyMagentaKey makes magenta pixels transparent black in place, so linear
// filtering does not bleed the key color into sprite edges.
func ApplyMagentaKey(img *image.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if IsMagentaKey(img.Pix[i], img.Pix[i+1], img.Pix[i+2]) {
			copy(img.Pix[i:i+4], []uint8{0, 0, 0, 0})
		}
	}
}

// TextureOptions describes img as an RGBA8 texture.
func TextureOptions(name string, img *image.NRGBA, usage sprite.TextureUsage) sprite.TextureLoadOptions {
	img = ToNRGBA(img)
	b := img.Bounds()
	return sprite.TextureLoadOptions{
		Name:   name,
		Data:   img.Pix[:4*b.Dx()*b.Dy()],
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Format: sprite.FormatRGBA8,
		Usage:  usage,
	}
}
