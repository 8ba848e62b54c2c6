package assets

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

var errTGATruncated = errors.New("TGA data truncated")

// DecodeTGA decodes an uncompressed or RLE compressed true-color TGA file
// with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.NRGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	d := tgaDecoder{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		width:       width,
		height:      height,
		bpp:         bpp / 8,
		topToBottom: descriptor&0x20 != 0, // bit 5: rows stored top first
	}

	if imageType == TGATypeUncompressed {
		if len(d.src) < width*height*d.bpp {
			return nil, errTGATruncated
		}
		for i := 0; i < width*height; i++ {
			d.put(i, d.pixel())
		}
	} else if err := d.decodeRLE(); err != nil {
		return nil, err
	}

	return d.img, nil
}

type tgaDecoder struct {
	img           *image.NRGBA
	src           []byte
	pos           int
	width, height int
	bpp           int
	topToBottom   bool
}

// pixel reads one BGR(A) pixel and returns it as RGBA.
func (d *tgaDecoder) pixel() [4]uint8 {
	p := d.src[d.pos : d.pos+d.bpp]
	d.pos += d.bpp
	a := uint8(255)
	if d.bpp == 4 {
		a = p[3]
	}
	return [4]uint8{p[2], p[1], p[0], a}
}

// put stores the n-th pixel in file order.
func (d *tgaDecoder) put(n int, c [4]uint8) {
	x, y := n%d.width, n/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	i := d.img.PixOffset(x, y)
	copy(d.img.Pix[i:i+4], c[:])
}

func (d *tgaDecoder) decodeRLE() error {
	total := d.width * d.height
	for n := 0; n < total; {
		if d.pos >= len(d.src) {
			return errTGATruncated
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1
		repeat := packet&0x80 != 0

		var c [4]uint8
		for i := 0; i < count && n < total; i++ {
			if !repeat || i == 0 {
				if d.pos+d.bpp > len(d.src) {
					return errTGATruncated
				}
				c = d.pixel()
			}
			d.put(n, c)
			n++
		}
	}
	return nil
}
