package assets

import (
	"image"
	"image/color"
)

// Sheet is a grid of equally sized cells inside one image.
type Sheet struct {
	Image *image.NRGBA
	Cell  image.Point
	Cols  int
	Rows  int
}

// CellRect returns the pixel rectangle of cell i, counting row by row.
func (s Sheet) CellRect(i int) image.Rectangle {
	i %= s.Cols * s.Rows
	x, y := (i%s.Cols)*s.Cell.X, (i/s.Cols)*s.Cell.Y
	return image.Rect(x, y, x+s.Cell.X, y+s.Cell.Y)
}

// Len returns the number of cells.
func (s Sheet) Len() int { return s.Cols * s.Rows }

// NewSheet splits img into cells of the given size. Partial cells at the
// right and bottom edges are ignored.
func NewSheet(img *image.NRGBA, cellW, cellH int) Sheet {
	b := img.Bounds()
	return Sheet{
		Image: img,
		Cell:  image.Pt(cellW, cellH),
		Cols:  max(b.Dx()/max(cellW, 1), 1),
		Rows:  max(b.Dy()/max(cellH, 1), 1),
	}
}

// GenerateSheet draws a sheet of cols by rows round sprites, each in its own
// hue, on a transparent background. It stands in when no sheet file is given.
func GenerateSheet(cols, rows, cell int) Sheet {
	img := image.NewNRGBA(image.Rect(0, 0, cols*cell, rows*cell))
	r := float64(cell)/2 - 1
	for i := 0; i < cols*rows; i++ {
		c := hue(float64(i) / float64(cols*rows))
		ox, oy := (i%cols)*cell, (i/cols)*cell
		for y := 0; y < cell; y++ {
			for x := 0; x < cell; x++ {
				dx, dy := float64(x)-float64(cell)/2+0.5, float64(y)-float64(cell)/2+0.5
				d := dx*dx + dy*dy
				switch {
				case d <= (r-2)*(r-2):
					img.SetNRGBA(ox+x, oy+y, c)
				case d <= r*r:
					img.SetNRGBA(ox+x, oy+y, color.NRGBA{A: 255})
				}
			}
		}
	}
	return Sheet{Image: img, Cell: image.Pt(cell, cell), Cols: cols, Rows: rows}
}

// hue returns a saturated opaque color for h in [0, 1).
func hue(h float64) color.NRGBA {
	h6 := h * 6
	x := uint8(255 * (1 - abs(mod2(h6)-1)))
	switch int(h6) % 6 {
	case 0:
		return color.NRGBA{255, x, 0, 255}
	case 1:
		return color.NRGBA{x, 255, 0, 255}
	case 2:
		return color.NRGBA{0, 255, x, 255}
	case 3:
		return color.NRGBA{0, x, 255, 255}
	case 4:
		return color.NRGBA{x, 0, 255, 255}
	default:
		return color.NRGBA{255, 0, x, 255}
	}
}

func mod2(v float64) float64 {
	return v - 2*float64(int(v/2))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
