// Package debug provides debugging helpers for the demo runners.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes numbered PNG captures into a directory.
type Screenshots struct {
	dir    string
	prefix string
	now    func() time.Time
	taken  int
}

// NewScreenshots creates a capture writer. An empty dir writes into the
// working directory.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{dir: dir, prefix: prefix, now: time.Now}
}

// Taken returns how many captures were written.
func (s *Screenshots) Taken() int { return s.taken }

// SavePixels writes tightly packed RGBA pixels. With flip set the rows are
// stored bottom first, as glReadPixels returns them.
func (s *Screenshots) SavePixels(pixels []byte, width, height int, flip bool) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("empty capture %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := y
		if flip {
			src = height - 1 - y
		}
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src*row:(src+1)*row])
	}
	return s.SaveImage(img)
}

// SaveImage writes img and returns the file name.
func (s *Screenshots) SaveImage(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	name := s.filename()
	file, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	s.taken++
	return name, nil
}

// filename stamps the capture with the time and a counter, so several
// captures within one second do not overwrite each other.
func (s *Screenshots) filename() string {
	name := fmt.Sprintf("%s_%s_%03d.png", s.prefix, s.now().Format("2006-01-02_15-04-05"), s.taken)
	if s.dir != "" {
		name = filepath.Join(s.dir, name)
	}
	return name
}
