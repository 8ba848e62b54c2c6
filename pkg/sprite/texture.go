package sprite

import (
	"fmt"

	"github.com/Faultbox/spritebatch/pkg/geom"
)

// Texture is an opaque handle to a texture owned by a Backend.
// Handles are assigned by the backend and never reused.
type Texture uint32

// Screen is the zero Texture. Used as a target it denotes the current
// presentation surface rather than a texture.
const Screen Texture = 0

// TextureFormat is the pixel layout of texture data.
type TextureFormat int

const (
	FormatRGBA8 TextureFormat = iota
	FormatBGRA8
)

// String returns the format name.
func (f TextureFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatBGRA8:
		return "bgra8"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// TextureUsage tells the backend how the texture will be used.
type TextureUsage int

const (
	// UsageDefault textures can only be sampled.
	UsageDefault TextureUsage = iota
	// UsageRenderTarget textures can also be drawn into.
	UsageRenderTarget
)

// String returns the usage name.
func (u TextureUsage) String() string {
	switch u {
	case UsageDefault:
		return "default"
	case UsageRenderTarget:
		return "render-target"
	default:
		return fmt.Sprintf("usage(%d)", int(u))
	}
}

// bytesPerPixel is the same for every supported format.
const bytesPerPixel = 4

// TextureLoadOptions describes a texture to create.
type TextureLoadOptions struct {
	Name   string
	Data   []byte // optional; width*height*4 bytes, rows top to bottom
	Width  uint32
	Height uint32
	Format TextureFormat
	Usage  TextureUsage
}

// Validate checks that the options describe a texture a backend can create.
func (o TextureLoadOptions) Validate() error {
	if o.Width == 0 || o.Height == 0 {
		return fmt.Errorf("%w: %q has size %dx%d", ErrInvalidTexture, o.Name, o.Width, o.Height)
	}
	if o.Data != nil {
		want := int(o.Width) * int(o.Height) * bytesPerPixel
		if len(o.Data) != want {
			return fmt.Errorf("%w: %q has %d bytes of data, want %d", ErrInvalidTexture, o.Name, len(o.Data), want)
		}
	}
	switch o.Format {
	case FormatRGBA8, FormatBGRA8:
	default:
		return fmt.Errorf("%w: %q has unsupported %s", ErrInvalidTexture, o.Name, o.Format)
	}
	switch o.Usage {
	case UsageDefault, UsageRenderTarget:
	default:
		return fmt.Errorf("%w: %q has unsupported %s", ErrInvalidTexture, o.Name, o.Usage)
	}
	return nil
}

// Info returns the TextureInfo a backend reports for a texture created from o.
func (o TextureLoadOptions) Info() TextureInfo {
	name := o.Name
	if name == "" {
		name = "Untitled"
	}
	return TextureInfo{
		Name:   name,
		Width:  o.Width,
		Height: o.Height,
		Format: o.Format,
		Usage:  o.Usage,
	}
}

// TextureInfo is what a backend knows about a loaded texture.
type TextureInfo struct {
	Name   string
	Width  uint32
	Height uint32
	Format TextureFormat
	Usage  TextureUsage
}

// Size returns the texture dimensions.
func (i TextureInfo) Size() geom.Size {
	return geom.Size{Width: i.Width, Height: i.Height}
}

// TextureIDs hands out texture handles for backends. The first handle is 1
// so that no texture ever collides with Screen.
type TextureIDs struct {
	last Texture
}

// Next returns a handle that has never been returned before.
func (ids *TextureIDs) Next() Texture {
	ids.last++
	return ids.last
}
