package sprite

import (
	"errors"
	"fmt"
)

var (
	// ErrTextureNotFound is returned when a source texture is not loaded.
	ErrTextureNotFound = errors.New("texture not found")
	// ErrTargetNotFound is returned when a target texture is not loaded.
	ErrTargetNotFound = errors.New("target texture not found")
	// ErrInvalidTarget is returned when a target was not created with UsageRenderTarget.
	ErrInvalidTarget = errors.New("texture is not usable as a render target")
	// ErrSelfTarget is returned when a texture is drawn onto itself.
	ErrSelfTarget = errors.New("texture cannot be drawn onto itself")
	// ErrInvalidTexture is returned for texture load options a backend cannot honor.
	ErrInvalidTexture = errors.New("invalid texture")
	// ErrSurfaceUnavailable is returned by a Backend when the presentation
	// surface cannot be acquired for this frame. Graphics recovers from it.
	ErrSurfaceUnavailable = errors.New("surface unavailable")
	// ErrPresenting is returned when Graphics is used while it is presenting.
	ErrPresenting = errors.New("frame is being presented")
)

// TextureError records a failed texture lookup.
type TextureError struct {
	Op      string
	Texture Texture
	Err     error
}

func (e *TextureError) Error() string {
	return fmt.Sprintf("%s: texture %d: %v", e.Op, e.Texture, e.Err)
}

func (e *TextureError) Unwrap() error { return e.Err }
