package sprite

import "github.com/Faultbox/spritebatch/pkg/geom"

// Backend executes recorded frames on a GPU API and owns the texture table.
//
// Present runs commands in order: a Clear clears its target (or the main
// surface for Screen) to its color; a DrawBatch binds its texture and issues
// one instanced draw over instances[Range] into its target, loading rather
// than clearing the target's contents. When the surface cannot be acquired
// Present returns an error wrapping ErrSurfaceUnavailable.
type Backend interface {
	LoadTexture(opts TextureLoadOptions) (Texture, error)
	UnloadTexture(t Texture)
	QueryTexture(t Texture) (TextureInfo, bool)
	ResizeViewport(size geom.Size)
	Viewport() geom.Size
	Present(commands []Command, instances []Instance) error
}
