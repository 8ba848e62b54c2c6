// Package ebitengine implements sprite.Backend on top of Ebitengine images.
//
// Ebitengine owns the render loop, so the screen is only available inside
// Game.Draw. Call SetScreen with the screen image before Graphics.Present;
// Present releases it again.
package ebitengine

import (
	"image"
	gomath "math"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/pkg/geom"
	"github.com/Faultbox/spritebatch/pkg/math"
	"github.com/Faultbox/spritebatch/pkg/sprite"
)

// Backend draws sprite frames into ebiten images.
type Backend struct {
	log      *zap.Logger
	viewport geom.Size
	screen   *ebiten.Image
	textures map[sprite.Texture]*texture
	ids      sprite.TextureIDs
	op       ebiten.DrawImageOptions
}

type texture struct {
	img  *ebiten.Image
	info sprite.TextureInfo
}

// New creates the backend.
func New(viewport geom.Size, log *zap.Logger) *Backend {
	return &Backend{
		log:      log,
		viewport: viewport,
		textures: make(map[sprite.Texture]*texture, 100),
	}
}

// SetScreen binds the image the next Present draws Screen commands into.
func (b *Backend) SetScreen(screen *ebiten.Image) {
	b.screen = screen
}

// LoadTexture creates an ebiten image from the texture data.
func (b *Backend) LoadTexture(opts sprite.TextureLoadOptions) (sprite.Texture, error) {
	if err := opts.Validate(); err != nil {
		return sprite.Screen, err
	}

	img := ebiten.NewImage(int(opts.Width), int(opts.Height))
	if opts.Data != nil {
		img.WritePixels(premultiply(opts.Data, opts.Format))
	}

	t := b.ids.Next()
	b.textures[t] = &texture{img: img, info: opts.Info()}
	b.log.Debug("texture created",
		zap.Uint32("texture", uint32(t)),
		zap.Uint32("width", opts.Width),
		zap.Uint32("height", opts.Height),
	)
	return t, nil
}

// premultiply converts straight-alpha pixels to the premultiplied RGBA
// layout WritePixels expects.
func premultiply(data []byte, format sprite.TextureFormat) []byte {
	out := make([]byte, len(data))
	for i := 0; i+3 < len(data); i += 4 {
		r, g, b, a := data[i], data[i+1], data[i+2], data[i+3]
		if format == sprite.FormatBGRA8 {
			r, b = b, r
		}
		out[i] = uint8(uint16(r) * uint16(a) / 255)
		out[i+1] = uint8(uint16(g) * uint16(a) / 255)
		out[i+2] = uint8(uint16(b) * uint16(a) / 255)
		out[i+3] = a
	}
	return out
}

// UnloadTexture releases the image behind t.
func (b *Backend) UnloadTexture(t sprite.Texture) {
	if tex, ok := b.textures[t]; ok {
		tex.img.Deallocate()
		delete(b.textures, t)
	}
}

// QueryTexture returns the description of t.
func (b *Backend) QueryTexture(t sprite.Texture) (sprite.TextureInfo, bool) {
	tex, ok := b.textures[t]
	if !ok {
		return sprite.TextureInfo{}, false
	}
	return tex.info, true
}

// ResizeViewport sets the logical screen size reported to Ebitengine.
func (b *Backend) ResizeViewport(size geom.Size) {
	b.viewport = size
}

// Viewport returns the logical screen size.
func (b *Backend) Viewport() geom.Size {
	return b.viewport
}

// Present draws the frame into the screen bound by SetScreen.
func (b *Backend) Present(commands []sprite.Command, instances []sprite.Instance) error {
	screen := b.screen
	b.screen = nil
	if screen == nil {
		return sprite.ErrSurfaceUnavailable
	}

	for _, cmd := range commands {
		switch c := cmd.(type) {
		case sprite.Clear:
			dst, err := b.target(screen, c.Target)
			if err != nil {
				return err
			}
			dst.Fill(c.Color.NRGBA())

		case sprite.DrawBatch:
			dst, err := b.target(screen, c.Target)
			if err != nil {
				return err
			}
			src, ok := b.textures[c.Texture]
			if !ok {
				return &sprite.TextureError{Op: "present", Texture: c.Texture, Err: sprite.ErrTextureNotFound}
			}
			// Ebitengine merges consecutive draws from one source image
			// into a single GPU call.
			for _, inst := range instances[c.Range.Start:c.Range.End] {
				b.draw(dst, src, inst)
			}
		}
	}
	return nil
}

func (b *Backend) target(screen *ebiten.Image, target sprite.Texture) (*ebiten.Image, error) {
	if target == sprite.Screen {
		return screen, nil
	}
	tex, ok := b.textures[target]
	if !ok || tex.info.Usage != sprite.UsageRenderTarget {
		return nil, &sprite.TextureError{Op: "present", Texture: target, Err: sprite.ErrTargetNotFound}
	}
	return tex.img, nil
}

// draw maps the source region of inst onto dst.
func (b *Backend) draw(dst *ebiten.Image, src *texture, inst sprite.Instance) {
	region := sourceRegion(inst.SrcRect, src.info.Size())
	if region.Empty() {
		return
	}

	op := &b.op
	op.GeoM = geoM(inst.Transform, region)
	op.ColorScale.Reset()
	op.ColorScale.ScaleAlpha(inst.Alpha)
	op.Filter = ebiten.FilterLinear

	dst.DrawImage(src.img.SubImage(region).(*ebiten.Image), op)
}

// sourceRegion converts a normalized source rectangle into texture pixels.
func sourceRegion(uv [4]float32, size geom.Size) image.Rectangle {
	w, h := float64(size.Width), float64(size.Height)
	return image.Rect(
		int(gomath.Round(float64(uv[0])*w)),
		int(gomath.Round(float64(uv[1])*h)),
		int(gomath.Round(float64(uv[0]+uv[2])*w)),
		int(gomath.Round(float64(uv[1]+uv[3])*h)),
	)
}

// geoM turns an instance transform, which maps the unit square, into a
// matrix over the pixels of region. Ebitengine places the region's top-left
// pixel at (0, 0), so only the linear part is scaled by the region size.
func geoM(m math.Mat4, region image.Rectangle) ebiten.GeoM {
	sw, sh := float64(region.Dx()), float64(region.Dy())
	var g ebiten.GeoM
	g.SetElement(0, 0, float64(m[0])/sw)
	g.SetElement(0, 1, float64(m[4])/sh)
	g.SetElement(0, 2, float64(m[12]))
	g.SetElement(1, 0, float64(m[1])/sw)
	g.SetElement(1, 1, float64(m[5])/sh)
	g.SetElement(1, 2, float64(m[13]))
	return g
}

// Close releases every image the backend created.
func (b *Backend) Close() {
	for t := range b.textures {
		b.UnloadTexture(t)
	}
}

