// Package demo implements the sprite demo scene and its frame loop.
//
// The scene only talks to sprite.Graphics, so the same scene runs on every
// backend. Runners in cmd/spritedemo drive it from a window or headless.
package demo

import (
	"fmt"
	"image"
	gomath "math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/internal/assets"
	"github.com/Faultbox/spritebatch/pkg/geom"
	"github.com/Faultbox/spritebatch/pkg/sprite"
)

const (
	targetSize  = 256 // side of the render target
	ringTiles   = 8   // tiles orbiting inside the render target
	spriteSide  = 32
	spriteSlack = 48 // how far sprites may drift past the screen edge
)

var (
	screenClear = geom.RGBA(24, 24, 32, 255)
	targetClear = geom.RGBA(48, 32, 64, 255)
)

type mover struct {
	x, y   float32
	vx, vy float32
	angle  float32
	spin   float32
	phase  float32
	cell   int
}

// Scene is a field of bouncing, spinning sprites plus a render target that
// is drawn into every frame and then onto the screen.
type Scene struct {
	g      *sprite.Graphics
	log    *zap.Logger
	sheet  assets.Sheet
	tex    sprite.Texture
	target sprite.Texture
	movers []mover
	rng    *rand.Rand
	time   float32
	paused bool
}

// NewScene uploads the sheet and creates the render target.
func NewScene(g *sprite.Graphics, sheet assets.Sheet, sprites int, seed uint64, log *zap.Logger) (*Scene, error) {
	tex, err := g.LoadTexture(assets.TextureOptions("sheet", sheet.Image, sprite.UsageDefault))
	if err != nil {
		return nil, fmt.Errorf("loading sheet: %w", err)
	}
	target, err := g.LoadTexture(sprite.TextureLoadOptions{
		Name:   "ring",
		Width:  targetSize,
		Height: targetSize,
		Usage:  sprite.UsageRenderTarget,
	})
	if err != nil {
		g.UnloadTexture(tex)
		return nil, fmt.Errorf("creating render target: %w", err)
	}

	s := &Scene{
		g:      g,
		log:    log,
		sheet:  sheet,
		tex:    tex,
		target: target,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	s.Spawn(sprites)
	log.Info("scene ready",
		zap.Int("sprites", sprites),
		zap.Int("cells", sheet.Len()),
	)
	return s, nil
}

// Spawn sets the number of sprites, keeping existing ones where possible.
func (s *Scene) Spawn(n int) {
	if n < len(s.movers) {
		s.movers = s.movers[:n]
		return
	}
	vp := s.g.Viewport()
	for len(s.movers) < n {
		s.movers = append(s.movers, mover{
			x:     s.rng.Float32() * float32(vp.Width),
			y:     s.rng.Float32() * float32(vp.Height),
			vx:    (s.rng.Float32() - 0.5) * 240,
			vy:    (s.rng.Float32() - 0.5) * 240,
			angle: s.rng.Float32() * 2 * gomath.Pi,
			spin:  (s.rng.Float32() - 0.5) * 4,
			phase: s.rng.Float32() * 2 * gomath.Pi,
			cell:  s.rng.IntN(max(s.sheet.Len(), 1)),
		})
	}
}

// Len returns the number of sprites.
func (s *Scene) Len() int { return len(s.movers) }

// TogglePause stops or resumes movement.
func (s *Scene) TogglePause() {
	s.paused = !s.paused
}

// Update advances the scene by dt seconds.
func (s *Scene) Update(dt float32) {
	if s.paused {
		return
	}
	s.time += dt

	vp := s.g.Viewport()
	minX, minY := float32(-spriteSlack), float32(-spriteSlack)
	maxX, maxY := float32(vp.Width)+spriteSlack, float32(vp.Height)+spriteSlack
	for i := range s.movers {
		m := &s.movers[i]
		m.x += m.vx * dt
		m.y += m.vy * dt
		if m.x < minX || m.x > maxX {
			m.vx = -m.vx
			m.x = clamp(m.x, minX, maxX)
		}
		if m.y < minY || m.y > maxY {
			m.vy = -m.vy
			m.y = clamp(m.y, minY, maxY)
		}
		m.angle += m.spin * dt
	}
}

// Draw records one frame. The caller presents it.
func (s *Scene) Draw() error {
	if err := s.drawTarget(); err != nil {
		return err
	}

	if err := s.g.Clear(screenClear, sprite.Screen); err != nil {
		return err
	}
	batch, err := s.g.Batch(s.tex, sprite.Screen)
	if err != nil {
		return err
	}
	for _, m := range s.movers {
		alpha := 0.6 + 0.4*float32(gomath.Sin(float64(s.time*2+m.phase)))
		opts := sprite.DrawOptions{}.
			From(s.cell(m.cell)).
			To(geom.NewRect(int32(m.x)-spriteSide/2, int32(m.y)-spriteSide/2, spriteSide, spriteSide)).
			Rotate(m.angle).
			WithAlpha(alpha)
		if err := batch.Draw(opts); err != nil {
			return err
		}
	}

	vp := s.g.Viewport()
	corner := geom.NewRect(int32(vp.Width)-targetSize-16, 16, targetSize, targetSize)
	return s.g.DrawTexture(s.target, sprite.Screen, sprite.DrawOptions{}.To(corner))
}

// drawTarget redraws the render target: a ring of tiles orbiting its center.
func (s *Scene) drawTarget() error {
	if err := s.g.Clear(targetClear, s.target); err != nil {
		return err
	}
	batch, err := s.g.Batch(s.tex, s.target)
	if err != nil {
		return err
	}

	center := geom.Point{X: targetSize / 2, Y: targetSize / 2}
	const tile, radius = 48, 80
	for i := 0; i < ringTiles; i++ {
		// Each tile sits above the center and is rotated about the center,
		// so the whole ring turns as one.
		opts := sprite.DrawOptions{}.
			From(s.cell(i)).
			To(geom.NewRect(targetSize/2-tile/2, targetSize/2-radius-tile/2, tile, tile)).
			Around(center).
			Rotate(s.time + float32(i)*2*gomath.Pi/ringTiles)
		if err := batch.Draw(opts); err != nil {
			return err
		}
	}
	return nil
}

// cell returns the source rectangle of a sheet cell.
func (s *Scene) cell(i int) geom.Rect {
	r := s.sheet.CellRect(i)
	return rectFrom(r)
}

// Resize follows a change of the drawable size.
func (s *Scene) Resize(size geom.Size) {
	s.g.ResizeViewport(size)
	s.log.Debug("scene resized",
		zap.Uint32("width", size.Width),
		zap.Uint32("height", size.Height),
	)
}

// Close releases the scene's textures.
func (s *Scene) Close() {
	s.g.UnloadTexture(s.target)
	s.g.UnloadTexture(s.tex)
}

func rectFrom(r image.Rectangle) geom.Rect {
	return geom.NewRect(int32(r.Min.X), int32(r.Min.Y), uint32(r.Dx()), uint32(r.Dy()))
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
