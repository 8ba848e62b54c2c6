// Package sprite batches textured quad draws into instanced GPU submissions.
//
// Draw calls are recorded between two calls to Graphics.Present. Consecutive
// draws that share a texture and a target are merged into one DrawBatch
// covering a contiguous run of instances, and Present hands the whole frame
// to a Backend in one call.
package sprite

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/pkg/geom"
)

type frameState int

const (
	stateIdle frameState = iota
	stateRecording
	statePresenting
)

// FrameStats summarizes the last presented frame.
type FrameStats struct {
	Commands  int
	Batches   int
	Clears    int
	Instances int
	Culled    int  // draws dropped because they missed their target
	Dropped   bool // the backend did not present the frame
}

// Graphics records draw calls and presents them through a Backend.
// It is not safe for concurrent use.
type Graphics struct {
	backend  Backend
	viewport geom.Size
	queue    *CommandQueue
	store    *InstanceStore
	state    frameState
	culling  bool
	log      *zap.Logger

	// epoch changes whenever cached target or texture sizes may be stale.
	epoch  uint64
	culled int
	last   FrameStats
}

// New creates a Graphics presenting through backend.
func New(backend Backend, opts ...Option) *Graphics {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	g := &Graphics{
		backend:  backend,
		viewport: backend.Viewport(),
		queue:    NewCommandQueue(s.commandCapacity),
		store:    NewInstanceStore(s.instanceCapacity, s.growth),
		culling:  s.culling,
		log:      s.logger,
	}
	g.log.Debug("graphics created",
		zap.Uint32("width", g.viewport.Width),
		zap.Uint32("height", g.viewport.Height),
		zap.Int("instance_capacity", g.store.Cap()),
		zap.Bool("culling", g.culling),
	)
	return g
}

// Clear records clearing target (or the screen) to color.
func (g *Graphics) Clear(color geom.Color, target Texture) error {
	if g.state == statePresenting {
		return ErrPresenting
	}
	if _, err := g.targetSize("clear", target); err != nil {
		return err
	}
	g.queue.PushClear(Clear{Target: target, Color: color})
	g.state = stateRecording
	return nil
}

// DrawTexture records drawing texture into target (or the screen).
// On error nothing is recorded.
func (g *Graphics) DrawTexture(texture, target Texture, opts DrawOptions) error {
	targetSize, textureSize, err := g.resolve("draw", texture, target)
	if err != nil {
		return err
	}
	g.draw(texture, target, targetSize, textureSize, opts)
	return nil
}

// Batch validates the texture and target pair once and returns a Batch for
// drawing it repeatedly.
func (g *Graphics) Batch(texture, target Texture) (*Batch, error) {
	targetSize, textureSize, err := g.resolve("batch", texture, target)
	if err != nil {
		return nil, err
	}
	return &Batch{
		g:           g,
		texture:     texture,
		target:      target,
		targetSize:  targetSize,
		textureSize: textureSize,
		epoch:       g.epoch,
	}, nil
}

// Present hands the recorded frame to the backend and starts a new one.
// If the backend reports ErrSurfaceUnavailable the viewport is resized
// again, the frame is discarded and Present returns nil. Any other backend
// error is returned; the frame is discarded in both cases.
func (g *Graphics) Present() error {
	if g.state == statePresenting {
		return ErrPresenting
	}
	g.state = statePresenting
	defer g.endFrame()

	stats := g.frameStats()
	err := g.backend.Present(g.queue.Commands(), g.store.Slice())
	if err != nil {
		stats.Dropped = true
		g.last = stats
		if errors.Is(err, ErrSurfaceUnavailable) {
			g.log.Warn("surface unavailable, frame dropped",
				zap.Error(err),
				zap.Int("commands", stats.Commands),
				zap.Int("instances", stats.Instances),
			)
			g.backend.ResizeViewport(g.viewport)
			return nil
		}
		return fmt.Errorf("present frame: %w", err)
	}
	g.last = stats
	return nil
}

func (g *Graphics) endFrame() {
	g.queue.Reset()
	g.store.Reset()
	g.culled = 0
	g.epoch++
	g.state = stateIdle
}

func (g *Graphics) frameStats() FrameStats {
	stats := FrameStats{
		Commands:  g.queue.Len(),
		Instances: g.store.Len(),
		Culled:    g.culled,
	}
	for _, cmd := range g.queue.Commands() {
		switch cmd.(type) {
		case Clear:
			stats.Clears++
		case DrawBatch:
			stats.Batches++
		}
	}
	return stats
}

// ResizeViewport changes the size of the main surface. Commands already
// recorded are not affected. Calls made during Present are ignored.
func (g *Graphics) ResizeViewport(size geom.Size) {
	if g.state == statePresenting {
		g.log.Warn("viewport resize ignored during present",
			zap.Uint32("width", size.Width),
			zap.Uint32("height", size.Height),
		)
		return
	}
	g.viewport = size
	g.epoch++
	g.backend.ResizeViewport(size)
	g.log.Debug("viewport resized",
		zap.Uint32("width", size.Width),
		zap.Uint32("height", size.Height),
	)
}

// Viewport returns the size of the main surface.
func (g *Graphics) Viewport() geom.Size {
	return g.viewport
}

// LoadTexture creates a texture in the backend.
func (g *Graphics) LoadTexture(opts TextureLoadOptions) (Texture, error) {
	if err := opts.Validate(); err != nil {
		return Screen, err
	}
	t, err := g.backend.LoadTexture(opts)
	if err != nil {
		return Screen, fmt.Errorf("loading texture %q: %w", opts.Name, err)
	}
	g.log.Debug("texture loaded",
		zap.Uint32("texture", uint32(t)),
		zap.String("name", opts.Name),
		zap.Uint32("width", opts.Width),
		zap.Uint32("height", opts.Height),
		zap.Stringer("usage", opts.Usage),
	)
	return t, nil
}

// UnloadTexture removes a texture from the backend. It must not be called
// while a recorded command still references the texture. Calls made during
// Present are ignored.
func (g *Graphics) UnloadTexture(t Texture) {
	if g.state == statePresenting {
		g.log.Warn("texture unload ignored during present", zap.Uint32("texture", uint32(t)))
		return
	}
	g.epoch++
	g.backend.UnloadTexture(t)
	g.log.Debug("texture unloaded", zap.Uint32("texture", uint32(t)))
}

// QueryTexture returns what the backend knows about t.
func (g *Graphics) QueryTexture(t Texture) (TextureInfo, bool) {
	return g.backend.QueryTexture(t)
}

// Backend returns the backend Graphics presents through.
func (g *Graphics) Backend() Backend {
	return g.backend
}

// Commands returns the commands recorded for the current frame. The slice
// is only valid until the next call that records or presents.
func (g *Graphics) Commands() []Command {
	return g.queue.Commands()
}

// Instances returns the instances recorded for the current frame.
func (g *Graphics) Instances() []Instance {
	return g.store.Slice()
}

// Stats returns statistics about the last presented frame.
func (g *Graphics) Stats() FrameStats {
	return g.last
}

// targetSize returns the size of target, which must be Screen or an
// existing render target.
func (g *Graphics) targetSize(op string, target Texture) (geom.Size, error) {
	if target == Screen {
		return g.viewport, nil
	}
	info, ok := g.backend.QueryTexture(target)
	if !ok {
		return geom.Size{}, &TextureError{Op: op, Texture: target, Err: ErrTargetNotFound}
	}
	if info.Usage != UsageRenderTarget {
		return geom.Size{}, &TextureError{Op: op, Texture: target, Err: ErrInvalidTarget}
	}
	return info.Size(), nil
}

// resolve validates a draw of texture into target and returns both sizes.
func (g *Graphics) resolve(op string, texture, target Texture) (targetSize, textureSize geom.Size, err error) {
	if g.state == statePresenting {
		return geom.Size{}, geom.Size{}, ErrPresenting
	}
	// Self-targeting is reported before the target's usage is looked at.
	if target != Screen && target == texture {
		return geom.Size{}, geom.Size{}, &TextureError{Op: op, Texture: texture, Err: ErrSelfTarget}
	}
	targetSize, err = g.targetSize(op, target)
	if err != nil {
		return geom.Size{}, geom.Size{}, err
	}
	info, ok := g.backend.QueryTexture(texture)
	if !ok {
		return geom.Size{}, geom.Size{}, &TextureError{Op: op, Texture: texture, Err: ErrTextureNotFound}
	}
	return targetSize, info.Size(), nil
}

// draw records one validated draw.
func (g *Graphics) draw(texture, target Texture, targetSize, textureSize geom.Size, opts DrawOptions) {
	inst, dest := NewInstance(targetSize, textureSize, opts)
	if g.culling && !visible(inst, dest, opts.RotationAngle, targetSize) {
		g.culled++
		return
	}

	grows := g.store.Grows()
	index := g.store.Push(inst)
	if g.store.Grows() != grows {
		g.log.Debug("instance store grown",
			zap.Int("capacity", g.store.Cap()),
			zap.Int("instances", g.store.Len()),
		)
	}
	g.queue.PushDraw(texture, target, index)
	g.state = stateRecording
}

// visible reports whether a quad covers any pixel of its target. Rotated
// quads are tested by the bounds of their transformed corners.
func visible(inst Instance, dest geom.Rect, angle float32, target geom.Size) bool {
	if angle == 0 {
		return geom.Intersects(dest, target.Rect())
	}
	lo, hi := geom.Bounds(inst.Transform)
	return geom.OverlapsBounds(lo, hi, target.Rect())
}
