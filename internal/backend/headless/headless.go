// Package headless provides a sprite.Backend that keeps textures in memory
// and records every presented frame instead of drawing it.
package headless

import (
	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/pkg/geom"
	"github.com/Faultbox/spritebatch/pkg/sprite"
)

// DefaultViewport is the surface size a new backend starts with.
var DefaultViewport = geom.Size{Width: 860, Height: 640}

// Frame is a copy of one presented frame.
type Frame struct {
	Commands  []sprite.Command
	Instances []sprite.Instance
	Viewport  geom.Size
}

// Backend is an in-memory sprite.Backend.
type Backend struct {
	viewport geom.Size
	textures map[sprite.Texture]texture
	ids      sprite.TextureIDs
	log      *zap.Logger

	frames   []Frame
	failNext []error
	resizes  int
	keep     int
}

type texture struct {
	info sprite.TextureInfo
	data []byte
}

// Option configures a Backend.
type Option func(*Backend)

// WithViewport sets the initial surface size.
func WithViewport(size geom.Size) Option {
	return func(b *Backend) { b.viewport = size }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) { b.log = l }
}

// WithFrameLimit keeps only the last n presented frames. Zero keeps all.
func WithFrameLimit(n int) Option {
	return func(b *Backend) { b.keep = n }
}

// New creates a headless backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		viewport: DefaultViewport,
		textures: make(map[sprite.Texture]texture, 100),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadTexture stores the texture description and a copy of its data.
func (b *Backend) LoadTexture(opts sprite.TextureLoadOptions) (sprite.Texture, error) {
	if err := opts.Validate(); err != nil {
		return sprite.Screen, err
	}
	t := b.ids.Next()
	b.textures[t] = texture{
		info: opts.Info(),
		data: append([]byte(nil), opts.Data...),
	}
	return t, nil
}

// UnloadTexture forgets t.
func (b *Backend) UnloadTexture(t sprite.Texture) {
	delete(b.textures, t)
}

// QueryTexture returns the description of t.
func (b *Backend) QueryTexture(t sprite.Texture) (sprite.TextureInfo, bool) {
	tex, ok := b.textures[t]
	return tex.info, ok
}

// TextureData returns the pixel data t was loaded with.
func (b *Backend) TextureData(t sprite.Texture) ([]byte, bool) {
	tex, ok := b.textures[t]
	return tex.data, ok
}

// ResizeViewport sets the surface size.
func (b *Backend) ResizeViewport(size geom.Size) {
	b.viewport = size
	b.resizes++
}

// Viewport returns the surface size.
func (b *Backend) Viewport() geom.Size {
	return b.viewport
}

// Present records a copy of the frame. It fails with the next error queued
// by FailNextPresent, if any.
func (b *Backend) Present(commands []sprite.Command, instances []sprite.Instance) error {
	if len(b.failNext) > 0 {
		err := b.failNext[0]
		b.failNext = b.failNext[1:]
		return err
	}
	if b.viewport.Empty() {
		return sprite.ErrSurfaceUnavailable
	}

	b.frames = append(b.frames, Frame{
		Commands:  append([]sprite.Command(nil), commands...),
		Instances: append([]sprite.Instance(nil), instances...),
		Viewport:  b.viewport,
	})
	if b.keep > 0 && len(b.frames) > b.keep {
		b.frames = append(b.frames[:0], b.frames[len(b.frames)-b.keep:]...)
	}
	b.log.Debug("frame presented",
		zap.Int("commands", len(commands)),
		zap.Int("instances", len(instances)),
	)
	return nil
}

// FailNextPresent makes the next call to Present return err. Calls queue up.
func (b *Backend) FailNextPresent(err error) {
	b.failNext = append(b.failNext, err)
}

// Frames returns the recorded frames, oldest first.
func (b *Backend) Frames() []Frame {
	return b.frames
}

// LastFrame returns the most recently presented frame.
func (b *Backend) LastFrame() (Frame, bool) {
	if len(b.frames) == 0 {
		return Frame{}, false
	}
	return b.frames[len(b.frames)-1], true
}

// Resizes returns how many times ResizeViewport was called.
func (b *Backend) Resizes() int {
	return b.resizes
}
