package sprite

import (
	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/pkg/geom"
)

// DrawOptions controls how a texture is drawn. Nil fields take their
// defaults: the whole source texture, the whole destination surface, the
// destination's center as pivot and full opacity.
type DrawOptions struct {
	SrcRect        *geom.Rect
	DestRect       *geom.Rect
	RotationCenter *geom.Point
	RotationAngle  float32 // radians, counter-clockwise
	Alpha          *float32
}

// From returns a copy of o sampling src.
func (o DrawOptions) From(src geom.Rect) DrawOptions {
	o.SrcRect = &src
	return o
}

// To returns a copy of o drawing into dest.
func (o DrawOptions) To(dest geom.Rect) DrawOptions {
	o.DestRect = &dest
	return o
}

// Around returns a copy of o rotating about pivot.
func (o DrawOptions) Around(pivot geom.Point) DrawOptions {
	o.RotationCenter = &pivot
	return o
}

// Rotate returns a copy of o rotated by angle radians.
func (o DrawOptions) Rotate(angle float32) DrawOptions {
	o.RotationAngle = angle
	return o
}

// WithAlpha returns a copy of o drawn with the given opacity.
func (o DrawOptions) WithAlpha(alpha float32) DrawOptions {
	o.Alpha = &alpha
	return o
}

// Default capacities, matching a typical frame of a small 2D game.
const (
	DefaultInstanceCapacity = 10000
	DefaultCommandCapacity  = 1000
)

type settings struct {
	logger           *zap.Logger
	instanceCapacity int
	commandCapacity  int
	growth           GrowthPolicy
	culling          bool
}

func defaultSettings() settings {
	return settings{
		logger:           zap.NewNop(),
		instanceCapacity: DefaultInstanceCapacity,
		commandCapacity:  DefaultCommandCapacity,
		growth:           DoubleGrowth(),
		culling:          true,
	}
}

// Option configures Graphics.
type Option func(*settings)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithInstanceCapacity sets the initial instance store capacity.
func WithInstanceCapacity(n int) Option {
	return func(s *settings) { s.instanceCapacity = n }
}

// WithCommandCapacity sets the initial command queue capacity.
func WithCommandCapacity(n int) Option {
	return func(s *settings) { s.commandCapacity = n }
}

// WithGrowth sets how the instance store grows.
func WithGrowth(p GrowthPolicy) Option {
	return func(s *settings) { s.growth = p }
}

// WithCulling enables or disables dropping draws that miss their target.
func WithCulling(enabled bool) Option {
	return func(s *settings) { s.culling = enabled }
}
