package sprite

import (
	"github.com/Faultbox/spritebatch/pkg/geom"
	"github.com/Faultbox/spritebatch/pkg/math"
)

// Instance is the per-quad record consumed by instanced rendering.
// The layout is 21 packed float32 values and is uploaded to the GPU as is.
type Instance struct {
	// Transform maps the unit quad (0,0)-(1,1) into target space.
	Transform math.Mat4
	// SrcRect is the sampled region as [u, v, width, height] fractions of the texture.
	SrcRect [4]float32
	// Alpha multiplies the sampled alpha.
	Alpha float32
}

// fullSource samples the whole texture.
var fullSource = [4]float32{0, 0, 1, 1}

// NewInstance builds the instance for one draw. target is the size of the
// surface being drawn into and texture the size of the sampled texture.
// It also returns the resolved destination rectangle.
func NewInstance(target, texture geom.Size, opts DrawOptions) (Instance, geom.Rect) {
	src := fullSource
	if opts.SrcRect != nil {
		src = geom.Normalize(*opts.SrcRect, texture.Width, texture.Height)
	}

	dest := target.Rect()
	if opts.DestRect != nil {
		dest = *opts.DestRect
	}

	pivot := dest.Center()
	if opts.RotationCenter != nil {
		pivot = *opts.RotationCenter
	}

	alpha := float32(1)
	if opts.Alpha != nil {
		alpha = *opts.Alpha
	}

	return Instance{
		Transform: geom.Transform(dest, pivot, opts.RotationAngle),
		SrcRect:   src,
		Alpha:     alpha,
	}, dest
}

// minGrowth is the smallest capacity a doubling store grows to.
const minGrowth = 64

// GrowthPolicy decides how much an InstanceStore grows when it is full.
type GrowthPolicy struct {
	step int // 0 doubles
}

// DoubleGrowth doubles the capacity on every grow.
func DoubleGrowth() GrowthPolicy {
	return GrowthPolicy{}
}

// FixedGrowth adds step instances on every grow.
func FixedGrowth(step int) GrowthPolicy {
	if step <= 0 {
		return DoubleGrowth()
	}
	return GrowthPolicy{step: step}
}

func (p GrowthPolicy) next(capacity int) int {
	if p.step > 0 {
		return capacity + p.step
	}
	return max(capacity*2, minGrowth)
}

// InstanceStore is an append-only array of instances reused across frames.
// Its logical length is reset every frame while its capacity only grows, so
// indices handed out during a frame stay valid until the next Reset.
type InstanceStore struct {
	items  []Instance
	next   int
	growth GrowthPolicy
	grows  int
}

// NewInstanceStore creates a store with room for capacity instances.
func NewInstanceStore(capacity int, growth GrowthPolicy) *InstanceStore {
	return &InstanceStore{
		items:  make([]Instance, max(capacity, 0)),
		growth: growth,
	}
}

// Push appends an instance and returns its index.
func (s *InstanceStore) Push(inst Instance) int {
	if s.next == len(s.items) {
		s.grow()
	}
	s.items[s.next] = inst
	s.next++
	return s.next - 1
}

// grow reallocates the backing array, copying the live prefix.
func (s *InstanceStore) grow() {
	items := make([]Instance, s.growth.next(len(s.items)))
	copy(items, s.items[:s.next])
	s.items = items
	s.grows++
}

// Reset empties the store without releasing its capacity.
func (s *InstanceStore) Reset() {
	s.next = 0
}

// Slice returns the instances pushed since the last Reset. The returned
// slice has no spare capacity, so appending to it never touches the store.
func (s *InstanceStore) Slice() []Instance {
	return s.items[:s.next:s.next]
}

// Len returns the number of live instances.
func (s *InstanceStore) Len() int { return s.next }

// Cap returns the number of instances that fit before the next grow.
func (s *InstanceStore) Cap() int { return len(s.items) }

// Grows returns how many times the store has reallocated.
func (s *InstanceStore) Grows() int { return s.grows }
