package demo

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/pkg/sprite"
)

// Frame advances the scene by dt, records it and presents it.
func (s *Scene) Frame(dt float32) error {
	s.Update(dt)
	if err := s.Draw(); err != nil {
		return err
	}
	return s.g.Present()
}

// FrameCounter logs frame rate and batching statistics once per interval.
type FrameCounter struct {
	log      *zap.Logger
	interval time.Duration
	start    time.Time
	frames   int
	dropped  int
	total    int
}

// NewFrameCounter creates a counter starting at now.
func NewFrameCounter(log *zap.Logger, interval time.Duration, now time.Time) *FrameCounter {
	return &FrameCounter{log: log, interval: interval, start: now}
}

// Tick records one presented frame. It reports whether an interval ended,
// in which case the frame rate over that interval is logged and returned.
func (c *FrameCounter) Tick(now time.Time, stats sprite.FrameStats) (fps float64, logged bool) {
	c.frames++
	c.total++
	if stats.Dropped {
		c.dropped++
	}

	elapsed := now.Sub(c.start)
	if elapsed < c.interval {
		return 0, false
	}

	fps = float64(c.frames) / elapsed.Seconds()
	c.log.Debug("frame stats",
		zap.Float64("fps", fps),
		zap.Int("commands", stats.Commands),
		zap.Int("batches", stats.Batches),
		zap.Int("clears", stats.Clears),
		zap.Int("instances", stats.Instances),
		zap.Int("culled", stats.Culled),
		zap.Int("dropped_frames", c.dropped),
	)
	c.frames, c.dropped = 0, 0
	c.start = now
	return fps, true
}

// Total returns the number of frames ticked since creation.
func (c *FrameCounter) Total() int { return c.total }
