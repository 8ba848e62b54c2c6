package sprite

import "github.com/Faultbox/spritebatch/pkg/geom"

// Batch draws one texture into one target without validating the pair on
// every call. Draws go through the same merging as Graphics.DrawTexture, so
// a Batch may be interleaved freely with other calls.
//
// The validated sizes are cached until the next Present, ResizeViewport or
// UnloadTexture, after which the next Draw validates the pair again.
type Batch struct {
	g           *Graphics
	texture     Texture
	target      Texture
	targetSize  geom.Size
	textureSize geom.Size
	epoch       uint64
}

// Texture returns the texture sampled by the batch.
func (b *Batch) Texture() Texture { return b.texture }

// Target returns the texture drawn into, or Screen.
func (b *Batch) Target() Texture { return b.target }

// Draw records one quad.
func (b *Batch) Draw(opts DrawOptions) error {
	if b.g.state == statePresenting {
		return ErrPresenting
	}
	if b.epoch != b.g.epoch {
		targetSize, textureSize, err := b.g.resolve("batch draw", b.texture, b.target)
		if err != nil {
			return err
		}
		b.targetSize, b.textureSize, b.epoch = targetSize, textureSize, b.g.epoch
	}
	b.g.draw(b.texture, b.target, b.targetSize, b.textureSize, opts)
	return nil
}
