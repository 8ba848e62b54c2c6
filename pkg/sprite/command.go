package sprite

import "github.com/Faultbox/spritebatch/pkg/geom"

// Command is one recorded operation. The set of commands is closed: a
// Command is always a Clear or a DrawBatch, and backends switch on the type.
type Command interface {
	command()
}

// Clear fills Target with Color.
type Clear struct {
	Target Texture
	Color  geom.Color
}

// DrawBatch draws instances[Range] sampling Texture into Target in a single
// instanced draw. The existing contents of Target are kept.
type DrawBatch struct {
	Texture Texture
	Target  Texture
	Range   InstanceRange
}

func (Clear) command()     {}
func (DrawBatch) command() {}

// InstanceRange is a half-open range [Start, End) of instance indices.
type InstanceRange struct {
	Start, End int
}

// Len returns the number of instances in the range.
func (r InstanceRange) Len() int { return r.End - r.Start }

// CommandQueue is the ordered list of commands recorded for one frame.
type CommandQueue struct {
	commands []Command
}

// NewCommandQueue creates a queue with room for capacity commands.
func NewCommandQueue(capacity int) *CommandQueue {
	return &CommandQueue{commands: make([]Command, 0, max(capacity, 0))}
}

// PushClear appends a clear. Clears are never merged.
func (q *CommandQueue) PushClear(c Clear) {
	q.commands = append(q.commands, c)
}

// PushDraw records that the instance at index is drawn with texture into
// target. When the tail of the queue is a batch for the same pair that ends
// right at index, the batch is extended; otherwise a new batch is appended.
// It reports whether a new batch was started.
func (q *CommandQueue) PushDraw(texture, target Texture, index int) bool {
	if n := len(q.commands); n > 0 {
		if tail, ok := q.commands[n-1].(DrawBatch); ok &&
			tail.Texture == texture && tail.Target == target && tail.Range.End == index {
			tail.Range.End++
			q.commands[n-1] = tail
			return false
		}
	}
	q.commands = append(q.commands, DrawBatch{
		Texture: texture,
		Target:  target,
		Range:   InstanceRange{Start: index, End: index + 1},
	})
	return true
}

// Commands returns the recorded commands in order.
func (q *CommandQueue) Commands() []Command {
	return q.commands
}

// Len returns the number of recorded commands.
func (q *CommandQueue) Len() int { return len(q.commands) }

// Reset drops all commands, keeping the allocation.
func (q *CommandQueue) Reset() {
	clear(q.commands)
	q.commands = q.commands[:0]
}
