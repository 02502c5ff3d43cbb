package resource

import (
	"sort"

	"beatline/chart"
)

// Quad is one textured rectangle queued for the note-render batch (§4.3).
type Quad struct {
	Texture NoteTexture
	Order   int // chart.Kind.Order(), the global tie-break key

	X, Y, Width, Height float64
	Rotation            float64
	Alpha               float64

	// SrcX, SrcY, SrcW, SrcH select a sub-rectangle of Texture. DrawNotes
	// leaves them zero on every quad, hold bodies included: each hold body
	// is one stretched quad, neither tiled nor source-clipped.
	SrcX, SrcY, SrcW, SrcH float64
}

// NoteBatch is the single per-frame batch buffer owned by Resource (§3),
// cleared each frame. Draw order is kept stable by (Order, Texture) so
// kind tie-breaks (Hold < Drag < Click < Flick) hold globally across
// textures, per invariant 5 / §4.3.
type NoteBatch struct {
	quads []Quad
}

// NewNoteBatch returns an empty batch.
func NewNoteBatch() *NoteBatch {
	return &NoteBatch{}
}

// Reset clears the batch for a new frame.
func (b *NoteBatch) Reset() {
	b.quads = b.quads[:0]
}

// Add queues a quad for this frame's draw.
func (b *NoteBatch) Add(q Quad) {
	b.quads = append(b.quads, q)
}

// Sorted returns the batch's quads in draw order: by Order first (the
// kind tie-break), then by Texture (to keep same-texture quads adjacent
// for batching).
func (b *NoteBatch) Sorted() []Quad {
	out := append([]Quad(nil), b.quads...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Texture < out[j].Texture
	})
	return out
}

// OrderFor is a convenience wrapper exposing chart.Kind.Order() to callers
// building Quads from Notes.
func OrderFor(k chart.Kind) int { return k.Order() }
