package atlas

import (
	"sync/atomic"

	"github.com/gogpu/atlas/texture"
)

// SpriteFrame describes one sub-image of a texture atlas: where the
// (possibly trimmed) content sits in the texture, how to undo trimming
// for layout, and optionally a triangulated outline for non-rectangular
// packing.
//
// Geometry is immutable after construction. The texture association is
// the one mutable part: the owning cache may rebind a frame to a fresh
// texture handle during hot-reload, and the binding is stored atomically
// so a renderer reading Texture concurrently observes either the old or
// the new handle, never a torn value.
type SpriteFrame struct {
	name         string
	rect         Rect
	rotated      bool
	offset       Point
	originalSize Size
	polygon      *PolygonInfo

	tex     atomic.Pointer[texture.Texture]
	holders atomic.Int32
}

// NewFrame creates a sprite frame.
//
// rect locates the trimmed content in tex's pixel space. If rotated is
// true the content was packed rotated clockwise and rect's width/height
// are already swapped accordingly; the flag is carried through for the
// renderer and never re-applied here. offset is the displacement from
// the untrimmed sprite's center to the trimmed content's center, and
// originalSize the pre-trim dimensions.
func NewFrame(tex texture.Texture, rect Rect, rotated bool, offset Point, originalSize Size) *SpriteFrame {
	f := &SpriteFrame{
		rect:         rect,
		rotated:      rotated,
		offset:       offset,
		originalSize: originalSize,
	}
	f.setTexture(tex)
	return f
}

// Name returns the registry key the frame was inserted under, or ""
// if the frame has not been added to a cache.
func (f *SpriteFrame) Name() string { return f.name }

// Rect returns the frame's rectangle in texture pixel space.
func (f *SpriteFrame) Rect() Rect { return f.rect }

// Rotated reports whether the content was packed rotated clockwise.
func (f *SpriteFrame) Rotated() bool { return f.rotated }

// Offset returns the displacement between the untrimmed sprite's center
// and the trimmed content's center.
func (f *SpriteFrame) Offset() Point { return f.offset }

// OriginalSize returns the sprite's dimensions before trimming.
func (f *SpriteFrame) OriginalSize() Size { return f.originalSize }

// Polygon returns the frame's trim polygon, or nil for plain
// rectangular frames.
func (f *SpriteFrame) Polygon() *PolygonInfo { return f.polygon }

// Texture returns the texture the frame currently refers to.
// The cache does not own the texture; its lifetime is governed by
// whatever loader produced it.
func (f *SpriteFrame) Texture() texture.Texture {
	if p := f.tex.Load(); p != nil {
		return *p
	}
	return nil
}

// setTexture rebinds the frame to a new texture handle. Geometry is
// untouched, which is exactly what hot-reload wants.
func (f *SpriteFrame) setTexture(tex texture.Texture) {
	f.tex.Store(&tex)
}

// Retain registers an external holder of the frame (a sprite instance,
// in-flight draw state). A frame with at least one external holder is
// never removed by Cache.RemoveUnusedFrames.
func (f *SpriteFrame) Retain() {
	f.holders.Add(1)
}

// Release drops one external holder registered with Retain.
// Releasing more than was retained panics: it would let eviction free a
// frame some other holder still uses.
func (f *SpriteFrame) Release() {
	if f.holders.Add(-1) < 0 {
		panic("atlas: SpriteFrame.Release without matching Retain")
	}
}

// Holders returns the current number of external holders.
// The owning cache's own reference is not counted.
func (f *SpriteFrame) Holders() int {
	return int(f.holders.Load())
}
