// Package texture provides the texture handles consumed by the atlas
// cache: an opaque resource with queryable pixel dimensions, plus a
// path-keyed loader that decodes image files into handles.
//
// The atlas cache never owns a texture. Handles are borrowed: the
// loader (or whatever external resource manager produced the handle)
// governs its lifetime, and the cache only compares handles by identity
// when removing or rebinding frames.
package texture

import (
	"image"

	"github.com/gogpu/gg"
)

// Texture is an opaque texture handle with queryable pixel dimensions.
//
// Implementations must be comparable (pointer types are), because the
// cache distinguishes textures by interface identity when it removes or
// rebinds frames.
type Texture interface {
	// PixelSize returns the texture dimensions in pixels.
	PixelSize() (width, height int)
}

// Image is a Texture backed by a decoded image.Image.
type Image struct {
	m image.Image
}

// NewImage wraps a decoded image as a texture handle.
// Returns nil if m is nil.
func NewImage(m image.Image) *Image {
	if m == nil {
		return nil
	}
	return &Image{m: m}
}

// PixelSize returns the image dimensions in pixels.
func (t *Image) PixelSize() (width, height int) {
	b := t.m.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image.
func (t *Image) Image() image.Image { return t.m }

// Pixmap is a Texture backed by a gg.Pixmap, for atlases rendered or
// composited on the CPU with gg rather than decoded from a file.
type Pixmap struct {
	pm *gg.Pixmap
}

// NewPixmap wraps a gg pixmap as a texture handle.
// Returns nil if pm is nil.
func NewPixmap(pm *gg.Pixmap) *Pixmap {
	if pm == nil {
		return nil
	}
	return &Pixmap{pm: pm}
}

// PixelSize returns the pixmap dimensions in pixels.
func (t *Pixmap) PixelSize() (width, height int) {
	return t.pm.Width(), t.pm.Height()
}

// Pixmap returns the backing pixmap.
func (t *Pixmap) Pixmap() *gg.Pixmap { return t.pm }
