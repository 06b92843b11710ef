package texture

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/ftrvxmtrx/tga"
	"github.com/gogpu/gg"
)

// pngBytes encodes a blank RGBA image of the given size.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestFS(t *testing.T) fstest.MapFS {
	t.Helper()
	return fstest.MapFS{
		"atlas.png": &fstest.MapFile{Data: pngBytes(t, 64, 32)},
	}
}

func TestCacheLoad(t *testing.T) {
	c := NewCache(newTestFS(t))

	tex, err := c.Load("atlas.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, h := tex.PixelSize()
	if w != 64 || h != 32 {
		t.Errorf("PixelSize = %dx%d, want 64x32", w, h)
	}

	again, err := c.Load("atlas.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if again != tex {
		t.Error("second Load should return the cached handle")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

// Load must keep decoding PNG and JPEG even though the linked tga
// package registers an empty-magic format that would win every
// image.Decode sniff.
func TestCacheLoadTGA(t *testing.T) {
	var buf bytes.Buffer
	if err := tga.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 6))); err != nil {
		t.Fatalf("encode tga: %v", err)
	}
	fsys := fstest.MapFS{
		"sprites.tga": &fstest.MapFile{Data: buf.Bytes()},
		"atlas.png":   &fstest.MapFile{Data: pngBytes(t, 64, 32)},
	}
	c := NewCache(fsys)

	tex, err := c.Load("sprites.tga")
	if err != nil {
		t.Fatalf("Load tga: %v", err)
	}
	if w, h := tex.PixelSize(); w != 10 || h != 6 {
		t.Errorf("PixelSize = %dx%d, want 10x6", w, h)
	}

	tex, err = c.Load("atlas.png")
	if err != nil {
		t.Fatalf("Load png alongside tga: %v", err)
	}
	if w, h := tex.PixelSize(); w != 64 || h != 32 {
		t.Errorf("PixelSize = %dx%d, want 64x32", w, h)
	}
}

func TestCacheLoadUnknownExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"atlas.dat": &fstest.MapFile{Data: pngBytes(t, 8, 8)},
	}
	c := NewCache(fsys)
	if _, err := c.Load("atlas.dat"); err == nil {
		t.Error("Load with an unknown extension should fail")
	}
}

func TestCacheLoadMissing(t *testing.T) {
	c := NewCache(newTestFS(t))
	if _, err := c.Load("nope.png"); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestCacheLoadUndecodable(t *testing.T) {
	fsys := fstest.MapFS{
		"garbage.png": &fstest.MapFile{Data: []byte("not an image")},
	}
	c := NewCache(fsys)
	if _, err := c.Load("garbage.png"); err == nil {
		t.Error("Load of undecodable bytes should fail")
	}
}

func TestCacheReload(t *testing.T) {
	c := NewCache(newTestFS(t))

	old, err := c.Load("atlas.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	fresh, err := c.Reload("atlas.png")
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if fresh == old {
		t.Error("Reload must return a distinct handle")
	}
	now, err := c.Load("atlas.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if now != fresh {
		t.Error("Load after Reload should return the fresh handle")
	}
}

func TestCacheRemoveAndClear(t *testing.T) {
	c := NewCache(newTestFS(t))
	if _, err := c.Load("atlas.png"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	c.Remove("atlas.png")
	if c.Len() != 0 {
		t.Errorf("Len = %d after Remove, want 0", c.Len())
	}
	c.Remove("atlas.png") // absent, silent no-op

	if _, err := c.Load("atlas.png"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", c.Len())
	}
}

func TestImageTexture(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 16, 8))
	tex := NewImage(m)
	w, h := tex.PixelSize()
	if w != 16 || h != 8 {
		t.Errorf("PixelSize = %dx%d, want 16x8", w, h)
	}
	if tex.Image() != m {
		t.Error("Image should return the backing image")
	}
	if NewImage(nil) != nil {
		t.Error("NewImage(nil) should be nil")
	}
}

func TestPixmapTexture(t *testing.T) {
	pm := gg.NewPixmap(24, 12)
	tex := NewPixmap(pm)
	w, h := tex.PixelSize()
	if w != 24 || h != 12 {
		t.Errorf("PixelSize = %dx%d, want 24x12", w, h)
	}
	if tex.Pixmap() != pm {
		t.Error("Pixmap should return the backing pixmap")
	}
	if NewPixmap(nil) != nil {
		t.Error("NewPixmap(nil) should be nil")
	}
}
