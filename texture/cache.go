package texture

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// decoders maps a lower-case file extension to its image decoder.
// Dispatch is by extension rather than image.Decode sniffing: importing
// the tga package registers a TGA format with an empty magic prefix
// (TGA has no magic number), which makes image.Decode claim every file
// as TGA and reject PNG and JPEG outright.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".webp": webp.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".tga":  tga.Decode,
}

// Loader resolves a texture file name to a texture handle.
// The atlas cache uses a Loader to derive textures from sheet metadata.
type Loader interface {
	Load(name string) (Texture, error)
}

// Cache is a path-keyed texture cache implementing Loader.
// Load decodes a file at most once; Reload forces a fresh decode so a
// changed file on disk yields a new handle (hot-reload).
//
// Cache is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	fsys     fs.FS
	textures map[string]Texture
}

// NewCache creates a texture cache reading from fsys.
// A nil fsys reads from the process working directory.
func NewCache(fsys fs.FS) *Cache {
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	return &Cache{
		fsys:     fsys,
		textures: make(map[string]Texture),
	}
}

// Load returns the texture for name, decoding the file on first use.
func (c *Cache) Load(name string) (Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tex, ok := c.textures[name]; ok {
		return tex, nil
	}
	tex, err := c.decode(name)
	if err != nil {
		return nil, err
	}
	c.textures[name] = tex
	return tex, nil
}

// Reload decodes name again regardless of any cached handle and
// replaces the cache entry. The returned handle is distinct from any
// previously returned one; frames still bound to the old handle keep
// working until rebound.
func (c *Cache) Reload(name string) (Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tex, err := c.decode(name)
	if err != nil {
		return nil, err
	}
	c.textures[name] = tex
	return tex, nil
}

// Remove drops the cache entry for name. No-op if absent.
func (c *Cache) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.textures, name)
}

// Clear drops every cache entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.textures = make(map[string]Texture)
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}

// decode reads and decodes one image file. Caller must hold c.mu.
func (c *Cache) decode(name string) (Texture, error) {
	f, err := c.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", name, err)
	}
	defer f.Close()

	dec, ok := decoders[strings.ToLower(path.Ext(name))]
	if !ok {
		return nil, fmt.Errorf("texture: decode %s: unsupported image format %q", name, path.Ext(name))
	}
	m, err := dec(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", name, err)
	}
	return NewImage(m), nil
}
