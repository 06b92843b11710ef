package atlas

import (
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path"
	"sync"

	"github.com/gogpu/atlas/texture"
	"github.com/gogpu/atlas/value"
)

// Cache is the sprite-frame cache: it ingests sheet descriptions,
// decodes every entry into a SpriteFrame, and serves frames by logical
// name so draw calls never re-derive geometry.
//
// A Cache is an explicitly constructed object with caller-controlled
// lifetime; pass it to the collaborators that need it. One mutex guards
// the frame registry and the source tracker together and is held for
// the whole of each public operation, so eviction can never race an
// insert of the same name into a torn state.
//
// Ingestion is idempotent per source: loading the same sheet file twice
// is a no-op, and hot-reload goes through ReloadTexture or
// RebindTexture instead of a second load.
type Cache struct {
	mu      sync.Mutex
	frames  map[string]*SpriteFrame
	aliases map[string]string // alias -> canonical frame name

	loaded      map[string]struct{} // ingested source ids
	frameSource map[string]string   // frame name -> source id
	sourceTex   map[string]string   // source id -> texture file it was resolved from

	fsys     fs.FS
	textures texture.Loader
}

// New creates a sprite-frame cache.
//
// Sheet files are read from fsys; nil means the process working
// directory. Textures named by sheet metadata are resolved through
// loader; nil installs a texture.Cache over the same fsys.
func New(fsys fs.FS, loader texture.Loader) *Cache {
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	if loader == nil {
		loader = texture.NewCache(fsys)
	}
	return &Cache{
		frames:      make(map[string]*SpriteFrame),
		aliases:     make(map[string]string),
		loaded:      make(map[string]struct{}),
		frameSource: make(map[string]string),
		sourceTex:   make(map[string]string),
		fsys:        fsys,
		textures:    loader,
	}
}

// AddFrames ingests the sheet file at p. The texture file name is
// derived from the sheet: metadata.textureFileName if present,
// otherwise p with its extension replaced by ".png".
//
// If p was already ingested, AddFrames is a no-op.
func (c *Cache) AddFrames(p string) error {
	return c.addFromFile(p, "", nil)
}

// AddFramesWithTextureFile ingests the sheet file at p, resolving the
// texture from texFile instead of the sheet metadata.
func (c *Cache) AddFramesWithTextureFile(p, texFile string) error {
	return c.addFromFile(p, texFile, nil)
}

// AddFramesWithTexture ingests the sheet file at p, associating every
// frame with the given texture.
func (c *Cache) AddFramesWithTexture(p string, tex texture.Texture) error {
	if tex == nil {
		return fmt.Errorf("%w: nil texture for %s", ErrNoTexture, p)
	}
	return c.addFromFile(p, "", tex)
}

// AddFramesFromData ingests an in-memory sheet description. The source
// identity is a fingerprint of data, so ingesting identical bytes twice
// is a no-op and RemoveFramesFromData(data) removes what this call
// added. A nil tex is resolved from the sheet metadata.
func (c *Cache) AddFramesFromData(data []byte, tex texture.Texture) error {
	source := contentID(data)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.loaded[source]; ok {
		return nil
	}
	root, err := value.Decode(data)
	if err != nil {
		return fmt.Errorf("atlas: parse sheet content: %w", err)
	}
	sheet, ok := root.Dict()
	if !ok {
		return fmt.Errorf("%w: sheet root is %s, want dictionary", ErrMalformedField, root.Kind())
	}
	return c.ingest(sheet, source, "", tex)
}

// AddFrame inserts a single frame under the given name, replacing any
// existing frame with that name. Replacement is the intended behavior
// for re-imports; holders of the replaced frame keep their descriptor
// unchanged, the registry just stops handing it out.
func (c *Cache) AddFrame(frame *SpriteFrame, name string) {
	if frame == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insertLocked(name, frame)
	// A manually inserted frame belongs to no sheet. Dropping any prior
	// attribution keeps source-scoped removal from taking it out.
	delete(c.frameSource, name)
}

// IsLoaded reports whether the source was ingested and not yet removed.
func (c *Cache) IsLoaded(source string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.loaded[source]
	return ok
}

// Frame returns the frame registered under name, resolving aliases.
// Returns nil if the name is unknown; a miss is not an error.
//
// Callers that keep the frame beyond the current call (sprite
// instances, queued draw state) must Retain it, or a later
// RemoveUnusedFrames may evict it.
func (c *Cache) Frame(name string) *SpriteFrame {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.frames[name]; ok {
		return f
	}
	if canonical, ok := c.aliases[name]; ok {
		return c.frames[canonical]
	}
	return nil
}

// Len returns the number of registered frames (aliases not counted).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// RemoveAllFrames purges every frame, alias and source record.
func (c *Cache) RemoveAllFrames() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frames = make(map[string]*SpriteFrame)
	c.aliases = make(map[string]string)
	c.loaded = make(map[string]struct{})
	c.frameSource = make(map[string]string)
	c.sourceTex = make(map[string]string)
}

// RemoveUnusedFrames removes every frame with no external holders.
// A frame with even one Retain outstanding is kept, so in-flight draw
// state never dangles. Source records are kept: the sources stay
// loaded, only their frames are reclaimed.
func (c *Cache) RemoveUnusedFrames() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []string
	for name, f := range c.frames {
		if f.Holders() == 0 {
			removed = append(removed, name)
		}
	}
	for _, name := range removed {
		c.removeLocked(name)
	}
	if len(removed) > 0 {
		Logger().Debug("atlas: removed unused frames", "count", len(removed))
	}
}

// RemoveFrame removes the frame registered under name, resolving
// aliases first. No-op if the name is unknown.
func (c *Cache) RemoveFrame(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	canonical := name
	if resolved, ok := c.aliases[name]; ok {
		canonical = resolved
	}
	c.removeLocked(canonical)
}

// RemoveFramesFromFile removes every frame that was ingested from the
// sheet at p and forgets the source, so a later AddFrames(p) loads it
// again. No-op if p was never ingested.
func (c *Cache) RemoveFramesFromFile(p string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeSourceLocked(p)
}

// RemoveFramesFromData removes every frame added by an earlier
// AddFramesFromData call with identical bytes.
func (c *Cache) RemoveFramesFromData(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeSourceLocked(contentID(data))
}

// RemoveFramesFromTexture removes exactly the frames bound to tex,
// compared by handle identity. Source records are left alone: a source
// whose frames spanned several textures keeps its remaining frames, and
// any now-stale name associations are filtered out when the source
// itself is removed.
func (c *Cache) RemoveFramesFromTexture(tex texture.Texture) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []string
	for name, f := range c.frames {
		if f.Texture() == tex {
			removed = append(removed, name)
		}
	}
	for _, name := range removed {
		c.removeLocked(name)
	}
}

// RebindTexture re-associates every frame ingested from source with
// tex, without re-decoding geometry. Frame identity is preserved:
// external holders of a frame observe only the texture change. Returns
// ErrUnknownSource if source was never ingested.
func (c *Cache) RebindTexture(source string, tex texture.Texture) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebindLocked(source, tex)
}

// ReloadTexture re-resolves the texture file the source was loaded
// with, forcing a fresh decode when the loader supports it, and rebinds
// the source's frames to the new handle. Geometry is untouched.
//
// Returns ErrUnknownSource if source was never ingested, or the
// loader's error if the texture cannot be resolved.
func (c *Cache) ReloadTexture(source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.loaded[source]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
	texFile := c.sourceTex[source]
	if texFile == "" {
		texFile = texturePathFor(source)
	}
	if c.textures == nil {
		return fmt.Errorf("%w: no texture loader", ErrNoTexture)
	}

	var tex texture.Texture
	var err error
	if r, ok := c.textures.(interface {
		Reload(string) (texture.Texture, error)
	}); ok {
		tex, err = r.Reload(texFile)
	} else {
		tex, err = c.textures.Load(texFile)
	}
	if err != nil {
		return fmt.Errorf("atlas: reload texture %s: %w", texFile, err)
	}
	return c.rebindLocked(source, tex)
}

// ---------------------------------------------------------------------------
// Ingestion
// ---------------------------------------------------------------------------

// addFromFile reads, parses and ingests a sheet file. Idempotent per
// path.
func (c *Cache) addFromFile(p, texFile string, tex texture.Texture) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.loaded[p]; ok {
		return nil
	}
	data, err := fs.ReadFile(c.fsys, p)
	if err != nil {
		return fmt.Errorf("atlas: read sheet %s: %w", p, err)
	}
	root, err := value.Decode(data)
	if err != nil {
		return fmt.Errorf("atlas: parse sheet %s: %w", p, err)
	}
	sheet, ok := root.Dict()
	if !ok {
		return fmt.Errorf("%w: sheet %s root is %s, want dictionary",
			ErrMalformedField, p, root.Kind())
	}
	if texFile == "" {
		texFile = sheetTextureFile(sheet, p)
	}
	return c.ingest(sheet, p, texFile, tex)
}

// ingest decodes every entry of a parsed sheet and registers the
// resulting frames. Caller must hold c.mu.
//
// Entry-scoped decode failures are logged and skipped; ingestion of the
// remaining entries proceeds. Failures that leave no entry decodable
// (an unknown format version, a missing frames dictionary, an
// unresolvable texture) abort the whole sheet with an error and no
// source record.
func (c *Cache) ingest(sheet value.Dict, source, texFile string, tex texture.Texture) error {
	md, _ := sheet.Get("metadata").Dict()
	format, err := sheetFormat(md)
	if err != nil {
		return err
	}

	if tex == nil {
		if texFile == "" {
			texFile = sheetTextureFile(sheet, source)
		}
		if c.textures == nil {
			return fmt.Errorf("%w: no texture loader for %s", ErrNoTexture, source)
		}
		tex, err = c.textures.Load(texFile)
		if err != nil {
			return fmt.Errorf("atlas: resolve texture for %s: %w", source, err)
		}
	}

	texW, texH := tex.PixelSize()
	texSize := Size{W: float64(texW), H: float64(texH)}
	if md != nil {
		if declared, ok, _ := sizeField("metadata", md, "size"); ok && declared != texSize {
			Logger().Warn("atlas: sheet metadata size disagrees with texture",
				"source", source,
				"declared", fmt.Sprintf("%gx%g", declared.W, declared.H),
				"texture", fmt.Sprintf("%gx%g", texSize.W, texSize.H))
		}
	}

	frames, ok := sheet.Get("frames").Dict()
	if !ok {
		return fmt.Errorf("%w: sheet %s has no frames dictionary", ErrMalformedField, source)
	}

	inserted, skipped := 0, 0
	for name, entry := range frames {
		g, err := decodeFrame(name, entry, format, texSize)
		if err != nil {
			Logger().Warn("atlas: skipping frame", "source", source, "frame", name, "err", err)
			skipped++
			continue
		}

		f := NewFrame(tex, g.rect, g.rotated, g.offset, g.originalSize)
		if g.hasPolygon() {
			poly, perr := BuildPolygon(g.vertices, g.verticesUV, g.triangles, g.rect.Size(), texSize)
			if perr != nil {
				// Degrade to a plain rectangular frame; the geometry
				// itself already passed validation.
				Logger().Warn("atlas: dropping polygon, keeping rect frame",
					"source", source, "frame", name, "err", perr)
			} else {
				f.polygon = poly
			}
		}

		c.insertLocked(name, f)
		c.frameSource[name] = source
		inserted++

		for _, alias := range g.aliases {
			if _, taken := c.frames[alias]; taken {
				Logger().Warn("atlas: alias collides with frame name, skipped",
					"source", source, "alias", alias)
				continue
			}
			c.aliases[alias] = name
		}
	}

	c.loaded[source] = struct{}{}
	c.sourceTex[source] = texFile
	Logger().Debug("atlas: sheet ingested",
		"source", source, "format", format, "frames", inserted, "skipped", skipped)
	return nil
}

// ---------------------------------------------------------------------------
// Registry internals (caller must hold c.mu)
// ---------------------------------------------------------------------------

// insertLocked registers f under name, replacing any existing frame.
func (c *Cache) insertLocked(name string, f *SpriteFrame) {
	f.name = name
	c.frames[name] = f
}

// removeLocked removes the frame under name with its aliases and
// reverse source mapping. No-op if absent.
func (c *Cache) removeLocked(name string) {
	if _, ok := c.frames[name]; !ok {
		return
	}
	delete(c.frames, name)
	delete(c.frameSource, name)
	for alias, canonical := range c.aliases {
		if canonical == name {
			delete(c.aliases, alias)
		}
	}
}

// removeSourceLocked removes every frame attributed to source and
// forgets the source record.
func (c *Cache) removeSourceLocked(source string) {
	var removed []string
	for name, src := range c.frameSource {
		if src == source {
			removed = append(removed, name)
		}
	}
	for _, name := range removed {
		c.removeLocked(name)
	}
	delete(c.loaded, source)
	delete(c.sourceTex, source)
}

// rebindLocked points every frame attributed to source at tex.
func (c *Cache) rebindLocked(source string, tex texture.Texture) error {
	if _, ok := c.loaded[source]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
	for name, src := range c.frameSource {
		if src != source {
			continue
		}
		if f, ok := c.frames[name]; ok {
			f.setTexture(tex)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// sheetFormat reads metadata.format. A missing metadata dictionary or
// format key means the original flat format 0; versions outside 0..3
// are rejected rather than defaulted.
func sheetFormat(md value.Dict) (int, error) {
	if md == nil {
		return 0, nil
	}
	v := md.Get("format")
	if !v.IsValid() {
		return 0, nil
	}
	f, ok := v.Float()
	if !ok {
		s, sok := v.Str()
		if !sok {
			return 0, fmt.Errorf("%w: metadata format is %s, want number",
				ErrMalformedField, v.Kind())
		}
		parsed, err := parseFloats(s, 1)
		if err != nil {
			return 0, fmt.Errorf("%w: metadata format %q", ErrMalformedField, s)
		}
		f = parsed[0]
	}
	format := int(f)
	if float64(format) != f {
		return 0, fmt.Errorf("%w: metadata format %v is not an integer", ErrMalformedField, f)
	}
	if format < 0 || format > 3 {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	return format, nil
}

// sheetTextureFile derives the texture file for a sheet: the metadata
// textureFileName when present, otherwise the sheet path with its
// extension replaced by ".png".
func sheetTextureFile(sheet value.Dict, sheetPath string) string {
	if md, ok := sheet.Get("metadata").Dict(); ok {
		if name, ok := md.Get("textureFileName").Str(); ok && name != "" {
			return name
		}
	}
	return texturePathFor(sheetPath)
}

// texturePathFor swaps a sheet path's extension for ".png".
func texturePathFor(sheetPath string) string {
	ext := path.Ext(sheetPath)
	return sheetPath[:len(sheetPath)-len(ext)] + ".png"
}

// contentID fingerprints in-memory sheet content so it can be tracked
// like a file path. FNV-1a, same as the key hashing in sharded caches.
func contentID(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data) // fnv.Write never returns an error
	return fmt.Sprintf("content:%016x", h.Sum64())
}
