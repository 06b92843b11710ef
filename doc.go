// Package atlas caches sprite-frame metadata for packed texture
// atlases.
//
// # Overview
//
// A sprite sheet ships two artifacts: a packed texture and a sheet
// description mapping logical sprite names to sub-rectangles, trim
// offsets, rotation flags, and optionally polygon trim outlines. atlas
// ingests the description once, decodes every entry into a
// [SpriteFrame], and serves frames by name so the render pipeline
// references geometry instead of re-deriving it per draw call.
//
// Four historical description formats (versions 0 through 3) are
// decoded, in plist, JSON or YAML encoding. Entries that fail to decode
// are skipped with a warning; the rest of the sheet still loads.
//
// # Quick Start
//
//	import "github.com/gogpu/atlas"
//
//	cache := atlas.New(os.DirFS("assets"), nil)
//	if err := cache.AddFrames("characters.plist"); err != nil {
//	    log.Fatal(err)
//	}
//
//	frame := cache.Frame("hero_idle_01")
//	frame.Retain() // keep it across RemoveUnusedFrames
//	// draw using frame.Texture(), frame.Rect(), frame.Rotated(), ...
//	frame.Release()
//
// # Lifetime
//
// The cache owns its registry and nothing else: textures are borrowed
// from the texture loader, and frames handed out to callers stay valid
// as long as someone retains them. RemoveUnusedFrames reclaims exactly
// the frames with no outstanding Retain. Per-source removal
// (RemoveFramesFromFile) and texture hot-reload (ReloadTexture,
// RebindTexture) are supported without disturbing other sheets.
//
// Sub-packages:
//   - value: the generic parsed description tree and its decoders
//   - texture: texture handles and a path-keyed texture loader
package atlas
