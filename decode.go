package atlas

import (
	"fmt"
	"math"

	"github.com/gogpu/atlas/value"
)

// frameGeometry is the canonical record every format decoder converges
// on. Polygon data stays raw here; the cache runs BuildPolygon on it
// after the geometry is accepted, so a bad polygon can still degrade to
// a plain rectangular frame.
type frameGeometry struct {
	rect         Rect
	rotated      bool
	offset       Point
	originalSize Size
	aliases      []string

	// Raw polygon lists, format 3 only. Empty means rectangular.
	vertices   []int
	verticesUV []int
	triangles  []int
}

// hasPolygon reports whether the entry carried polygon outline data.
func (g *frameGeometry) hasPolygon() bool {
	return len(g.vertices) > 0 && len(g.triangles) > 0
}

// decodeFrame decodes one sheet entry under the given format version
// into the canonical geometry record.
//
// Format versions 0 through 3 exist in the wild and disagree on field
// names and encodings: format 0 uses flat numeric fields, formats 1 and
// 2 brace-encoded rect strings (2 adds the rotation flag), and format 3
// renamed the fields, added aliases and polygon outlines, and also
// accepts per-field dictionaries as produced by newer packers. Any other
// version fails with ErrUnsupportedFormat.
//
// The rotation flag is carried through untouched: a rotated entry's
// stored rect already has width and height swapped, and only the
// renderer interprets the flag.
func decodeFrame(name string, entry value.Value, format int, texSize Size) (frameGeometry, error) {
	d, ok := entry.Dict()
	if !ok {
		return frameGeometry{}, decodeErr(name, "", ErrMalformedField,
			fmt.Errorf("entry is %s, want dictionary", entry.Kind()))
	}

	var g frameGeometry
	var err error
	switch format {
	case 0:
		g, err = decodeFrameV0(name, d)
	case 1, 2:
		g, err = decodeFrameV1(name, d, format == 2)
	case 3:
		g, err = decodeFrameV3(name, d)
	default:
		return frameGeometry{}, fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return frameGeometry{}, err
	}

	// A rotated entry occupies a width/height-swapped area of the
	// texture; bounds are checked against what is actually occupied.
	occupied := g.rect
	if g.rotated {
		occupied.W, occupied.H = occupied.H, occupied.W
	}
	if !occupied.In(texSize) {
		return frameGeometry{}, decodeErr(name, "", ErrRectOutOfBounds,
			fmt.Errorf("rect %+v, texture %gx%g", g.rect, texSize.W, texSize.H))
	}
	return g, nil
}

// decodeFrameV0 decodes the original flat-field encoding:
// x/y/width/height plus offsetX/offsetY and originalWidth/originalHeight.
// Original dimensions may be stored negative (an old packer quirk) and
// may be absent or zero, in which case the frame size is used.
func decodeFrameV0(name string, d value.Dict) (frameGeometry, error) {
	var g frameGeometry
	x, err := numField(name, d, "x", true, 0)
	if err != nil {
		return g, err
	}
	y, err := numField(name, d, "y", true, 0)
	if err != nil {
		return g, err
	}
	w, err := numField(name, d, "width", true, 0)
	if err != nil {
		return g, err
	}
	h, err := numField(name, d, "height", true, 0)
	if err != nil {
		return g, err
	}
	ox, err := numField(name, d, "offsetX", false, 0)
	if err != nil {
		return g, err
	}
	oy, err := numField(name, d, "offsetY", false, 0)
	if err != nil {
		return g, err
	}
	ow, err := numField(name, d, "originalWidth", false, w)
	if err != nil {
		return g, err
	}
	oh, err := numField(name, d, "originalHeight", false, h)
	if err != nil {
		return g, err
	}
	ow = math.Abs(ow)
	oh = math.Abs(oh)
	if ow == 0 {
		ow = w
	}
	if oh == 0 {
		oh = h
	}

	g.rect = Rect{X: x, Y: y, W: w, H: h}
	g.offset = Point{X: ox, Y: oy}
	g.originalSize = Size{W: ow, H: oh}
	return g, nil
}

// decodeFrameV1 decodes formats 1 and 2: brace-encoded strings under
// "frame", "offset" and "sourceSize". Format 2 added "rotated".
func decodeFrameV1(name string, d value.Dict, hasRotation bool) (frameGeometry, error) {
	var g frameGeometry
	rect, ok, err := rectField(name, d, "frame")
	if err != nil {
		return g, err
	}
	if !ok {
		return g, decodeErr(name, "frame", ErrMalformedField, fmt.Errorf("missing"))
	}
	g.rect = rect

	if g.offset, _, err = pointField(name, d, "offset"); err != nil {
		return g, err
	}
	src, ok, err := sizeField(name, d, "sourceSize")
	if err != nil {
		return g, err
	}
	if !ok {
		src = rect.Size()
	}
	g.originalSize = src

	if hasRotation {
		if g.rotated, err = boolField(name, d, "rotated"); err != nil {
			return g, err
		}
	}
	return g, nil
}

// decodeFrameV3 decodes format 3: renamed fields, aliases, and optional
// polygon outlines. Rect/point/size fields accept both the legacy brace
// strings and per-field dictionaries.
func decodeFrameV3(name string, d value.Dict) (frameGeometry, error) {
	var g frameGeometry
	texRect, ok, err := rectField(name, d, "textureRect")
	if err != nil {
		return g, err
	}
	if !ok {
		return g, decodeErr(name, "textureRect", ErrMalformedField, fmt.Errorf("missing"))
	}

	spriteSize, ok, err := sizeField(name, d, "spriteSize")
	if err != nil {
		return g, err
	}
	if !ok {
		spriteSize = texRect.Size()
	}
	// The stored rect combines the texture position with the sprite
	// size; packers that trim rewrite spriteSize, textureRect.Size()
	// is not authoritative in format 3.
	g.rect = Rect{X: texRect.X, Y: texRect.Y, W: spriteSize.W, H: spriteSize.H}

	if g.offset, _, err = pointField(name, d, "spriteOffset"); err != nil {
		return g, err
	}
	srcSize, ok, err := sizeField(name, d, "spriteSourceSize")
	if err != nil {
		return g, err
	}
	if !ok {
		srcSize = spriteSize
	}
	g.originalSize = srcSize

	if g.rotated, err = boolField(name, d, "textureRotated"); err != nil {
		return g, err
	}

	if aliases, ok := d.Get("aliases").Array(); ok {
		for _, a := range aliases {
			if s, ok := a.Str(); ok {
				g.aliases = append(g.aliases, s)
			}
		}
	}

	if g.vertices, err = intListField(name, d, "vertices"); err != nil {
		return g, err
	}
	if g.verticesUV, err = intListField(name, d, "verticesUV"); err != nil {
		return g, err
	}
	if g.triangles, err = intListField(name, d, "triangles"); err != nil {
		return g, err
	}
	return g, nil
}

// ---------------------------------------------------------------------------
// Typed field accessors
// ---------------------------------------------------------------------------

// numField reads a numeric field. Numbers stored as strings (old plists
// do this) are parsed; anything else is a malformed field. A missing
// optional field yields def.
func numField(frame string, d value.Dict, key string, required bool, def float64) (float64, error) {
	v := d.Get(key)
	if !v.IsValid() {
		if required {
			return 0, decodeErr(frame, key, ErrMalformedField, fmt.Errorf("missing"))
		}
		return def, nil
	}
	if f, ok := v.Float(); ok {
		return f, nil
	}
	if s, ok := v.Str(); ok {
		f, err := parseFloats(s, 1)
		if err != nil {
			return 0, decodeErr(frame, key, ErrMalformedField, err)
		}
		return f[0], nil
	}
	return 0, decodeErr(frame, key, ErrMalformedField,
		fmt.Errorf("is %s, want number", v.Kind()))
}

// boolField reads an optional boolean field; absent means false.
func boolField(frame string, d value.Dict, key string) (bool, error) {
	v := d.Get(key)
	if !v.IsValid() {
		return false, nil
	}
	b, ok := v.Bool()
	if !ok {
		return false, decodeErr(frame, key, ErrMalformedField,
			fmt.Errorf("is %s, want bool", v.Kind()))
	}
	return b, nil
}

// rectField reads a rectangle stored either as a legacy "{{x,y},{w,h}}"
// string or as a {x,y,w,h} dictionary. ok is false when absent.
func rectField(frame string, d value.Dict, key string) (Rect, bool, error) {
	v := d.Get(key)
	if !v.IsValid() {
		return Rect{}, false, nil
	}
	if s, ok := v.Str(); ok {
		r, err := parseRect(s)
		if err != nil {
			return Rect{}, false, decodeErr(frame, key, ErrMalformedField, err)
		}
		return r, true, nil
	}
	if sub, ok := v.Dict(); ok {
		x, err := numField(frame, sub, "x", true, 0)
		if err != nil {
			return Rect{}, false, err
		}
		y, err := numField(frame, sub, "y", true, 0)
		if err != nil {
			return Rect{}, false, err
		}
		w, err := numField(frame, sub, "w", true, 0)
		if err != nil {
			return Rect{}, false, err
		}
		h, err := numField(frame, sub, "h", true, 0)
		if err != nil {
			return Rect{}, false, err
		}
		return Rect{X: x, Y: y, W: w, H: h}, true, nil
	}
	return Rect{}, false, decodeErr(frame, key, ErrMalformedField,
		fmt.Errorf("is %s, want rect string or dictionary", v.Kind()))
}

// pointField reads a point stored as a "{x,y}" string or {x,y}
// dictionary. Absent means the zero point.
func pointField(frame string, d value.Dict, key string) (Point, bool, error) {
	v := d.Get(key)
	if !v.IsValid() {
		return Point{}, false, nil
	}
	if s, ok := v.Str(); ok {
		p, err := parsePoint(s)
		if err != nil {
			return Point{}, false, decodeErr(frame, key, ErrMalformedField, err)
		}
		return p, true, nil
	}
	if sub, ok := v.Dict(); ok {
		x, err := numField(frame, sub, "x", true, 0)
		if err != nil {
			return Point{}, false, err
		}
		y, err := numField(frame, sub, "y", true, 0)
		if err != nil {
			return Point{}, false, err
		}
		return Point{X: x, Y: y}, true, nil
	}
	return Point{}, false, decodeErr(frame, key, ErrMalformedField,
		fmt.Errorf("is %s, want point string or dictionary", v.Kind()))
}

// sizeField reads a size stored as a "{w,h}" string or {w,h}
// dictionary. ok is false when absent.
func sizeField(frame string, d value.Dict, key string) (Size, bool, error) {
	v := d.Get(key)
	if !v.IsValid() {
		return Size{}, false, nil
	}
	if s, ok := v.Str(); ok {
		sz, err := parseSize(s)
		if err != nil {
			return Size{}, false, decodeErr(frame, key, ErrMalformedField, err)
		}
		return sz, true, nil
	}
	if sub, ok := v.Dict(); ok {
		w, err := numField(frame, sub, "w", true, 0)
		if err != nil {
			return Size{}, false, err
		}
		h, err := numField(frame, sub, "h", true, 0)
		if err != nil {
			return Size{}, false, err
		}
		return Size{W: w, H: h}, true, nil
	}
	return Size{}, false, decodeErr(frame, key, ErrMalformedField,
		fmt.Errorf("is %s, want size string or dictionary", v.Kind()))
}

// intListField reads polygon data stored as a whitespace-separated
// integer string or an array of numbers. Absent means nil.
func intListField(frame string, d value.Dict, key string) ([]int, error) {
	v := d.Get(key)
	if !v.IsValid() {
		return nil, nil
	}
	if s, ok := v.Str(); ok {
		list, err := parseIntList(s)
		if err != nil {
			return nil, decodeErr(frame, key, ErrMalformedField, err)
		}
		return list, nil
	}
	if a, ok := v.Array(); ok {
		list := make([]int, len(a))
		for i, e := range a {
			n, ok := e.Int()
			if !ok {
				return nil, decodeErr(frame, key, ErrMalformedField,
					fmt.Errorf("element %d is %s, want number", i, e.Kind()))
			}
			list[i] = n
		}
		return list, nil
	}
	return nil, decodeErr(frame, key, ErrMalformedField,
		fmt.Errorf("is %s, want integer string or array", v.Kind()))
}
