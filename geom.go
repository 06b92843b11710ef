package atlas

import (
	"fmt"
	"strconv"
	"strings"
)

// Point represents a 2D point or vector in texture pixel space.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Size represents 2D pixel dimensions.
type Size struct {
	W, H float64
}

// Sz is a convenience function to create a Size.
func Sz(w, h float64) Size {
	return Size{W: w, H: h}
}

// Rect represents an axis-aligned rectangle as origin plus size, the
// convention used by sheet descriptions ("{{x,y},{w,h}}").
type Rect struct {
	X, Y, W, H float64
}

// Rc is a convenience function to create a Rect.
func Rc(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// In reports whether r lies entirely within a texture of the given
// pixel size.
func (r Rect) In(tex Size) bool {
	return r.X >= 0 && r.Y >= 0 && r.W >= 0 && r.H >= 0 &&
		r.X+r.W <= tex.W && r.Y+r.H <= tex.H
}

// parseFloats parses the brace-and-comma encoding used by legacy sheet
// formats ("{{132,210},{32,32}}", "{0.5,-2}") into exactly want numbers.
func parseFloats(s string, want int) ([]float64, error) {
	clean := strings.NewReplacer("{", "", "}", "", " ", "", "\t", "").Replace(s)
	parts := strings.Split(clean, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("%q: want %d numbers, have %d", s, want, len(parts))
	}
	out := make([]float64, want)
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: bad number %q", s, p)
		}
		out[i] = f
	}
	return out, nil
}

// parseRect parses the legacy "{{x,y},{w,h}}" rectangle encoding.
func parseRect(s string) (Rect, error) {
	f, err := parseFloats(s, 4)
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: f[0], Y: f[1], W: f[2], H: f[3]}, nil
}

// parsePoint parses the legacy "{x,y}" point encoding.
func parsePoint(s string) (Point, error) {
	f, err := parseFloats(s, 2)
	if err != nil {
		return Point{}, err
	}
	return Point{X: f[0], Y: f[1]}, nil
}

// parseSize parses the legacy "{w,h}" size encoding.
func parseSize(s string) (Size, error) {
	f, err := parseFloats(s, 2)
	if err != nil {
		return Size{}, err
	}
	return Size{W: f[0], H: f[1]}, nil
}

// parseIntList parses a whitespace-separated integer list, the encoding
// of polygon vertex and index data in format 3 sheets.
func parseIntList(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q: bad integer %q", s, f)
		}
		out[i] = n
	}
	return out, nil
}
