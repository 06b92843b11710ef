package atlas

import "fmt"

// Vertex is one polygon vertex: a position in sprite-local pixel space
// and a texture coordinate normalized to [0,1].
type Vertex struct {
	Pos Point
	UV  Point
}

// PolygonInfo is a triangulated, non-rectangular sprite outline.
// Indices reference Vertices in triples; the renderer can hand both
// slices to a triangle pipeline without further scaling.
type PolygonInfo struct {
	Vertices []Vertex
	Indices  []uint16
}

// VertexCount returns the number of vertices in the mesh.
func (p *PolygonInfo) VertexCount() int { return len(p.Vertices) }

// TriangleCount returns the number of triangles in the mesh.
func (p *PolygonInfo) TriangleCount() int { return len(p.Indices) / 3 }

// BuildPolygon assembles a trim polygon from the flat integer lists of a
// format 3 sheet entry.
//
// vertices holds sprite-space coordinates consumed in (x, y) pairs,
// verticesUV texture-space coordinates consumed the same way, and
// indices triangle corners consumed in triples, each referencing one
// vertex/UV pair. spriteSize is the untrimmed sprite size and texSize
// the texture's pixel size.
//
// Positions are emitted in sprite-local pixels with the y axis flipped
// to point up (sheet coordinates grow downward, renderers expect
// bottom-left origin); UVs are normalized by texSize.
//
// Any structural violation (odd vertex lists, mismatched vertex/UV
// counts, an index list that is not a multiple of three, an index
// referencing a nonexistent pair) fails with ErrPolygonIndex.
func BuildPolygon(vertices, verticesUV, indices []int, spriteSize, texSize Size) (*PolygonInfo, error) {
	if spriteSize.W <= 0 || spriteSize.H <= 0 || texSize.W <= 0 || texSize.H <= 0 {
		return nil, fmt.Errorf("%w: non-positive sprite or texture size", ErrMalformedField)
	}
	if len(vertices)%2 != 0 {
		return nil, fmt.Errorf("%w: odd vertex list length %d", ErrPolygonIndex, len(vertices))
	}
	if len(verticesUV) != len(vertices) {
		return nil, fmt.Errorf("%w: %d vertex coordinates but %d UV coordinates",
			ErrPolygonIndex, len(vertices), len(verticesUV))
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: index list length %d not a multiple of three",
			ErrPolygonIndex, len(indices))
	}

	pairs := len(vertices) / 2
	verts := make([]Vertex, pairs)
	for i := 0; i < pairs; i++ {
		x := float64(vertices[i*2])
		y := float64(vertices[i*2+1])
		u := float64(verticesUV[i*2])
		v := float64(verticesUV[i*2+1])
		verts[i] = Vertex{
			Pos: Point{X: x, Y: spriteSize.H - y},
			UV:  Point{X: u / texSize.W, Y: v / texSize.H},
		}
	}

	idx := make([]uint16, len(indices))
	for i, n := range indices {
		if n < 0 || n >= pairs {
			return nil, fmt.Errorf("%w: index %d with %d vertex pairs",
				ErrPolygonIndex, n, pairs)
		}
		idx[i] = uint16(n)
	}

	return &PolygonInfo{Vertices: verts, Indices: idx}, nil
}
