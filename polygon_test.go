package atlas

import (
	"errors"
	"testing"
)

func TestBuildPolygonTriangle(t *testing.T) {
	vertices := []int{0, 0, 10, 0, 0, 10}
	uv := []int{0, 0, 10, 0, 0, 10}
	indices := []int{0, 1, 2}

	poly, err := BuildPolygon(vertices, uv, indices, Sz(10, 10), Sz(10, 10))
	if err != nil {
		t.Fatalf("BuildPolygon: %v", err)
	}
	if poly.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", poly.TriangleCount())
	}
	if poly.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", poly.VertexCount())
	}
	seen := map[uint16]bool{}
	for _, i := range poly.Indices {
		seen[i] = true
	}
	for i := uint16(0); i < 3; i++ {
		if !seen[i] {
			t.Errorf("triangle does not reference vertex %d", i)
		}
	}

	// Positions are sprite-local with y flipped up; UVs normalized.
	if got := poly.Vertices[0].Pos; got != Pt(0, 10) {
		t.Errorf("vertex 0 pos = %+v, want {0 10}", got)
	}
	if got := poly.Vertices[1].UV; got != Pt(1, 0) {
		t.Errorf("vertex 1 uv = %+v, want {1 0}", got)
	}
	if got := poly.Vertices[2].UV; got != Pt(0, 1) {
		t.Errorf("vertex 2 uv = %+v, want {0 1}", got)
	}
}

func TestBuildPolygonIndexOutOfRange(t *testing.T) {
	vertices := []int{0, 0, 10, 0, 0, 10}
	uv := []int{0, 0, 10, 0, 0, 10}

	_, err := BuildPolygon(vertices, uv, []int{0, 1, 3}, Sz(10, 10), Sz(10, 10))
	if !errors.Is(err, ErrPolygonIndex) {
		t.Errorf("index 3 with 3 pairs: err = %v, want ErrPolygonIndex", err)
	}
	_, err = BuildPolygon(vertices, uv, []int{0, 1, -1}, Sz(10, 10), Sz(10, 10))
	if !errors.Is(err, ErrPolygonIndex) {
		t.Errorf("negative index: err = %v, want ErrPolygonIndex", err)
	}
}

func TestBuildPolygonStructure(t *testing.T) {
	ok := []int{0, 0, 10, 0, 0, 10}
	tests := []struct {
		name     string
		vertices []int
		uv       []int
		indices  []int
	}{
		{"odd vertex list", []int{0, 0, 10}, ok, []int{0, 1, 2}},
		{"uv count mismatch", ok, []int{0, 0}, []int{0, 1, 2}},
		{"index list not triples", ok, ok, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPolygon(tt.vertices, tt.uv, tt.indices, Sz(10, 10), Sz(10, 10))
			if !errors.Is(err, ErrPolygonIndex) {
				t.Errorf("err = %v, want ErrPolygonIndex", err)
			}
		})
	}
}

func TestBuildPolygonBadSizes(t *testing.T) {
	ok := []int{0, 0, 10, 0, 0, 10}
	if _, err := BuildPolygon(ok, ok, []int{0, 1, 2}, Sz(0, 10), Sz(10, 10)); !errors.Is(err, ErrMalformedField) {
		t.Errorf("zero sprite size: err = %v, want ErrMalformedField", err)
	}
	if _, err := BuildPolygon(ok, ok, []int{0, 1, 2}, Sz(10, 10), Sz(10, 0)); !errors.Is(err, ErrMalformedField) {
		t.Errorf("zero texture size: err = %v, want ErrMalformedField", err)
	}
}
