package render

import (
	"terramesh/internal/terrain"
)

// Mesh is a triangle mesh suitable for uploading to the GPU. Arrays are
// flat: three floats per vertex position and normal, three indices per
// triangle.
type Mesh struct {
	Vertices []float32 // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 // [nx0,ny0,nz0, ...]
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// BuildChunkMesh assembles all of a chunk's surfaces into one mesh.
// Triangles pass through directly; larger polygons are fanned around their
// centroid, which stays well-behaved for the slightly non-planar loops
// multi-surface cells can produce. The surface winding already faces the open
// region, so the fan preserves it.
func BuildChunkMesh(c *terrain.Chunk) *Mesh {
	m := &Mesh{}
	c.Surfaces(func(s *terrain.Surface) {
		appendSurface(m, s)
	})
	return m
}

func appendSurface(m *Mesh, s *terrain.Surface) {
	n := s.Normal
	pushVert := func(x, y, z float64) uint32 {
		idx := uint32(m.VertexCount())
		m.Vertices = append(m.Vertices, float32(x), float32(y), float32(z))
		m.Normals = append(m.Normals, float32(n.X()), float32(n.Y()), float32(n.Z()))
		return idx
	}

	if len(s.Verts) == 3 {
		a := pushVert(s.Verts[0].X(), s.Verts[0].Y(), s.Verts[0].Z())
		b := pushVert(s.Verts[1].X(), s.Verts[1].Y(), s.Verts[1].Z())
		c := pushVert(s.Verts[2].X(), s.Verts[2].Y(), s.Verts[2].Z())
		m.Indices = append(m.Indices, a, b, c)
		return
	}

	var cx, cy, cz float64
	for _, v := range s.Verts {
		cx += v.X()
		cy += v.Y()
		cz += v.Z()
	}
	inv := 1.0 / float64(len(s.Verts))
	center := pushVert(cx*inv, cy*inv, cz*inv)

	first := uint32(m.VertexCount())
	for _, v := range s.Verts {
		pushVert(v.X(), v.Y(), v.Z())
	}
	count := uint32(len(s.Verts))
	for i := uint32(0); i < count; i++ {
		m.Indices = append(m.Indices, center, first+i, first+(i+1)%count)
	}
}
