package render

import (
	"testing"

	"terramesh/internal/geom"
	"terramesh/internal/terrain"
)

// TestBuildChunkMeshFlat verifies mesh assembly over flat ground: one square
// per column fanned into four triangles, all normals straight up.
func TestBuildChunkMeshFlat(t *testing.T) {
	flat := terrain.FieldFunc(func(p geom.Vec3i) float64 { return -float64(p.Z) })
	c := terrain.BuildChunk(flat, geom.Vec3i{})

	m := BuildChunkMesh(c)
	if m.IsEmpty() {
		t.Fatal("flat chunk produced an empty mesh")
	}

	const columns = terrain.ChunkSize * terrain.ChunkSize
	// Each square contributes a centroid plus its four corners.
	if got := m.VertexCount(); got != columns*5 {
		t.Errorf("VertexCount = %d, want %d", got, columns*5)
	}
	if got := m.TriangleCount(); got != columns*4 {
		t.Errorf("TriangleCount = %d, want %d", got, columns*4)
	}
	for i := 0; i < len(m.Normals); i += 3 {
		if m.Normals[i] != 0 || m.Normals[i+1] != 0 || m.Normals[i+2] != 1 {
			t.Fatalf("normal %d = (%f,%f,%f), want +Z",
				i/3, m.Normals[i], m.Normals[i+1], m.Normals[i+2])
		}
	}
	for i := 2; i < len(m.Vertices); i += 3 {
		if m.Vertices[i] != 0 {
			t.Fatalf("vertex %d at z=%f, want 0", i/3, m.Vertices[i])
		}
	}
}

// TestBuildChunkMeshIndicesInRange verifies every index references a vertex,
// over noisier geometry that mixes triangles and fanned polygons.
func TestBuildChunkMeshIndicesInRange(t *testing.T) {
	c := terrain.BuildChunk(terrain.NewNoiseField(7), geom.Vec3i{})
	m := BuildChunkMesh(c)

	if len(m.Vertices) != len(m.Normals) {
		t.Fatalf("vertex/normal arrays diverge: %d vs %d", len(m.Vertices), len(m.Normals))
	}
	if len(m.Indices)%3 != 0 {
		t.Fatalf("index count %d not a multiple of 3", len(m.Indices))
	}
	n := uint32(m.VertexCount())
	for _, idx := range m.Indices {
		if idx >= n {
			t.Fatalf("index %d out of range (%d vertices)", idx, n)
		}
	}
}

// TestBuildChunkMeshEmpty verifies a chunk outside the generation band yields
// an empty mesh.
func TestBuildChunkMeshEmpty(t *testing.T) {
	c := terrain.BuildChunk(terrain.NewNoiseField(7), geom.Vec3i{Z: terrain.GenCeiling})
	m := BuildChunkMesh(c)
	if !m.IsEmpty() || m.TriangleCount() != 0 {
		t.Errorf("out-of-band chunk produced %d triangles", m.TriangleCount())
	}
}
