package terrain

import (
	"math/rand"
	"testing"

	"terramesh/internal/geom"
)

// TestCellTreeQueryMatchesBruteForce inserts surfaces at random cells and
// checks windowed queries against a linear scan.
func TestCellTreeQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(4242))
	tree := newCellTree(ChunkSize)
	byCell := make(map[geom.Vec3i][]*Surface)

	for i := 0; i < 300; i++ {
		local := geom.Vec3i{
			X: rng.Intn(ChunkSize),
			Y: rng.Intn(ChunkSize),
			Z: rng.Intn(ChunkSize),
		}
		s := &Surface{Cell: local}
		tree.insert(local, s)
		byCell[local] = append(byCell[local], s)
	}

	for trial := 0; trial < 50; trial++ {
		min := geom.Vec3i{
			X: rng.Intn(ChunkSize),
			Y: rng.Intn(ChunkSize),
			Z: rng.Intn(ChunkSize),
		}
		max := min.Add(geom.Vec3i{
			X: rng.Intn(ChunkSize - min.X),
			Y: rng.Intn(ChunkSize - min.Y),
			Z: rng.Intn(ChunkSize - min.Z),
		})

		want := make(map[*Surface]bool)
		for cell, surfs := range byCell {
			if cell.X >= min.X && cell.X <= max.X &&
				cell.Y >= min.Y && cell.Y <= max.Y &&
				cell.Z >= min.Z && cell.Z <= max.Z {
				for _, s := range surfs {
					want[s] = true
				}
			}
		}

		got := tree.query(min, max, nil)
		if len(got) != len(want) {
			t.Fatalf("box [%v, %v]: got %d surfaces, want %d", min, max, len(got), len(want))
		}
		for _, s := range got {
			if !want[s] {
				t.Fatalf("box [%v, %v]: surface at %v outside box", min, max, s.Cell)
			}
		}
	}
}

// TestCellTreeEmptyQuery verifies querying a fresh tree returns nothing.
func TestCellTreeEmptyQuery(t *testing.T) {
	tree := newCellTree(ChunkSize)
	if got := tree.query(geom.Vec3i{}, geom.Vec3i{X: 15, Y: 15, Z: 15}, nil); len(got) != 0 {
		t.Errorf("empty tree returned %d surfaces", len(got))
	}
}

// TestCellTreeSingleCell verifies a point query hits only its own cell.
func TestCellTreeSingleCell(t *testing.T) {
	tree := newCellTree(ChunkSize)
	target := geom.Vec3i{X: 7, Y: 3, Z: 12}
	s := &Surface{Cell: target}
	tree.insert(target, s)
	tree.insert(geom.Vec3i{X: 7, Y: 3, Z: 11}, &Surface{})
	tree.insert(geom.Vec3i{X: 8, Y: 3, Z: 12}, &Surface{})

	got := tree.query(target, target, nil)
	if len(got) != 1 || got[0] != s {
		t.Fatalf("point query at %v: got %d surfaces", target, len(got))
	}
}

func BenchmarkCellTreeQuery(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	tree := newCellTree(ChunkSize)
	for i := 0; i < 1000; i++ {
		local := geom.Vec3i{
			X: rng.Intn(ChunkSize),
			Y: rng.Intn(ChunkSize),
			Z: rng.Intn(ChunkSize),
		}
		tree.insert(local, &Surface{Cell: local})
	}
	min := geom.Vec3i{X: 4, Y: 4, Z: 4}
	max := geom.Vec3i{X: 11, Y: 11, Z: 11}
	var dst []*Surface
	for b.Loop() {
		dst = tree.query(min, max, dst[:0])
	}
}
