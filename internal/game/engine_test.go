package game

import (
	"math"
	"testing"

	"terramesh/internal/geom"
	"terramesh/internal/terrain"
)

// flat is solid at and below z=0 everywhere.
func flat() terrain.Field {
	return terrain.FieldFunc(func(p geom.Vec3i) float64 { return -float64(p.Z) })
}

// ramp rises one unit per unit of x: the isosurface is the 45-degree plane
// z = x, at the walkable incline boundary.
func ramp() terrain.Field {
	return terrain.FieldFunc(func(p geom.Vec3i) float64 { return float64(p.X - p.Z) })
}

// plateau is flat ground that ends in a sheer cliff east of x=3.
func plateau() terrain.Field {
	return terrain.FieldFunc(func(p geom.Vec3i) float64 {
		if p.X > 2 {
			return -100
		}
		return -float64(p.Z)
	})
}

// shelf is flat ground at z=0 plus a thin solid slab at lattice height h
// covering x >= 0.
func shelf(h int) terrain.Field {
	return terrain.FieldFunc(func(p geom.Vec3i) float64 {
		if p.X >= 0 && p.Z == h {
			return 0.5
		}
		return 0.5 - float64(p.Z)
	})
}

func spawned(t *testing.T, f terrain.Field) *Engine {
	t.Helper()
	e := New(terrain.NewStore(f))
	if err := e.Spawn(); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	return e
}

// TestSpawnFlat verifies spawning on flat ground lands on the origin column's
// z=0 surface.
func TestSpawnFlat(t *testing.T) {
	e := spawned(t, flat())

	s := e.CurrentSurface()
	if s == nil || !s.Walkable {
		t.Fatal("spawn did not land on a walkable surface")
	}
	if s.Cell != (geom.Vec3i{}) {
		t.Errorf("spawn cell %v, want origin", s.Cell)
	}
	if s.WalkHeight != 0 {
		t.Errorf("spawn walk height %f, want 0", s.WalkHeight)
	}
	pos := e.CurrentPosition()
	if pos.X() != 0.5 || pos.Y() != 0.5 || pos.Z() != 0 {
		t.Errorf("position %v, want cell center at ground level", pos)
	}
}

// TestSpawnPicksHighestSurface verifies spawn lands on the shelf above the
// ground rather than the ground beneath it.
func TestSpawnPicksHighestSurface(t *testing.T) {
	e := spawned(t, shelf(2))
	if got := e.CurrentCell().Z; got != 2 {
		t.Errorf("spawn cell z=%d, want the shelf at z=2", got)
	}
}

// TestSpawnFailsInVoid verifies Spawn reports ErrNoSpawn over a field with no
// ground anywhere.
func TestSpawnFailsInVoid(t *testing.T) {
	e := New(terrain.NewStore(terrain.FieldFunc(func(geom.Vec3i) float64 { return -1 })))
	if err := e.Spawn(); err != ErrNoSpawn {
		t.Fatalf("Spawn = %v, want ErrNoSpawn", err)
	}
	if e.CurrentSurface() != nil {
		t.Error("failed spawn left a current surface")
	}
}

// TestMoveAndInverse verifies a successful step followed by its inverse
// returns to the original cell.
func TestMoveAndInverse(t *testing.T) {
	dirs := []geom.Vec3i{
		{X: 1}, {Y: 1}, {X: -1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: -1},
	}
	for _, dir := range dirs {
		e := spawned(t, flat())
		start := e.CurrentCell()

		if !e.AttemptMove(dir) {
			t.Fatalf("move %v failed on flat ground", dir)
		}
		if got := e.CurrentCell(); got != start.Add(geom.Vec3i{X: dir.X, Y: dir.Y}) {
			t.Fatalf("move %v landed at %v", dir, got)
		}
		inv := geom.Vec3i{X: -dir.X, Y: -dir.Y, Z: -dir.Z}
		if !e.AttemptMove(inv) {
			t.Fatalf("inverse of %v failed", dir)
		}
		if got := e.CurrentCell(); got != start {
			t.Errorf("move %v then inverse ended at %v, want %v", dir, got, start)
		}
	}
}

// TestMoveOffCliffFails verifies stepping toward a sheer drop fails and
// leaves the position unchanged.
func TestMoveOffCliffFails(t *testing.T) {
	e := spawned(t, plateau())

	// Walk to the last fully solid column before the cliff.
	for e.CurrentCell().X < 1 {
		if !e.AttemptMove(geom.Vec3i{X: 1}) {
			t.Fatalf("walk toward the cliff stalled at %v", e.CurrentCell())
		}
	}
	cur := e.CurrentSurface()

	if e.AttemptMove(geom.Vec3i{X: 1}) {
		t.Fatal("move over the cliff edge succeeded")
	}
	if e.CurrentSurface() != cur {
		t.Error("failed move changed the current surface")
	}
}

// TestMoveClimbsRamp verifies movement follows a 45-degree slope one cell of
// elevation per step, both up and down.
func TestMoveClimbsRamp(t *testing.T) {
	e := spawned(t, ramp())
	if h := e.CurrentSurface().WalkHeight; h != 0.5 {
		t.Fatalf("spawn walk height %f, want 0.5 on the ramp", h)
	}

	for i := 1; i <= 3; i++ {
		if !e.AttemptMove(geom.Vec3i{X: 1}) {
			t.Fatalf("uphill step %d failed", i)
		}
		want := 0.5 + float64(i)
		if h := e.CurrentSurface().WalkHeight; h != want {
			t.Fatalf("after %d uphill steps: walk height %f, want %f", i, h, want)
		}
	}
	for i := 1; i <= 3; i++ {
		if !e.AttemptMove(geom.Vec3i{X: -1}) {
			t.Fatalf("downhill step %d failed", i)
		}
	}
	if h := e.CurrentSurface().WalkHeight; h != 0.5 {
		t.Errorf("after returning: walk height %f, want 0.5", h)
	}
}

// TestMoveVerticalWindow verifies a drop of two cells is within reach of a
// step while a drop of three is not.
func TestMoveVerticalWindow(t *testing.T) {
	// Standing on the shelf at z=2, the ground at z=0 is two cells below:
	// inside the window.
	e := spawned(t, shelf(2))
	if !e.AttemptMove(geom.Vec3i{X: -1}) {
		t.Fatal("drop from shelf at z=2 failed")
	}
	if got := e.CurrentCell(); got.Z != 0 {
		t.Errorf("landed in cell z=%d, want ground at z=0", got.Z)
	}

	// From a shelf at z=3 the ground is three cells below: out of reach.
	e = spawned(t, shelf(3))
	start := e.CurrentSurface()
	if e.AttemptMove(geom.Vec3i{X: -1}) {
		t.Fatal("drop from shelf at z=3 succeeded past the vertical window")
	}
	if e.CurrentSurface() != start {
		t.Error("failed move changed the current surface")
	}
}

// TestMoveNearestElevationWins verifies that with candidate surfaces both at
// ground level and on a shelf overhead, the one closest to the current
// elevation is chosen.
func TestMoveNearestElevationWins(t *testing.T) {
	f := terrain.FieldFunc(func(p geom.Vec3i) float64 {
		if p.X >= 1 && p.Z == 2 {
			return 1
		}
		return -float64(p.Z)
	})
	e := spawned(t, f)
	if h := e.CurrentSurface().WalkHeight; h != 0 {
		t.Fatalf("spawn height %f, want 0", h)
	}

	if !e.AttemptMove(geom.Vec3i{X: 1}) {
		t.Fatal("move failed")
	}
	if h := e.CurrentSurface().WalkHeight; math.Abs(h) > 0.75 {
		t.Errorf("landed at height %f, expected the ground-level surface", h)
	}
}

// TestMoveRejectsBadDirections verifies direction validation.
func TestMoveRejectsBadDirections(t *testing.T) {
	e := spawned(t, flat())
	start := e.CurrentCell()

	for _, dir := range []geom.Vec3i{
		{},            // no horizontal component
		{Z: 1},        // vertical only
		{X: 2},        // out of range
		{X: 1, Y: -2}, // out of range
		{X: -3, Y: 3, Z: 1},
	} {
		if e.AttemptMove(dir) {
			t.Errorf("AttemptMove(%v) accepted an invalid direction", dir)
		}
	}
	if e.CurrentCell() != start {
		t.Error("rejected moves changed position")
	}
}

// TestMoveBeforeSpawn verifies movement is refused before a spawn.
func TestMoveBeforeSpawn(t *testing.T) {
	e := New(terrain.NewStore(flat()))
	if e.AttemptMove(geom.Vec3i{X: 1}) {
		t.Error("AttemptMove succeeded before Spawn")
	}
}
