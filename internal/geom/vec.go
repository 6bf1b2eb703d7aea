package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vec3i is an integer lattice coordinate. Z is up.
type Vec3i struct {
	X, Y, Z int
}

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3i) Sub(o Vec3i) Vec3i {
	return Vec3i{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3i) Scale(s int) Vec3i {
	return Vec3i{v.X * s, v.Y * s, v.Z * s}
}

// Float converts to a float64 vector.
func (v Vec3i) Float() mgl64.Vec3 {
	return mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns the remainder with the sign of the divisor,
// so FloorMod(-1, 16) == 15.
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

// Mod applies FloorMod componentwise.
func (v Vec3i) Mod(grid int) Vec3i {
	return Vec3i{FloorMod(v.X, grid), FloorMod(v.Y, grid), FloorMod(v.Z, grid)}
}

// AlignDown snaps each component down to a multiple of grid: v - v mod grid.
func (v Vec3i) AlignDown(grid int) Vec3i {
	return v.Sub(v.Mod(grid))
}

// Chebyshev returns the L-infinity distance between two points.
func (v Vec3i) Chebyshev(o Vec3i) int {
	d := absInt(v.X - o.X)
	if dy := absInt(v.Y - o.Y); dy > d {
		d = dy
	}
	if dz := absInt(v.Z - o.Z); dz > d {
		d = dz
	}
	return d
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
