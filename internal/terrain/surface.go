package terrain

import (
	"github.com/go-gl/mathgl/mgl64"

	"terramesh/internal/geom"
)

// Surface is one polygon of the isosurface passing through a unit cell.
// Vertices are in world coordinates, ordered so the winding's normal points
// out of the solid region. Surfaces are immutable once built.
type Surface struct {
	// Cell is the world coordinate of the generating cell's lower corner.
	Cell geom.Vec3i

	Verts  []mgl64.Vec3
	Normal mgl64.Vec3

	// Walkable reports whether the incline is within MaxWalkIncline and the
	// vertical line through the cell's horizontal center crosses the polygon's
	// plane inside the cell. WalkHeight is the world Z of that crossing and is
	// meaningful only when Walkable is set.
	Walkable   bool
	WalkHeight float64
}

// cellConfig computes the 8-bit corner-sign configuration from the cell's
// corner densities, and how many corners sit exactly on the isosurface.
// Exact zero ties break toward solid, deterministically.
func cellConfig(d *[8]float64) (cfg uint8, zeroes int) {
	for i := range 8 {
		if d[i] >= 0 {
			cfg |= 1 << i
		}
		if d[i] == 0 {
			zeroes++
		}
	}
	return cfg, zeroes
}

// extractCell emits the surface polygons for one unit cell given its 8 corner
// densities, appending to dst. cell is the world coordinate of the cell's
// lower corner. Returns the extended slice and the number of exact-zero
// corners encountered.
func extractCell(cell geom.Vec3i, d *[8]float64, dst []*Surface) ([]*Surface, int) {
	cfg, zeroes := cellConfig(d)
	loops := surfaceTable[cfg]
	if len(loops) == 0 {
		return dst, zeroes
	}

	base := cell.Float()
	for _, loop := range loops {
		verts := make([]mgl64.Vec3, len(loop))
		for i, e := range loop {
			sc, oc := solidCorner(cfg, e)
			ds := d[sc]
			do := d[oc]
			t := ds / (ds - do)
			ps := cornerOffset(sc).Float()
			po := cornerOffset(oc).Float()
			verts[i] = base.Add(ps.Add(po.Sub(ps).Mul(t)))
		}
		s := &Surface{Cell: cell, Verts: verts}
		if classify(s) {
			dst = append(dst, s)
		}
	}
	return dst, zeroes
}
