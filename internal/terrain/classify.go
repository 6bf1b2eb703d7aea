package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxWalkIncline is the steepest standable slope, measured as the angle
	// between the surface normal and the up axis. The boundary itself is
	// walkable.
	MaxWalkIncline = math.Pi / 4

	inclineEpsilon = 1e-9
	normalEpsilon  = 1e-12
)

var up = mgl64.Vec3{0, 0, 1}

// centroid returns the arithmetic mean of the vertices.
func centroid(verts []mgl64.Vec3) mgl64.Vec3 {
	var c mgl64.Vec3
	for _, v := range verts {
		c = c.Add(v)
	}
	return c.Mul(1.0 / float64(len(verts)))
}

// polygonNormal computes the unit normal of a vertex loop. Triangles are
// planar, so one cross product of two edge vectors suffices. Longer loops from
// multi-surface cells can be slightly non-planar; summing the cross products
// of the centroid fan tolerates that.
func polygonNormal(verts []mgl64.Vec3, c mgl64.Vec3) (mgl64.Vec3, bool) {
	var n mgl64.Vec3
	if len(verts) == 3 {
		n = verts[1].Sub(verts[0]).Cross(verts[2].Sub(verts[1]))
	} else {
		for i := range verts {
			a := verts[i].Sub(c)
			b := verts[(i+1)%len(verts)].Sub(c)
			n = n.Add(a.Cross(b))
		}
	}
	l := n.Len()
	if l < normalEpsilon {
		return mgl64.Vec3{}, false
	}
	return n.Mul(1.0 / l), true
}

// incline returns the angle between a unit normal and the up axis.
func incline(normal mgl64.Vec3) float64 {
	d := normal.Dot(up)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}

// walkHeight intersects the vertical line through the cell's horizontal
// center with the polygon's plane. The surface is standable only if that
// intersection lies within the cell's vertical span.
func walkHeight(cell cellFrame, normal, cent mgl64.Vec3) (float64, bool) {
	if math.Abs(normal.Z()) < normalEpsilon {
		return 0, false
	}
	cx := float64(cell.X) + 0.5
	cy := float64(cell.Y) + 0.5
	// Solve normal . (p - centroid) = 0 for p = (cx, cy, z).
	z := cent.Z() + (normal.X()*(cent.X()-cx)+normal.Y()*(cent.Y()-cy))/normal.Z()
	rel := z - float64(cell.Z)
	if rel < 0 || rel > 1 {
		return 0, false
	}
	return z, true
}

type cellFrame struct {
	X, Y, Z int
}

// classify fills in the derived fields of a surface from its vertex loop.
// It is a pure function of the vertices and the owning cell; surfaces whose
// loop degenerates to zero area (possible only through exact-zero corner
// densities collapsing interpolated vertices) report ok=false and are skipped
// by the extractor.
func classify(s *Surface) bool {
	c := centroid(s.Verts)
	n, ok := polygonNormal(s.Verts, c)
	if !ok {
		return false
	}
	s.Normal = n
	if incline(n) <= MaxWalkIncline+inclineEpsilon {
		frame := cellFrame{s.Cell.X, s.Cell.Y, s.Cell.Z}
		if h, ok := walkHeight(frame, n, c); ok {
			s.Walkable = true
			s.WalkHeight = h
		}
	}
	return true
}
