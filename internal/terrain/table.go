package terrain

import (
	"fmt"

	"terramesh/internal/geom"
)

// Corner-sign connectivity table for a unit cell.
//
// Corners are indexed by position bits: bit 0 = +X, bit 1 = +Y, bit 2 = +Z,
// so corner i sits at (i&1, i>>1&1, i>>2&1). A configuration byte holds one
// sign bit per corner (1 = density >= 0, solid). For each of the 256
// configurations the table stores the cell's surface polygons as loops of cut
// edges, traced once at init from the cube's face adjacency. No runtime data
// is involved; the table is pure combinatorics.
//
// Tracing rule: every face is walked along its outward-oriented corner cycle.
// A consecutive pair solid->open is an exiting crossing, open->solid an
// entering crossing. The surface's intersection with the face connects each
// entering crossing to the next exiting crossing in cycle order. Each cut edge
// is entering on exactly one of its two faces and exiting on the other, so the
// per-face chords compose into directed loops, wound so that polygon normals
// point out of the solid region.

const numCubeEdges = 12

// cornerOffset returns the lattice offset of corner i within its cell.
func cornerOffset(i int) geom.Vec3i {
	return geom.Vec3i{X: i & 1, Y: (i >> 1) & 1, Z: (i >> 2) & 1}
}

// cubeEdges lists the cube's 12 edges as corner pairs, low corner first.
var cubeEdges = [numCubeEdges][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// faceCycles lists each face's corners in counter-clockwise order as seen
// from outside the cube.
var faceCycles = [6][4]int{
	{0, 2, 3, 1}, // z = 0
	{4, 5, 7, 6}, // z = 1
	{0, 4, 6, 2}, // x = 0
	{1, 3, 7, 5}, // x = 1
	{0, 1, 5, 4}, // y = 0
	{2, 6, 7, 3}, // y = 1
}

// edgeByCorners maps an unordered corner pair to its edge index, -1 otherwise.
var edgeByCorners [8][8]int

// surfaceTable[config] holds the traced loops as ordered edge-index lists.
var surfaceTable [256][][]int

func init() {
	for a := range 8 {
		for b := range 8 {
			edgeByCorners[a][b] = -1
		}
	}
	for e, c := range cubeEdges {
		edgeByCorners[c[0]][c[1]] = e
		edgeByCorners[c[1]][c[0]] = e
	}

	for cfg := range 256 {
		loops, err := traceLoops(uint8(cfg))
		if err != nil {
			panic(fmt.Sprintf("terrain: connectivity table: config %08b: %v", cfg, err))
		}
		surfaceTable[cfg] = loops
	}
}

func cornerSolid(cfg uint8, corner int) bool {
	return cfg&(1<<corner) != 0
}

// cutEdges returns the set of edges whose corners differ in sign.
func cutEdges(cfg uint8) [numCubeEdges]bool {
	var cut [numCubeEdges]bool
	for e, c := range cubeEdges {
		if cornerSolid(cfg, c[0]) != cornerSolid(cfg, c[1]) {
			cut[e] = true
		}
	}
	return cut
}

// traceLoops builds the polygon loops for one configuration and checks the
// structural invariants the extractor relies on.
func traceLoops(cfg uint8) ([][]int, error) {
	// Per-face chords: successor of each cut edge in polygon winding order.
	next := [numCubeEdges]int{}
	for i := range next {
		next[i] = -1
	}

	for _, cycle := range faceCycles {
		for k := range 4 {
			a := cycle[k]
			b := cycle[(k+1)%4]
			if !(!cornerSolid(cfg, a) && cornerSolid(cfg, b)) {
				continue // not an entering crossing
			}
			enter := edgeByCorners[a][b]
			// Find the next exiting crossing going forward around the face.
			for step := 1; step <= 3; step++ {
				c := cycle[(k+step)%4]
				d := cycle[(k+step+1)%4]
				if cornerSolid(cfg, c) && !cornerSolid(cfg, d) {
					exit := edgeByCorners[c][d]
					if next[enter] != -1 {
						return nil, fmt.Errorf("edge %d has two successors", enter)
					}
					next[enter] = exit
					break
				}
			}
		}
	}

	cut := cutEdges(cfg)
	var loops [][]int
	visited := [numCubeEdges]bool{}
	for start := range numCubeEdges {
		if !cut[start] || visited[start] {
			continue
		}
		loop := make([]int, 0, 6)
		e := start
		for {
			if visited[e] {
				return nil, fmt.Errorf("loop re-enters edge %d", e)
			}
			visited[e] = true
			loop = append(loop, e)
			e = next[e]
			if e < 0 {
				return nil, fmt.Errorf("edge %d has no successor", loop[len(loop)-1])
			}
			if e == start {
				break
			}
		}
		if len(loop) < 3 {
			return nil, fmt.Errorf("loop of %d edges", len(loop))
		}
		loops = append(loops, loop)
	}

	// Every cut edge must have been consumed by exactly one loop.
	for e := range numCubeEdges {
		if cut[e] && !visited[e] {
			return nil, fmt.Errorf("cut edge %d not in any loop", e)
		}
	}
	return loops, nil
}

// solidCorner returns the solid end of a cut edge under cfg, and the open end.
func solidCorner(cfg uint8, edge int) (solid, open int) {
	a, b := cubeEdges[edge][0], cubeEdges[edge][1]
	if cornerSolid(cfg, a) {
		return a, b
	}
	return b, a
}
