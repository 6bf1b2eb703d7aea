package terrain

import (
	"log"

	"terramesh/internal/geom"
	"terramesh/internal/profiling"
)

const (
	// ChunkSize is the cube edge length of a chunk in cells. Chunk origins
	// are aligned multiples of it.
	ChunkSize = 16

	// GenFloor and GenCeiling bound terrain generation vertically. Chunks
	// entirely outside the band are empty and skip noise sampling.
	GenFloor   = -16
	GenCeiling = 16

	latticeSize = ChunkSize + 1
)

// Chunk owns the terrain surfaces whose generating cell falls inside one
// aligned 16-unit cube of world space. Chunks are built once and never
// mutated afterwards.
type Chunk struct {
	Origin geom.Vec3i

	cells map[geom.Vec3i][]*Surface // keyed by local cell coordinate
	index *cellTree
	count int
}

// BuildChunk samples the density field over the chunk's corner lattice and
// extracts, classifies and indexes the surfaces of every cell. Deterministic
// given the origin and the field.
func BuildChunk(f Field, origin geom.Vec3i) *Chunk {
	defer profiling.Track("terrain.BuildChunk")()

	c := &Chunk{
		Origin: origin,
		cells:  make(map[geom.Vec3i][]*Surface),
		index:  newCellTree(ChunkSize),
	}

	// Band short-circuit: nothing to sample outside the generation bounds.
	if origin.Z >= GenCeiling || origin.Z+ChunkSize <= GenFloor {
		return c
	}

	var lattice [latticeSize][latticeSize][latticeSize]float64
	for lx := range latticeSize {
		for ly := range latticeSize {
			for lz := range latticeSize {
				p := origin.Add(geom.Vec3i{X: lx, Y: ly, Z: lz})
				lattice[lx][ly][lz] = f.Sample(p)
			}
		}
	}

	zeroes := 0
	var corners [8]float64
	for lx := range ChunkSize {
		for ly := range ChunkSize {
			for lz := range ChunkSize {
				for i := range 8 {
					o := cornerOffset(i)
					corners[i] = lattice[lx+o.X][ly+o.Y][lz+o.Z]
				}
				local := geom.Vec3i{X: lx, Y: ly, Z: lz}
				cell := origin.Add(local)
				var surfs []*Surface
				var z int
				surfs, z = extractCell(cell, &corners, nil)
				zeroes += z
				if len(surfs) == 0 {
					continue
				}
				c.cells[local] = surfs
				c.count += len(surfs)
				for _, s := range surfs {
					c.index.insert(local, s)
				}
			}
		}
	}
	if zeroes > 0 {
		log.Printf("terrain: chunk %v: %d corner(s) at exact zero density, treated as solid", origin, zeroes)
	}
	return c
}

// NewChunkFromSurfaces reassembles a chunk from previously built surfaces,
// e.g. when loading a snapshot. Surfaces must belong to cells inside the
// chunk's extent.
func NewChunkFromSurfaces(origin geom.Vec3i, surfs []*Surface) *Chunk {
	c := &Chunk{
		Origin: origin,
		cells:  make(map[geom.Vec3i][]*Surface),
		index:  newCellTree(ChunkSize),
	}
	for _, s := range surfs {
		local := s.Cell.Sub(origin)
		c.cells[local] = append(c.cells[local], s)
		c.index.insert(local, s)
		c.count++
	}
	return c
}

// SurfacesForCell returns the surfaces generated by the cell at the given
// chunk-local coordinate, possibly none.
func (c *Chunk) SurfacesForCell(local geom.Vec3i) []*Surface {
	return c.cells[local]
}

// SurfacesInBox returns all surfaces whose generating cell lies within the
// closed chunk-local box [min, max].
func (c *Chunk) SurfacesInBox(min, max geom.Vec3i) []*Surface {
	return c.index.query(min, max, nil)
}

// Surfaces calls fn for every surface in the chunk.
func (c *Chunk) Surfaces(fn func(*Surface)) {
	for _, surfs := range c.cells {
		for _, s := range surfs {
			fn(s)
		}
	}
}

// Len returns the number of surfaces in the chunk.
func (c *Chunk) Len() int {
	return c.count
}
