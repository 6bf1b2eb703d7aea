package game

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"terramesh/internal/geom"
	"terramesh/internal/terrain"
)

// VerticalWindow is how many cells above and below the current elevation a
// movement attempt will search for a walkable destination.
const VerticalWindow = 2

// ErrNoSpawn is returned when no walkable surface exists within the
// generation band around the spawn column. There is no recovery; callers
// treat it as fatal.
var ErrNoSpawn = errors.New("game: no walkable spawn surface within generation bounds")

// Engine tracks the single live position of the player: standing on exactly
// one walkable surface. Movement attempts page chunks in through the store as
// needed. The engine is single-writer; wrap it if multiple goroutines mutate
// position.
type Engine struct {
	store *terrain.Store
	cur   *terrain.Surface
}

// New creates an engine over the given chunk store. Call Spawn before
// movement queries.
func New(store *terrain.Store) *Engine {
	return &Engine{store: store}
}

// Store exposes the underlying chunk store, e.g. for prefetching or eviction
// keyed to the player's position.
func (e *Engine) Store() *terrain.Store {
	return e.store
}

// Spawn places the player on the first walkable surface found by scanning
// spawn-area columns from the generation ceiling downward.
func (e *Engine) Spawn() error {
	const spawnRadius = 4
	for r := 0; r <= spawnRadius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				if s := e.topWalkableInColumn(dx, dy); s != nil {
					e.cur = s
					return nil
				}
			}
		}
	}
	return ErrNoSpawn
}

// topWalkableInColumn scans one (x, y) column from the ceiling down.
func (e *Engine) topWalkableInColumn(x, y int) *terrain.Surface {
	for z := terrain.GenCeiling - 1; z >= terrain.GenFloor; z-- {
		if s := bestAtCell(e.store, geom.Vec3i{X: x, Y: y, Z: z}, math.Inf(1)); s != nil {
			return s
		}
	}
	return nil
}

// AttemptMove tries to step one cell in the given direction. The horizontal
// components must be in {-1, 0, 1} and not both zero; Z biases the center of
// the vertical search window. Among the walkable surfaces within the window
// the one nearest in elevation to the current position wins. On failure the
// position is unchanged.
func (e *Engine) AttemptMove(dir geom.Vec3i) bool {
	if e.cur == nil {
		return false
	}
	if dir.X < -1 || dir.X > 1 || dir.Y < -1 || dir.Y > 1 {
		return false
	}
	if dir.X == 0 && dir.Y == 0 {
		return false
	}

	target := e.cur.Cell.Add(dir)
	var best *terrain.Surface
	bestDist := math.Inf(1)
	for dz := -VerticalWindow; dz <= VerticalWindow; dz++ {
		cell := geom.Vec3i{X: target.X, Y: target.Y, Z: target.Z + dz}
		if cell.Z < terrain.GenFloor || cell.Z >= terrain.GenCeiling {
			continue
		}
		if s := bestAtCell(e.store, cell, e.cur.WalkHeight); s != nil {
			if d := math.Abs(s.WalkHeight - e.cur.WalkHeight); d < bestDist {
				best = s
				bestDist = d
			}
		}
	}
	if best == nil {
		return false
	}
	e.cur = best
	return true
}

// bestAtCell returns the walkable surface in the given world cell whose walk
// height is nearest to ref, building the owning chunk on demand.
func bestAtCell(store *terrain.Store, cell geom.Vec3i, ref float64) *terrain.Surface {
	chunk := store.ChunkAt(cell)
	local := cell.Sub(chunk.Origin)
	var best *terrain.Surface
	bestDist := math.Inf(1)
	for _, s := range chunk.SurfacesForCell(local) {
		if !s.Walkable {
			continue
		}
		d := math.Abs(s.WalkHeight - ref)
		if math.IsInf(ref, 1) {
			d = -s.WalkHeight // no reference: prefer the highest
		}
		if best == nil || d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best
}

// CurrentSurface returns the surface the player stands on, nil before Spawn.
func (e *Engine) CurrentSurface() *terrain.Surface {
	return e.cur
}

// CurrentCell returns the world cell of the current surface.
func (e *Engine) CurrentCell() geom.Vec3i {
	if e.cur == nil {
		return geom.Vec3i{}
	}
	return e.cur.Cell
}

// CurrentPosition returns the walk point: the cell's horizontal center at the
// surface's walk height.
func (e *Engine) CurrentPosition() mgl64.Vec3 {
	if e.cur == nil {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{
		float64(e.cur.Cell.X) + 0.5,
		float64(e.cur.Cell.Y) + 0.5,
		e.cur.WalkHeight,
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
