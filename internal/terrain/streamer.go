package terrain

import (
	"runtime"
	"sync"

	"terramesh/internal/geom"
	"terramesh/internal/profiling"
)

// Streamer generates chunks in the background so movement queries rarely pay
// for a synchronous build. The per-origin in-flight guard lives in the Store;
// the streamer only decides which origins are worth queueing.
type Streamer struct {
	jobs       chan geom.Vec3i
	pending    map[geom.Vec3i]struct{}
	pendingMu  sync.Mutex
	maxPending int

	store *Store
	wg    sync.WaitGroup
}

// NewStreamer starts NumCPU background workers over the given store.
func NewStreamer(store *Store) *Streamer {
	st := &Streamer{
		jobs:       make(chan geom.Vec3i, 1024),
		pending:    make(map[geom.Vec3i]struct{}),
		maxPending: 4096,
		store:      store,
	}
	workers := max(runtime.NumCPU(), 1)
	for range workers {
		st.wg.Add(1)
		go st.worker()
	}
	return st
}

// Close stops the background workers, draining queued jobs first.
func (st *Streamer) Close() {
	close(st.jobs)
	st.wg.Wait()
}

func (st *Streamer) worker() {
	defer st.wg.Done()
	for origin := range st.jobs {
		st.store.Chunk(origin)
		st.pendingMu.Lock()
		delete(st.pending, origin)
		st.pendingMu.Unlock()
	}
}

// PrefetchAround queues the chunks within radius (in chunks, Chebyshev) of
// the chunk containing center, nearest ring first. Origins outside the
// generation band are skipped entirely. Returns the number of jobs queued.
func (st *Streamer) PrefetchAround(center geom.Vec3i, radius int) int {
	defer profiling.Track("terrain.PrefetchAround")()
	cc := center.AlignDown(ChunkSize)
	queued := 0
	for r := 0; r <= radius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				for dz := -r; dz <= r; dz++ {
					if max(abs(dx), abs(dy), abs(dz)) != r {
						continue // interior of the ring, already queued
					}
					origin := cc.Add(geom.Vec3i{X: dx, Y: dy, Z: dz}.Scale(ChunkSize))
					if origin.Z >= GenCeiling || origin.Z+ChunkSize <= GenFloor {
						continue
					}
					if st.request(origin) {
						queued++
					}
				}
			}
		}
	}
	return queued
}

func (st *Streamer) request(origin geom.Vec3i) bool {
	if st.store.Has(origin) {
		return false
	}
	st.pendingMu.Lock()
	if _, ok := st.pending[origin]; ok {
		st.pendingMu.Unlock()
		return false
	}
	if st.maxPending > 0 && len(st.pending) >= st.maxPending {
		st.pendingMu.Unlock()
		return false
	}
	st.pending[origin] = struct{}{}
	st.pendingMu.Unlock()

	select {
	case st.jobs <- origin:
		return true
	default:
		// queue full: roll back
		st.pendingMu.Lock()
		delete(st.pending, origin)
		st.pendingMu.Unlock()
		return false
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
