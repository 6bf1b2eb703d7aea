package terrain

import (
	"sync"

	"terramesh/internal/geom"
	"terramesh/internal/profiling"
)

// Cache is an optional secondary source of built chunks, e.g. an on-disk
// snapshot store. Load misses are not errors; Save failures are the cache's
// problem and must not affect the store.
type Cache interface {
	Load(origin geom.Vec3i) (*Chunk, bool)
	Save(c *Chunk)
}

// Store memoizes built chunks by aligned origin. A chunk is built at most
// once per distinct origin for the store's lifetime: concurrent requests for
// the same origin block on the one in-flight build. Without eviction the map
// grows without bound; callers that page around a moving position should run
// EvictOutside as they go.
type Store struct {
	field Field
	cache Cache

	mu       sync.RWMutex
	chunks   map[geom.Vec3i]*Chunk
	inflight map[geom.Vec3i]chan struct{}
	modCount uint64
}

// NewStore creates a chunk store over the given density field.
func NewStore(f Field) *Store {
	return &Store{
		field:    f,
		chunks:   make(map[geom.Vec3i]*Chunk),
		inflight: make(map[geom.Vec3i]chan struct{}),
	}
}

// SetCache attaches a chunk cache. Must be called before any chunk access.
func (s *Store) SetCache(c Cache) {
	s.cache = c
}

// Chunk returns the chunk at the given aligned origin, building it if needed.
func (s *Store) Chunk(origin geom.Vec3i) *Chunk {
	for {
		s.mu.RLock()
		c := s.chunks[origin]
		s.mu.RUnlock()
		if c != nil {
			return c
		}

		s.mu.Lock()
		if c := s.chunks[origin]; c != nil {
			s.mu.Unlock()
			return c
		}
		if wait, ok := s.inflight[origin]; ok {
			// Another goroutine is building this origin; wait for it and
			// re-check. The winner may have been evicted in between, hence
			// the loop.
			s.mu.Unlock()
			<-wait
			continue
		}
		done := make(chan struct{})
		s.inflight[origin] = done
		s.mu.Unlock()

		c = s.build(origin)

		s.mu.Lock()
		s.chunks[origin] = c
		delete(s.inflight, origin)
		s.modCount++
		s.mu.Unlock()
		close(done)
		return c
	}
}

func (s *Store) build(origin geom.Vec3i) *Chunk {
	if s.cache != nil {
		if c, ok := s.cache.Load(origin); ok {
			return c
		}
	}
	c := BuildChunk(s.field, origin)
	if s.cache != nil {
		s.cache.Save(c)
	}
	return c
}

// ChunkAt returns the chunk containing the given world position, aligning it
// down to the chunk grid and building on demand.
func (s *Store) ChunkAt(world geom.Vec3i) *Chunk {
	return s.Chunk(world.AlignDown(ChunkSize))
}

// Has reports whether a chunk exists without building it.
func (s *Store) Has(origin geom.Vec3i) bool {
	s.mu.RLock()
	_, ok := s.chunks[origin]
	s.mu.RUnlock()
	return ok
}

// Len returns the number of resident chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// ModCount increases whenever a chunk is added or removed.
func (s *Store) ModCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modCount
}

// Each calls fn for every resident chunk.
func (s *Store) Each(fn func(*Chunk)) {
	s.mu.RLock()
	chunks := make([]*Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		chunks = append(chunks, c)
	}
	s.mu.RUnlock()
	for _, c := range chunks {
		fn(c)
	}
}

// EvictOutside removes chunks whose origin-cube lies beyond the given
// Chebyshev distance (in chunks) from the chunk containing center. Returns
// the number of chunks removed.
func (s *Store) EvictOutside(center geom.Vec3i, radius int) int {
	defer profiling.Track("terrain.EvictOutside")()
	cc := center.AlignDown(ChunkSize)
	removed := 0
	s.mu.Lock()
	for origin := range s.chunks {
		if origin.Chebyshev(cc)/ChunkSize > radius {
			delete(s.chunks, origin)
			s.modCount++
			removed++
		}
	}
	s.mu.Unlock()
	return removed
}
