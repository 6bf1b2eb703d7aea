package persist

import (
	"fmt"
	"log"
	"path/filepath"

	"terramesh/internal/geom"
	"terramesh/internal/terrain"
)

// DiskCache implements terrain.Cache over snapshot files plus the SQLite
// index. All failures degrade to cache misses: the store rebuilds and the
// cache logs.
type DiskCache struct {
	dir   string
	index *Index
}

var _ terrain.Cache = (*DiskCache)(nil)

// OpenDiskCache opens a snapshot cache rooted at dir. indexPath defaults to
// dir/chunks.db when empty.
func OpenDiskCache(dir, indexPath string) (*DiskCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty cache dir")
	}
	if indexPath == "" {
		indexPath = filepath.Join(dir, "chunks.db")
	}
	ix, err := OpenIndex(indexPath)
	if err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir, index: ix}, nil
}

func (c *DiskCache) chunkPath(origin geom.Vec3i) string {
	return filepath.Join(c.dir, fmt.Sprintf("chunk_%d_%d_%d.tms.zst", origin.X, origin.Y, origin.Z))
}

// Load returns the cached chunk for origin, or a miss.
func (c *DiskCache) Load(origin geom.Vec3i) (*terrain.Chunk, bool) {
	path, ok, err := c.index.Lookup(origin)
	if err != nil {
		log.Printf("persist: index lookup %v: %v", origin, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	chunk, err := ReadChunk(path)
	if err != nil {
		log.Printf("persist: read %s: %v", path, err)
		return nil, false
	}
	return chunk, true
}

// Save snapshots a freshly built chunk.
func (c *DiskCache) Save(chunk *terrain.Chunk) {
	path := c.chunkPath(chunk.Origin)
	if err := WriteChunk(path, chunk); err != nil {
		log.Printf("persist: write %s: %v", path, err)
		return
	}
	if err := c.index.Record(chunk.Origin, path, chunk.Len()); err != nil {
		log.Printf("persist: index record %v: %v", chunk.Origin, err)
	}
}

// Close releases the index.
func (c *DiskCache) Close() error {
	return c.index.Close()
}
