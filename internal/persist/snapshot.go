package persist

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/klauspost/compress/zstd"

	"terramesh/internal/geom"
	"terramesh/internal/terrain"
)

// Chunk snapshots are zstd-compressed files holding a JSON header line
// followed by a gob payload. Rebuilding a chunk is pure CPU, so snapshots are
// strictly a cache: a corrupt or missing file just means building again.

const snapshotVersion = 1

type header struct {
	Version int    `json:"version"`
	Origin  [3]int `json:"origin"`
}

type chunkV1 struct {
	Origin   [3]int
	Surfaces []surfaceV1
}

type surfaceV1 struct {
	Cell       [3]int
	Verts      [][3]float64
	Normal     [3]float64
	Walkable   bool
	WalkHeight float64
}

// WriteChunk snapshots a built chunk to path, creating parent directories.
func WriteChunk(path string, c *terrain.Chunk) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 64*1024)
	defer bw.Flush()

	snap := encodeChunk(c)
	hb, _ := json.Marshal(header{Version: snapshotVersion, Origin: snap.Origin})
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

// ReadChunk loads a chunk snapshot from path.
func ReadChunk(path string) (*terrain.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	hb, err := br.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}
	var h header
	if err := json.Unmarshal(hb, &h); err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}
	if h.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d not supported", h.Version)
	}

	var snap chunkV1
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	return decodeChunk(snap), nil
}

func encodeChunk(c *terrain.Chunk) chunkV1 {
	snap := chunkV1{
		Origin:   [3]int{c.Origin.X, c.Origin.Y, c.Origin.Z},
		Surfaces: make([]surfaceV1, 0, c.Len()),
	}
	c.Surfaces(func(s *terrain.Surface) {
		sv := surfaceV1{
			Cell:       [3]int{s.Cell.X, s.Cell.Y, s.Cell.Z},
			Verts:      make([][3]float64, len(s.Verts)),
			Normal:     [3]float64{s.Normal.X(), s.Normal.Y(), s.Normal.Z()},
			Walkable:   s.Walkable,
			WalkHeight: s.WalkHeight,
		}
		for i, v := range s.Verts {
			sv.Verts[i] = [3]float64{v.X(), v.Y(), v.Z()}
		}
		snap.Surfaces = append(snap.Surfaces, sv)
	})
	return snap
}

func decodeChunk(snap chunkV1) *terrain.Chunk {
	origin := geom.Vec3i{X: snap.Origin[0], Y: snap.Origin[1], Z: snap.Origin[2]}
	surfs := make([]*terrain.Surface, 0, len(snap.Surfaces))
	for _, sv := range snap.Surfaces {
		s := &terrain.Surface{
			Cell:       geom.Vec3i{X: sv.Cell[0], Y: sv.Cell[1], Z: sv.Cell[2]},
			Verts:      make([]mgl64.Vec3, len(sv.Verts)),
			Normal:     mgl64.Vec3{sv.Normal[0], sv.Normal[1], sv.Normal[2]},
			Walkable:   sv.Walkable,
			WalkHeight: sv.WalkHeight,
		}
		for i, v := range sv.Verts {
			s.Verts[i] = mgl64.Vec3{v[0], v[1], v[2]}
		}
		surfs = append(surfs, s)
	}
	return terrain.NewChunkFromSurfaces(origin, surfs)
}
