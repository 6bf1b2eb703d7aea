package terrain

import (
	"testing"

	"terramesh/internal/geom"
)

// TestStreamerPrefetchAround verifies prefetch fills the window around the
// center, skipping origins outside the generation band, and that Close drains
// the queue.
func TestStreamerPrefetchAround(t *testing.T) {
	s := NewStore(flatField())
	st := NewStreamer(s)

	queued := st.PrefetchAround(geom.Vec3i{X: 5, Y: 5, Z: 5}, 1)
	st.Close()

	// A 3x3x3 window, but z = 16 and z = -32 rows fall outside the band:
	// chunks at z in {-16, 0} remain, 3*3*2 = 18 origins.
	if queued != 18 {
		t.Errorf("queued %d jobs, want 18", queued)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, z := range []int{-ChunkSize, 0} {
				origin := geom.Vec3i{X: dx * ChunkSize, Y: dy * ChunkSize, Z: z}
				if !s.Has(origin) {
					t.Errorf("origin %v not built after Close", origin)
				}
			}
			if s.Has(geom.Vec3i{X: dx * ChunkSize, Y: dy * ChunkSize, Z: ChunkSize}) {
				t.Errorf("out-of-band origin at z=%d was built", ChunkSize)
			}
		}
	}
}

// TestStreamerSkipsResident verifies already-resident chunks are not requeued.
func TestStreamerSkipsResident(t *testing.T) {
	s := NewStore(flatField())
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, z := range []int{-ChunkSize, 0} {
				s.Chunk(geom.Vec3i{X: dx * ChunkSize, Y: dy * ChunkSize, Z: z})
			}
		}
	}

	st := NewStreamer(s)
	defer st.Close()
	if queued := st.PrefetchAround(geom.Vec3i{}, 1); queued != 0 {
		t.Errorf("queued %d jobs for a fully resident window, want 0", queued)
	}
}
