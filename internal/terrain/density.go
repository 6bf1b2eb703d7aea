package terrain

import (
	"terramesh/internal/geom"
)

// A Field is a deterministic signed scalar density over the integer lattice.
// Positive density is solid ground, negative is open air. Sample must be pure:
// identical coordinates yield identical values across processes.
type Field interface {
	Sample(p geom.Vec3i) float64
}

// FieldFunc adapts a plain function into a Field.
type FieldFunc func(p geom.Vec3i) float64

func (f FieldFunc) Sample(p geom.Vec3i) float64 { return f(p) }

// NoiseField derives density from layered coherent noise. The raw fBm sample
// in [0,1] is recentred to [-1,1], scaled by the height amplitude, then biased
// by subtracting the vertical coordinate, so density trends negative with
// height: a ground plane warped by noise.
type NoiseField struct {
	seed        int64
	stretch     float64
	amplitude   float64
	octaves     int
	persistence float64
	lacunarity  float64
}

// NewNoiseField creates a noise-backed density field with the default
// generation parameters.
func NewNoiseField(seed int64) *NoiseField {
	return &NoiseField{
		seed:        seed,
		stretch:     1.0 / 16.0,
		amplitude:   8.0,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
	}
}

// NewNoiseFieldParams creates a noise-backed density field with explicit
// parameters. Stretch is the noise-space scale per world unit.
func NewNoiseFieldParams(seed int64, stretch, amplitude float64, octaves int, persistence, lacunarity float64) *NoiseField {
	return &NoiseField{
		seed:        seed,
		stretch:     stretch,
		amplitude:   amplitude,
		octaves:     octaves,
		persistence: persistence,
		lacunarity:  lacunarity,
	}
}

func (f *NoiseField) Sample(p geom.Vec3i) float64 {
	nx := float64(p.X) * f.stretch
	ny := float64(p.Y) * f.stretch
	nz := float64(p.Z) * f.stretch

	n := octaveNoise3D(nx, ny, nz, f.seed, f.octaves, f.persistence, f.lacunarity)
	n = n*2.0 - 1.0

	return n*f.amplitude - float64(p.Z)
}
