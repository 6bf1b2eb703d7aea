// terramap renders a top-down walkability map of the generated terrain:
// one pixel per column, colored by the elevation of the highest walkable
// surface, then upscaled to a readable size.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"

	"terramesh/internal/config"
	"terramesh/internal/geom"
	"terramesh/internal/terrain"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration")
	radius := flag.Int("radius", 4, "map radius around the origin, in chunks")
	scale := flag.Int("scale", 8, "output pixels per column")
	out := flag.String("o", "terramap.png", "output PNG path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *radius < 1 || *scale < 1 {
		log.Fatal("radius and scale must be at least 1")
	}

	field := terrain.NewNoiseFieldParams(cfg.Seed, cfg.Noise.Stretch, cfg.Noise.Amplitude,
		cfg.Noise.Octaves, cfg.Noise.Persistence, cfg.Noise.Lacunarity)
	store := terrain.NewStore(field)

	side := 2 * *radius * terrain.ChunkSize
	minWorld := -*radius * terrain.ChunkSize

	heights := make([]float64, side*side)
	for i := range heights {
		heights[i] = math.Inf(-1)
	}

	for cx := -*radius; cx < *radius; cx++ {
		for cy := -*radius; cy < *radius; cy++ {
			for cz := terrain.GenFloor; cz < terrain.GenCeiling; cz += terrain.ChunkSize {
				origin := geom.Vec3i{X: cx * terrain.ChunkSize, Y: cy * terrain.ChunkSize, Z: cz}
				chunk := store.Chunk(origin)
				chunk.Surfaces(func(s *terrain.Surface) {
					if !s.Walkable {
						return
					}
					px := s.Cell.X - minWorld
					py := s.Cell.Y - minWorld
					idx := py*side + px
					if s.WalkHeight > heights[idx] {
						heights[idx] = s.WalkHeight
					}
				})
			}
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for py := range side {
		for px := range side {
			h := heights[py*side+px]
			// flip Y so +Y is up in the image
			img.Set(px, side-1-py, heightColor(h))
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, side**scale, side**scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()
	if err := png.Encode(f, dst); err != nil {
		log.Fatalf("encode: %v", err)
	}
	log.Printf("wrote %s (%dx%d, %d chunks)", *out, side**scale, side**scale, store.Len())
}

// heightColor maps a walk height within the generation band to a green ramp;
// columns with no walkable surface come out nearly black.
func heightColor(h float64) color.RGBA {
	if math.IsInf(h, -1) {
		return color.RGBA{18, 18, 22, 255}
	}
	t := (h - terrain.GenFloor) / float64(terrain.GenCeiling-terrain.GenFloor)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(40 + 180*t),
		G: uint8(90 + 140*t),
		B: uint8(40 + 60*t),
		A: 255,
	}
}
