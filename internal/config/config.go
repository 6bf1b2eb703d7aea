package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration. Zero values are filled from
// defaults, so a partial YAML file overrides only what it names.
type Config struct {
	Seed  int64       `yaml:"seed"`
	Noise NoiseConfig `yaml:"noise"`
	World WorldConfig `yaml:"world"`
	Cache CacheConfig `yaml:"cache"`
}

// NoiseConfig parameterizes the density field.
type NoiseConfig struct {
	Stretch     float64 `yaml:"stretch"`
	Amplitude   float64 `yaml:"amplitude"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
}

// WorldConfig tunes chunk paging around the player.
type WorldConfig struct {
	PrefetchRadius int `yaml:"prefetch_radius"` // chunks queued ahead of movement
	EvictRadius    int `yaml:"evict_radius"`    // Chebyshev retention ring, in chunks
}

// CacheConfig enables the on-disk chunk snapshot cache when Dir is set.
type CacheConfig struct {
	Dir   string `yaml:"dir"`
	Index string `yaml:"index"`
}

func defaults() Config {
	return Config{
		Seed: 1337,
		Noise: NoiseConfig{
			Stretch:     1.0 / 16.0,
			Amplitude:   8.0,
			Octaves:     4,
			Persistence: 0.5,
			Lacunarity:  2.0,
		},
		World: WorldConfig{
			PrefetchRadius: 2,
			EvictRadius:    6,
		},
	}
}

// Load reads the configuration at path, overlaying it on the defaults. An
// empty path yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the generator cannot run with.
func (c Config) Validate() error {
	if c.Noise.Stretch <= 0 {
		return fmt.Errorf("noise.stretch must be positive, got %v", c.Noise.Stretch)
	}
	if c.Noise.Amplitude <= 0 {
		return fmt.Errorf("noise.amplitude must be positive, got %v", c.Noise.Amplitude)
	}
	if c.Noise.Octaves < 1 {
		return fmt.Errorf("noise.octaves must be at least 1, got %d", c.Noise.Octaves)
	}
	if c.Noise.Persistence <= 0 || c.Noise.Persistence > 1 {
		return fmt.Errorf("noise.persistence must be in (0,1], got %v", c.Noise.Persistence)
	}
	if c.Noise.Lacunarity < 1 {
		return fmt.Errorf("noise.lacunarity must be at least 1, got %v", c.Noise.Lacunarity)
	}
	if c.World.PrefetchRadius < 0 {
		return fmt.Errorf("world.prefetch_radius must not be negative, got %d", c.World.PrefetchRadius)
	}
	if c.World.EvictRadius < 1 {
		return fmt.Errorf("world.evict_radius must be at least 1, got %d", c.World.EvictRadius)
	}
	if c.Cache.Dir == "" && c.Cache.Index != "" {
		return fmt.Errorf("cache.index set without cache.dir")
	}
	return nil
}
