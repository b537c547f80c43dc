// Package config loads viewer configuration: defaults, an optional YAML
// file, then environment overrides (with .env support).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

const defaultImageryURL = "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}"

// Config holds the map viewer settings.
type Config struct {
	Center     [2]float64 `yaml:"center"` // [lng, lat]
	Zoom       float64    `yaml:"zoom"`
	Editable   bool       `yaml:"editable"`
	ImageryURL string     `yaml:"imageryUrl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Center:     [2]float64{0, 20},
		Zoom:       2,
		ImageryURL: defaultImageryURL,
	}
}

// Load builds a Config from defaults, an optional YAML file (path may
// be empty), and environment variables MAPVIEW_CENTER ("lng,lat"),
// MAPVIEW_ZOOM, MAPVIEW_EDITABLE, and MAPVIEW_IMAGERY_URL. A .env file
// in the working directory is honored.
func Load(path string) (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("MAPVIEW_CENTER")); v != "" {
		center, err := parseCenter(v)
		if err != nil {
			return cfg, err
		}
		cfg.Center = center
	}
	if v := strings.TrimSpace(os.Getenv("MAPVIEW_ZOOM")); v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid MAPVIEW_ZOOM %q: %w", v, err)
		}
		cfg.Zoom = z
	}
	if v := strings.TrimSpace(os.Getenv("MAPVIEW_EDITABLE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid MAPVIEW_EDITABLE %q: %w", v, err)
		}
		cfg.Editable = b
	}
	if v := strings.TrimSpace(os.Getenv("MAPVIEW_IMAGERY_URL")); v != "" {
		cfg.ImageryURL = v
	}

	return cfg, nil
}

// CenterPoint returns the configured center as an orb.Point.
func (c Config) CenterPoint() orb.Point {
	return orb.Point{c.Center[0], c.Center[1]}
}

func parseCenter(s string) ([2]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return [2]float64{}, fmt.Errorf("invalid MAPVIEW_CENTER %q: want \"lng,lat\"", s)
	}
	var out [2]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("invalid MAPVIEW_CENTER %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
