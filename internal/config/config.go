package config

import (
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/laakri/flowcanvas/backend-go/internal/engine"
	"github.com/laakri/flowcanvas/backend-go/internal/viewport"
)

type Config struct {
	Port           int     `envconfig:"PORT" default:"8080"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`
	MinZoom        float64 `envconfig:"MIN_ZOOM" default:"0.1"`
	MaxZoom        float64 `envconfig:"MAX_ZOOM" default:"3"`
	ZoomFactor     float64 `envconfig:"ZOOM_FACTOR" default:"1.2"`
	HandleRadius   float64 `envconfig:"HANDLE_RADIUS" default:"8"`
	SeedDiagram    bool    `envconfig:"SEED_DIAGRAM" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// EngineOptions builds the per-session engine options.
func (c *Config) EngineOptions(log *slog.Logger) engine.Options {
	return engine.Options{
		Viewport: viewport.Options{
			MinZoom:    c.MinZoom,
			MaxZoom:    c.MaxZoom,
			ZoomFactor: c.ZoomFactor,
		},
		HandleRadius: c.HandleRadius,
		Seed:         c.SeedDiagram,
		Logger:       log,
	}
}
