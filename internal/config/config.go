// Package config holds engine settings: defaults, YAML file loading and
// thread-safe global accessors for the values consulted every frame.
package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the on-disk configuration file shape.
type Settings struct {
	RenderDistance     int    `yaml:"render_distance"`
	EvictMargin        int    `yaml:"evict_margin"`
	MaxUploadsPerFrame int    `yaml:"max_uploads_per_frame"`
	MaxOutstandingJobs int    `yaml:"max_outstanding_jobs"`
	FPSLimit           int    `yaml:"fps_limit"`
	Seed               int64  `yaml:"seed"`
	SavePath           string `yaml:"save_path"`
	AutoSaveSeconds    int    `yaml:"autosave_seconds"`
	WindowWidth        int    `yaml:"window_width"`
	WindowHeight       int    `yaml:"window_height"`
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		RenderDistance:     12,
		EvictMargin:        2,
		MaxUploadsPerFrame: 16,
		MaxOutstandingJobs: 512,
		FPSLimit:           120,
		Seed:               0,
		SavePath:           "saves/world.db",
		AutoSaveSeconds:    60,
		WindowWidth:        1280,
		WindowHeight:       720,
	}
}

// Load reads settings from a YAML file, falling back to defaults when
// the file is absent. Values are clamped to sane ranges.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse config %s: %w", path, err)
	}
	s.clamp()
	return s, nil
}

func (s *Settings) clamp() {
	if s.RenderDistance < 2 {
		s.RenderDistance = 2
	}
	if s.RenderDistance > 32 {
		s.RenderDistance = 32
	}
	if s.EvictMargin < 0 {
		s.EvictMargin = 0
	}
	if s.MaxUploadsPerFrame < 1 {
		s.MaxUploadsPerFrame = 1
	}
	if s.MaxOutstandingJobs < 16 {
		s.MaxOutstandingJobs = 16
	}
	if s.AutoSaveSeconds < 5 {
		s.AutoSaveSeconds = 5
	}
	if s.WindowWidth < 320 {
		s.WindowWidth = 320
	}
	if s.WindowHeight < 240 {
		s.WindowHeight = 240
	}
}

// AutoSaveInterval returns the autosave period as a duration.
func (s Settings) AutoSaveInterval() time.Duration {
	return time.Duration(s.AutoSaveSeconds) * time.Second
}

var (
	mu     sync.RWMutex
	active = DefaultSettings()
)

// Apply installs loaded settings as the active configuration.
func Apply(s Settings) {
	mu.Lock()
	defer mu.Unlock()
	active = s
}

// Active returns a copy of the current settings.
func Active() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// GetRenderDistance returns the render distance in chunks.
func GetRenderDistance() int {
	mu.RLock()
	defer mu.RUnlock()
	return active.RenderDistance
}

// SetRenderDistance changes the render distance at runtime, clamped.
func SetRenderDistance(d int) {
	mu.Lock()
	defer mu.Unlock()
	if d < 2 {
		d = 2
	}
	if d > 32 {
		d = 32
	}
	active.RenderDistance = d
}

// GetFPSLimit returns the frame cap, 0 meaning uncapped.
func GetFPSLimit() int {
	mu.RLock()
	defer mu.RUnlock()
	return active.FPSLimit
}
