// Package config provides configuration management for tracklane.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// Default values
	DefaultPort     = 8878
	DefaultLogLevel = "info"
	DefaultDataDir  = ".tracklane"

	// Environment variable names
	EnvPort     = "TRACKLANE_PORT"
	EnvLogLevel = "TRACKLANE_LOG_LEVEL"
	EnvDataDir  = "TRACKLANE_DATA_DIR"

	// Engine tuning environment variable names
	EnvSnapThreshold    = "TRACKLANE_SNAP_THRESHOLD"
	EnvIntSnapThreshold = "TRACKLANE_INT_SNAP_THRESHOLD"
	EnvSilenceThreshold = "TRACKLANE_SILENCE_THRESHOLD"
	EnvMaxLayers        = "TRACKLANE_MAX_LAYERS"
	EnvSyncTickMs       = "TRACKLANE_SYNC_TICK_MS"

	// Database filename
	DBFilename = "tracklane.db"

	// Engine defaults. The thresholds match the behavior the original
	// editors shipped with; they are overridable rather than tuned.
	DefaultSnapThreshold    = 0.5
	DefaultIntSnapThreshold = 0.3
	DefaultSilenceThreshold = 0.02
	DefaultMaxLayers        = 3
	DefaultSyncTickMs       = 100
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	SnapThreshold() float64
	IntSnapThreshold() float64
	SilenceThreshold() float64
	MaxLayers() int
	SyncTick() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port     int
	logLevel string
	dataDir  string

	snapThreshold    float64
	intSnapThreshold float64
	silenceThreshold float64
	maxLayers        int
	syncTickMs       int
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:             DefaultPort,
		logLevel:         DefaultLogLevel,
		dataDir:          defaultDataDir(),
		snapThreshold:    DefaultSnapThreshold,
		intSnapThreshold: DefaultIntSnapThreshold,
		silenceThreshold: DefaultSilenceThreshold,
		maxLayers:        DefaultMaxLayers,
		syncTickMs:       DefaultSyncTickMs,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if err := overrideFloat(EnvSnapThreshold, &cfg.snapThreshold); err != nil {
		return nil, err
	}
	if err := overrideFloat(EnvIntSnapThreshold, &cfg.intSnapThreshold); err != nil {
		return nil, err
	}
	if err := overrideFloat(EnvSilenceThreshold, &cfg.silenceThreshold); err != nil {
		return nil, err
	}

	if ml := os.Getenv(EnvMaxLayers); ml != "" {
		n, err := strconv.Atoi(ml)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive integer", EnvMaxLayers)
		}
		cfg.maxLayers = n
	}

	if tick := os.Getenv(EnvSyncTickMs); tick != "" {
		n, err := strconv.Atoi(tick)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive integer", EnvSyncTickMs)
		}
		cfg.syncTickMs = n
	}

	return cfg, nil
}

func overrideFloat(env string, dst *float64) error {
	raw := os.Getenv(env)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid %s: must be a positive number", env)
	}
	*dst = v
	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// SnapThreshold returns the neighbor-boundary snap tolerance in
// timeline seconds.
func (c *EnvConfig) SnapThreshold() float64 {
	return c.snapThreshold
}

// IntSnapThreshold returns the whole-second snap tolerance.
func (c *EnvConfig) IntSnapThreshold() float64 {
	return c.intSnapThreshold
}

// SilenceThreshold returns the amplitude below which a waveform sample
// counts as silent.
func (c *EnvConfig) SilenceThreshold() float64 {
	return c.silenceThreshold
}

// MaxLayers returns the visible lane cap per track.
func (c *EnvConfig) MaxLayers() int {
	return c.maxLayers
}

// SyncTick returns the playback synchronizer polling cadence.
func (c *EnvConfig) SyncTick() time.Duration {
	return time.Duration(c.syncTickMs) * time.Millisecond
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
