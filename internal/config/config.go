// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for simulation and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// TICK CONFIGURATION
// =============================================================================

// TickConfig holds the simulation's fixed-cadence timing settings.
type TickConfig struct {
	TickMicros            int // microseconds per tick
	TicksPerMajorTick     int // minor ticks per major (grid/collision/AI) tick
	ConditionTickInterval int // ticks between condition-evaluator sweeps
}

// DefaultTick returns the simulation's fixed timing constants. These are
// not meant to be overridden at runtime — a replay recorded at one
// cadence is not replayable at another — but are exposed here so
// cmd/antares and tests reference one source of truth rather than
// restating the numbers.
func DefaultTick() TickConfig {
	return TickConfig{
		TickMicros:            16667,
		TicksPerMajorTick:     3,
		ConditionTickInterval: 90,
	}
}

// =============================================================================
// ARENA CONFIGURATION
// =============================================================================

// ArenaConfig controls the space-object and beam table capacities.
type ArenaConfig struct {
	MaxSpaceObjects  int
	MaxBeams         int
	MaxQueuedActions int
}

// DefaultArena returns the default arena capacities.
func DefaultArena() ArenaConfig {
	return ArenaConfig{
		MaxSpaceObjects:  250,
		MaxBeams:         64,
		MaxQueuedActions: 120,
	}
}

// ArenaFromEnv returns arena configuration with environment overrides.
func ArenaFromEnv() ArenaConfig {
	cfg := DefaultArena()
	if v := getEnvInt("ANTARES_MAX_SPACE_OBJECTS", 0); v > 0 {
		cfg.MaxSpaceObjects = v
	}
	if v := getEnvInt("ANTARES_MAX_BEAMS", 0); v > 0 {
		cfg.MaxBeams = v
	}
	if v := getEnvInt("ANTARES_MAX_QUEUED_ACTIONS", 0); v > 0 {
		cfg.MaxQueuedActions = v
	}
	return cfg
}

// =============================================================================
// GRID CONFIGURATION
// =============================================================================

// GridConfig controls the toroidal proximity grids' cell sizes.
type GridConfig struct {
	CollisionCellSize int
	AwarenessCellSize int
	GridDim           int
}

// DefaultGrid returns the default grid configuration.
func DefaultGrid() GridConfig {
	return GridConfig{
		CollisionCellSize: 128,
		AwarenessCellSize: 2048,
		GridDim:           16,
	}
}

// =============================================================================
// SNAPSHOT / RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and snapshot sizing.
type ResourceLimits struct {
	MaxObjectsPerSnapshot int
	MaxBeamsPerSnapshot   int
	MaxMessagesPerTick    int
	MaxUIEventsPerTick    int
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxObjectsPerSnapshot: 250,
		MaxBeamsPerSnapshot:   64,
		MaxMessagesPerTick:    32,
		MaxUIEventsPerTick:    32,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP/WebSocket server settings.
type ServerConfig struct {
	Port              int
	RequestsPerSecond float64
	Burst             int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:              3000,
		RequestsPerSecond: 50,
		Burst:             100,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()
	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if rps := getEnvFloat("ANTARES_RATE_LIMIT_RPS", -1); rps >= 0 {
		cfg.RequestsPerSecond = rps
	}
	if b := getEnvInt("ANTARES_RATE_LIMIT_BURST", 0); b > 0 {
		cfg.Burst = b
	}
	return cfg
}

// =============================================================================
// OBSERVABILITY CONFIGURATION
// =============================================================================

// ObservabilityConfig controls logging and metrics.
type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPath    string
}

// DefaultObservability returns the default observability configuration.
func DefaultObservability() ObservabilityConfig {
	return ObservabilityConfig{
		MetricsEnabled: true,
		MetricsPath:    "/metrics",
	}
}

// ObservabilityFromEnv returns observability configuration with
// environment variable overrides.
func ObservabilityFromEnv() ObservabilityConfig {
	cfg := DefaultObservability()
	if os.Getenv("ANTARES_METRICS_DISABLED") == "true" {
		cfg.MetricsEnabled = false
	}
	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Tick          TickConfig
	Arena         ArenaConfig
	Grid          GridConfig
	Limits        ResourceLimits
	Server        ServerConfig
	Observability ObservabilityConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Tick:          DefaultTick(),
		Arena:         ArenaFromEnv(),
		Grid:          DefaultGrid(),
		Limits:        DefaultLimits(),
		Server:        ServerFromEnv(),
		Observability: ObservabilityFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
