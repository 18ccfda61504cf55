package config

import "testing"

func TestDefaultsLoadWithoutEnv(t *testing.T) {
	cfg := Load()
	if cfg.Tick.TickMicros != 16667 {
		t.Errorf("expected default tick micros 16667, got %d", cfg.Tick.TickMicros)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if !cfg.Observability.MetricsEnabled {
		t.Error("expected metrics enabled by default")
	}
}

func TestArenaFromEnvOverrides(t *testing.T) {
	t.Setenv("ANTARES_MAX_SPACE_OBJECTS", "500")
	t.Setenv("ANTARES_MAX_BEAMS", "8")

	cfg := ArenaFromEnv()
	if cfg.MaxSpaceObjects != 500 {
		t.Errorf("expected MaxSpaceObjects 500, got %d", cfg.MaxSpaceObjects)
	}
	if cfg.MaxBeams != 8 {
		t.Errorf("expected MaxBeams 8, got %d", cfg.MaxBeams)
	}
	if cfg.MaxQueuedActions != DefaultArena().MaxQueuedActions {
		t.Errorf("expected unset MaxQueuedActions to keep its default")
	}
}

func TestArenaFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("ANTARES_MAX_SPACE_OBJECTS", "not-a-number")

	cfg := ArenaFromEnv()
	if cfg.MaxSpaceObjects != DefaultArena().MaxSpaceObjects {
		t.Errorf("expected an unparseable override to fall back to the default, got %d", cfg.MaxSpaceObjects)
	}
}

func TestServerFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("ANTARES_RATE_LIMIT_RPS", "0")

	cfg := ServerFromEnv()
	if cfg.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.Port)
	}
	if cfg.RequestsPerSecond != 0 {
		t.Errorf("expected RequestsPerSecond override of 0 to apply, got %v", cfg.RequestsPerSecond)
	}
}

func TestObservabilityFromEnvDisablesMetrics(t *testing.T) {
	t.Setenv("ANTARES_METRICS_DISABLED", "true")

	cfg := ObservabilityFromEnv()
	if cfg.MetricsEnabled {
		t.Error("expected metrics disabled when ANTARES_METRICS_DISABLED=true")
	}
}
