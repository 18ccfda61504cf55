package chat

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinWindow(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxPerWindow: 3, WindowDuration: time.Minute, CooldownDuration: 0})

	for i := 0; i < 3; i++ {
		if !rl.Allow("alice") {
			t.Fatalf("expected command %d to be allowed", i)
		}
	}
	if rl.Allow("alice") {
		t.Fatal("expected fourth command in window to be rejected")
	}
}

func TestRateLimiterEnforcesCooldown(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxPerWindow: 100, WindowDuration: time.Minute, CooldownDuration: time.Hour})

	if !rl.Allow("bob") {
		t.Fatal("expected first command to be allowed")
	}
	if rl.Allow("bob") {
		t.Fatal("expected second command to be rejected by cooldown")
	}
}

func TestRateLimiterTracksUsersIndependently(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxPerWindow: 1, WindowDuration: time.Minute, CooldownDuration: 0})

	if !rl.Allow("alice") {
		t.Fatal("expected alice's first command to be allowed")
	}
	if !rl.Allow("bob") {
		t.Fatal("expected bob's first command to be allowed independently of alice")
	}
}
