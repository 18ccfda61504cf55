package chat

import (
	"testing"
	"time"

	"antares/internal/sim"
)

type fakeSink struct {
	frames []sim.InputFrame
}

func (f *fakeSink) SubmitInput(in sim.InputFrame) {
	f.frames = append(f.frames, in)
}

func (f *fakeSink) last() sim.InputFrame {
	return f.frames[len(f.frames)-1]
}

func TestProcessCommandTarget(t *testing.T) {
	sink := &fakeSink{}
	h := NewHandler(sink)

	h.ProcessCommand(ChatCommand{Command: "target", Args: []string{"7"}, Username: "alice"})

	if len(sink.frames) != 1 {
		t.Fatalf("expected one submitted frame, got %d", len(sink.frames))
	}
	in := sink.last()
	if !in.HasSelection || in.SelectionID != 7 {
		t.Errorf("expected selection 7, got %+v", in)
	}
}

func TestProcessCommandTargetInvalidSlot(t *testing.T) {
	sink := &fakeSink{}
	h := NewHandler(sink)

	h.ProcessCommand(ChatCommand{Command: "target", Args: []string{"not-a-number"}, Username: "alice"})

	if len(sink.frames) != 0 {
		t.Errorf("expected no frame submitted for invalid slot, got %d", len(sink.frames))
	}
}

func TestProcessCommandWarpToggles(t *testing.T) {
	sink := &fakeSink{}
	h := NewHandler(sink)

	h.ProcessCommand(ChatCommand{Command: "warp", Username: "alice"})
	if sink.last().KeysDown&sim.KeyWarp == 0 {
		t.Fatal("expected warp engaged after first toggle")
	}

	h.rateLimiter = NewRateLimiter(RateLimitConfig{MaxPerWindow: 100, WindowDuration: 0, CooldownDuration: 0})
	h.ProcessCommand(ChatCommand{Command: "warp", Username: "alice"})
	if sink.last().KeysDown&sim.KeyWarp != 0 {
		t.Fatal("expected warp disengaged after second toggle")
	}
}

func TestProcessCommandWeaponDefaultsToSpecialSlot(t *testing.T) {
	sink := &fakeSink{}
	h := NewHandler(sink)

	h.ProcessCommand(ChatCommand{Command: "weapon", Username: "alice"})

	in := sink.last()
	if in.KeysDown&sim.KeySpecial == 0 {
		t.Errorf("expected special weapon bit set, got %+v", in)
	}
}

func TestProcessCommandWeaponSlot(t *testing.T) {
	sink := &fakeSink{}
	h := NewHandler(sink)

	h.ProcessCommand(ChatCommand{Command: "weapon", Args: []string{"0"}, Username: "alice"})

	in := sink.last()
	if in.KeysDown&sim.KeyPulse == 0 {
		t.Errorf("expected pulse weapon bit set, got %+v", in)
	}
}

func TestProcessCommandUnknownIsIgnored(t *testing.T) {
	sink := &fakeSink{}
	h := NewHandler(sink)

	h.ProcessCommand(ChatCommand{Command: "nonsense", Username: "alice"})

	if len(sink.frames) != 0 {
		t.Errorf("expected no frame submitted for an unknown command, got %d", len(sink.frames))
	}
}

func TestProcessCommandAliases(t *testing.T) {
	sink := &fakeSink{}
	h := NewHandler(sink)
	h.rateLimiter = NewRateLimiter(RateLimitConfig{MaxPerWindow: 100, WindowDuration: 0, CooldownDuration: 0})

	h.ProcessCommand(ChatCommand{Command: "objetivo", Args: []string{"3"}, Username: "alice"})
	if !sink.last().HasSelection || sink.last().SelectionID != 3 {
		t.Errorf("expected 'objetivo' alias to behave like 'target', got %+v", sink.last())
	}
}

func TestProcessCommandRateLimited(t *testing.T) {
	sink := &fakeSink{}
	h := NewHandler(sink)
	h.rateLimiter = NewRateLimiter(RateLimitConfig{MaxPerWindow: 1, WindowDuration: time.Minute, CooldownDuration: 0})

	h.ProcessCommand(ChatCommand{Command: "warp", Username: "alice"})
	h.ProcessCommand(ChatCommand{Command: "warp", Username: "alice"})

	if len(sink.frames) != 1 {
		t.Errorf("expected second command to be rate limited, got %d frames", len(sink.frames))
	}
}
