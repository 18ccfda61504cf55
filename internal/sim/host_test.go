package sim

import (
	"sync/atomic"
	"testing"
	"time"
)

func newTestHost(t *testing.T) *Host {
	t.Helper()
	session, err := Load(DefaultScenario(), 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewHost(session, DefaultSnapshotLimits)
}

func TestHostStartStopTicks(t *testing.T) {
	host := newTestHost(t)

	var steps int32
	host.OnStep(func(InputFrame, StepOutcome) {
		atomic.AddInt32(&steps, 1)
	})

	host.Start(1000) // 1ms/tick, fast enough for a short test
	time.Sleep(30 * time.Millisecond)
	host.Stop()

	if atomic.LoadInt32(&steps) == 0 {
		t.Fatal("expected at least one tick to run")
	}

	snap := host.Snapshot()
	if snap == nil {
		t.Fatal("Snapshot returned nil")
	}
}

func TestHostSubmitInputReachesTick(t *testing.T) {
	host := newTestHost(t)

	seen := make(chan InputFrame, 1)
	host.OnStep(func(in InputFrame, _ StepOutcome) {
		select {
		case seen <- in:
		default:
		}
	})

	host.Start(1000)
	defer host.Stop()

	host.SubmitInput(InputFrame{KeysDown: KeyUp})

	select {
	case in := <-seen:
		if in.KeysDown&KeyUp == 0 {
			// Might have caught an earlier tick before submission landed;
			// give it one more chance.
			host.SubmitInput(InputFrame{KeysDown: KeyUp})
			in = <-seen
			if in.KeysDown&KeyUp == 0 {
				t.Fatal("submitted input never reached a tick")
			}
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a tick")
	}
}

func TestHostAdmiralsIsDefensiveCopy(t *testing.T) {
	host := newTestHost(t)

	admirals := host.Admirals()
	if len(admirals) == 0 {
		t.Fatal("expected at least one admiral")
	}
	admirals[0].Score = 12345

	fresh := host.Admirals()
	if fresh[0].Score == 12345 {
		t.Fatal("mutating the returned slice affected the host's internal state")
	}
}

func TestWeaponKeyBit(t *testing.T) {
	cases := map[int]uint32{0: KeyPulse, 1: KeyBeam, 2: KeySpecial, 7: KeySpecial}
	for slot, want := range cases {
		if got := WeaponKeyBit(slot); got != want {
			t.Errorf("WeaponKeyBit(%d) = %#x, want %#x", slot, got, want)
		}
	}
}
