package replay

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
)

func TestLogEmitRequiresRunning(t *testing.T) {
	l := NewLog()
	if l.Emit(NewEvent(EventGameOver, 1, nil)) {
		t.Fatal("expected Emit to reject events before Start")
	}
}

func TestLogWritesBatchedEventsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l := NewLog()
	if err := l.Start(path); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 5; i++ {
		l.Emit(NewEvent(EventObjectDestroyed, int64(i), DestroyedPayload{Slot: int32(i)}))
	}

	l.Stop()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open event log: %v", err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	if lines != 5 {
		t.Errorf("expected 5 flushed lines, got %d", lines)
	}
}

func TestLogStatsReportsDropsUnderBackpressure(t *testing.T) {
	l := NewLog()
	if err := l.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer l.Stop()

	for i := 0; i < eventBufferSize+10; i++ {
		l.Emit(NewEvent(EventTickBoundary, int64(i), nil))
	}

	stats := l.Stats()
	if stats.Dropped == 0 {
		t.Error("expected some events to be dropped once emission outruns the rate limiter's burst")
	}
}

func TestEventTypeString(t *testing.T) {
	cases := map[EventType]string{
		EventGameOver:  "game_over",
		EventObjectHit: "object_hit",
		EventType(255): "unknown",
	}
	for et, want := range cases {
		if got := et.String(); got != want {
			t.Errorf("EventType(%d).String() = %q, want %q", et, got, want)
		}
	}
}
