package chat

import (
	"testing"
	"time"
)

func TestCommandQueueProcessesEnqueuedCommands(t *testing.T) {
	sink := &fakeSink{}
	handler := NewHandler(sink)
	handler.rateLimiter = NewRateLimiter(RateLimitConfig{MaxPerWindow: 100, WindowDuration: time.Minute, CooldownDuration: 0})

	q := NewCommandQueue(handler, QueueConfig{BufferSize: 8, Workers: 2})
	q.Start()
	defer q.Stop()

	if !q.Enqueue(ChatCommand{Command: "warp", Username: "alice"}) {
		t.Fatal("expected command to be enqueued")
	}

	deadline := time.Now().Add(time.Second)
	for q.Stats().Processed == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if q.Stats().Processed == 0 {
		t.Fatal("expected the queued command to be processed")
	}
}

func TestCommandQueueDropsWhenFull(t *testing.T) {
	handler := NewHandler(&fakeSink{})
	q := NewCommandQueue(handler, QueueConfig{BufferSize: 1, Workers: 4})
	// Start is never called, so nothing drains the single buffered slot.
	q.commands <- ChatCommand{Command: "warp", Username: "alice"}

	if q.Enqueue(ChatCommand{Command: "warp", Username: "bob"}) {
		t.Fatal("expected enqueue to fail once the buffer is full")
	}
	if q.Stats().Dropped != 1 {
		t.Errorf("expected one dropped command, got %d", q.Stats().Dropped)
	}
}
