package ipc

import (
	"path/filepath"
	"testing"
	"time"

	"antares/internal/sim"
)

func TestPublisherSubscriberRoundTrip(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "antares-test.sock")

	pub := NewPublisher(socketPath)
	if err := pub.Start(); err != nil {
		t.Fatalf("publisher Start: %v", err)
	}
	defer pub.Stop()

	sub := NewSubscriber(socketPath)
	received := make(chan *SnapshotMessage, 1)
	sub.OnSnapshot(func(msg *SnapshotMessage) {
		select {
		case received <- msg:
		default:
		}
	})
	if err := sub.Start(); err != nil {
		t.Fatalf("subscriber Start: %v", err)
	}
	defer sub.Stop()

	// Give the subscriber time to connect before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for !sub.IsConnected() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !sub.IsConnected() {
		t.Fatal("subscriber never connected")
	}

	snap := &sim.Snapshot{
		Tick: 7,
		Objects: []sim.ObjectSnapshot{
			{Slot: 0, ID: 1, BaseID: 1, Health: 80, MaxHealth: 100},
		},
	}
	pub.PublishSnapshot(snap)

	select {
	case msg := <-received:
		if msg.Tick != 7 {
			t.Errorf("expected tick 7, got %d", msg.Tick)
		}
		if len(msg.Objects) != 1 || msg.Objects[0].Health != 80 {
			t.Errorf("unexpected objects: %+v", msg.Objects)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}
