package ipc

import (
	"bytes"
	"testing"
)

func TestWriteReadMessageRoundTrip(t *testing.T) {
	msg := &SnapshotMessage{
		Sequence: 1,
		Tick:     42,
		Objects: []ObjectData{
			{Slot: 0, ID: 1, BaseID: 1, Owner: 0, LocH: 100, LocV: 200, Health: 50, MaxHealth: 100},
		},
		Beams: []BeamData{
			{Kind: 1, Color: 7, FromH: 0, FromV: 0, ToH: 10, ToV: 10},
		},
		Messages: []string{"destroyed"},
		GameOver: true,
		Winner:   1,
	}

	var buf bytes.Buffer
	if err := WriteMessage(&buf, MsgTypeSnapshot, msg); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	msgType, data, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if msgType != MsgTypeSnapshot {
		t.Errorf("expected MsgTypeSnapshot, got %d", msgType)
	}

	decoded, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}

	if decoded.Tick != msg.Tick {
		t.Errorf("tick mismatch: got %d, want %d", decoded.Tick, msg.Tick)
	}
	if len(decoded.Objects) != 1 || decoded.Objects[0].Health != 50 {
		t.Errorf("object round-trip mismatch: %+v", decoded.Objects)
	}
	if len(decoded.Beams) != 1 || decoded.Beams[0].ToH != 10 {
		t.Errorf("beam round-trip mismatch: %+v", decoded.Beams)
	}
	if !decoded.GameOver || decoded.Winner != 1 {
		t.Errorf("game-over state lost in round-trip: %+v", decoded)
	}
}

func TestReadMessageRejectsVersionMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, MsgTypePing, nil); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	corrupted := buf.Bytes()
	corrupted[0] = 0xFF // corrupt the version field

	if _, _, err := ReadMessage(bytes.NewReader(corrupted)); err == nil {
		t.Fatal("expected version mismatch error")
	}
}

func TestCleanupSocketNoFile(t *testing.T) {
	if err := CleanupSocket("/tmp/antares-test-nonexistent.sock"); err != nil {
		t.Errorf("expected no error cleaning up a nonexistent socket, got %v", err)
	}
}
