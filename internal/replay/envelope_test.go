package replay

import (
	"bytes"
	"testing"

	"antares/internal/sim"
)

func TestEnvelopeJSONRoundTrip(t *testing.T) {
	e := &Envelope{
		Seed:      99,
		ChapterID: 3,
		Frames: []sim.InputFrame{
			{KeysDown: sim.KeyUp},
			{KeysDown: sim.KeyWarp, HasSelection: true, SelectionID: 4},
		},
	}

	var buf bytes.Buffer
	if err := e.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	decoded, err := ReadEnvelope(&buf)
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	if decoded.Seed != e.Seed || decoded.ChapterID != e.ChapterID {
		t.Errorf("envelope header mismatch: got %+v", decoded)
	}
	if len(decoded.Frames) != len(e.Frames) {
		t.Fatalf("expected %d frames, got %d", len(e.Frames), len(decoded.Frames))
	}
	for i := range e.Frames {
		if decoded.Frames[i] != e.Frames[i] {
			t.Errorf("frame %d mismatch: got %+v, want %+v", i, decoded.Frames[i], e.Frames[i])
		}
	}
}

func TestSourceNextExhausts(t *testing.T) {
	e := &Envelope{Frames: []sim.InputFrame{{KeysDown: sim.KeyUp}, {KeysDown: sim.KeyWarp}}}
	s := NewSource(e)

	if s.Len() != 2 {
		t.Fatalf("expected Len 2, got %d", s.Len())
	}

	f, ok := s.Next()
	if !ok || f.KeysDown != sim.KeyUp {
		t.Fatalf("expected first frame KeyUp, got %+v ok=%v", f, ok)
	}
	f, ok = s.Next()
	if !ok || f.KeysDown != sim.KeyWarp {
		t.Fatalf("expected second frame KeyWarp, got %+v ok=%v", f, ok)
	}
	if _, ok := s.Next(); ok {
		t.Fatal("expected Next to report exhausted")
	}
}

func TestRecorderAccumulatesFrames(t *testing.T) {
	r := NewRecorder(7, 1)
	r.Record(sim.InputFrame{KeysDown: sim.KeyUp})
	r.Record(sim.InputFrame{KeysDown: sim.KeyWarp})

	env := r.Envelope()
	if env.Seed != 7 || env.ChapterID != 1 {
		t.Fatalf("unexpected envelope header: %+v", env)
	}
	if len(env.Frames) != 2 {
		t.Fatalf("expected 2 recorded frames, got %d", len(env.Frames))
	}
}
