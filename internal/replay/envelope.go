// Package replay provides the deterministic replay envelope and a
// rate-limited, async event recorder for the simulation core.
package replay

import (
	"encoding/json"
	"fmt"
	"io"

	"antares/internal/sim"
)

// Envelope is a complete recorded match: the seed and scenario chapter
// that produced it, plus the exact per-tick input stream. Replaying an
// Envelope through sim.Load + sim.SimulationStep reproduces the
// original run bit-for-bit, since the simulation core's only inputs
// are the seed and the input stream.
type Envelope struct {
	Seed      uint32           `json:"seed"`
	ChapterID uint16           `json:"chapter_id"`
	Frames    []sim.InputFrame `json:"frames"`
}

// WriteJSON serializes the envelope as a single JSON document.
func (e *Envelope) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(e)
}

// ReadEnvelope deserializes an envelope previously written by WriteJSON.
func ReadEnvelope(r io.Reader) (*Envelope, error) {
	var e Envelope
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return nil, fmt.Errorf("replay: decode envelope: %w", err)
	}
	return &e, nil
}

// Source feeds a Session one InputFrame per tick, in recorded order.
// It exists so a replaying caller and a live caller share the same tick
// loop shape: both step the session with whatever Source.Next returns.
type Source struct {
	envelope *Envelope
	cursor   int
}

// NewSource wraps an envelope for sequential playback.
func NewSource(e *Envelope) *Source {
	return &Source{envelope: e}
}

// Next returns the next recorded frame, or the zero frame and false
// once the envelope is exhausted.
func (s *Source) Next() (sim.InputFrame, bool) {
	if s.cursor >= len(s.envelope.Frames) {
		return sim.InputFrame{}, false
	}
	f := s.envelope.Frames[s.cursor]
	s.cursor++
	return f, true
}

// Len reports the total number of recorded frames.
func (s *Source) Len() int {
	return len(s.envelope.Frames)
}

// Recorder appends InputFrames to a growing Envelope as a live session
// consumes them, so a live run can be saved as a replayable Envelope
// afterward.
type Recorder struct {
	envelope Envelope
}

// NewRecorder starts a fresh recording at the given seed/chapter.
func NewRecorder(seed uint32, chapterID uint16) *Recorder {
	return &Recorder{envelope: Envelope{Seed: seed, ChapterID: chapterID}}
}

// Record appends one tick's input frame.
func (r *Recorder) Record(f sim.InputFrame) {
	r.envelope.Frames = append(r.envelope.Frames, f)
}

// Envelope returns the recording accumulated so far.
func (r *Recorder) Envelope() *Envelope {
	return &r.envelope
}
