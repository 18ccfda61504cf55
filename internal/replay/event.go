package replay

import (
	"encoding/json"
	"time"
)

// EventType classifies a recorded event.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventTickBoundary
	EventObjectDestroyed
	EventObjectHit
	EventAdmiralScoreChanged
	EventGameOver
	EventUIMessage
)

// EventVersion lets an older replay file be read by a newer build.
const EventVersion uint8 = 1

// Event is one recorded occurrence in the event stream, schema-versioned
// and timestamped for offline tooling (not consulted by the
// deterministic replay path itself, which only needs Envelope.Frames).
type Event struct {
	Version   uint8     `json:"version"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Sequence  uint64    `json:"sequence"`
	Tick      int64     `json:"tick"`
	Payload   []byte    `json:"payload"`
}

func (t EventType) String() string {
	switch t {
	case EventTickBoundary:
		return "tick_boundary"
	case EventObjectDestroyed:
		return "object_destroyed"
	case EventObjectHit:
		return "object_hit"
	case EventAdmiralScoreChanged:
		return "admiral_score_changed"
	case EventGameOver:
		return "game_over"
	case EventUIMessage:
		return "ui_message"
	default:
		return "unknown"
	}
}

// DestroyedPayload records an object's destruction.
type DestroyedPayload struct {
	Slot   int32 `json:"slot"`
	BaseID int32 `json:"base_id"`
	Owner  int32 `json:"owner"`
}

// HitPayload records one damage application.
type HitPayload struct {
	VictimSlot   int32 `json:"victim_slot"`
	AttackerSlot int32 `json:"attacker_slot"`
	Damage       int32 `json:"damage"`
	VictimHealth int32 `json:"victim_health"`
}

// ScorePayload records an admiral's score changing.
type ScorePayload struct {
	AdmiralID int32 `json:"admiral_id"`
	Score     int64 `json:"score"`
}

// encodePayload marshals a payload to JSON, or nil on failure (the
// event is still emitted with an empty payload rather than dropped).
func encodePayload(payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent builds an Event stamped with the current time.
func NewEvent(eventType EventType, tick int64, payload any) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		Tick:      tick,
		Payload:   encodePayload(payload),
	}
}
