package sim

import (
	"sync/atomic"
	"time"
)

// SnapshotLimits caps how many objects/beams/messages a Snapshot can
// carry, so a pathological tick can never make the read side allocate
// unboundedly.
type SnapshotLimits struct {
	MaxObjects  int
	MaxBeams    int
	MaxMessages int
	MaxUIEvents int
}

// DefaultSnapshotLimits sizes objects and beams to exactly
// MaxSpaceObjects/MaxBeams.
var DefaultSnapshotLimits = SnapshotLimits{
	MaxObjects:  MaxSpaceObjects,
	MaxBeams:    MaxBeams,
	MaxMessages: 32,
	MaxUIEvents: 32,
}

// ObjectSnapshot is an immutable, value-typed copy of one SpaceObject's
// externally relevant fields, safe to read after the tick that produced
// it has moved on.
type ObjectSnapshot struct {
	Slot      int32
	ID        uint16
	BaseID    int32
	Owner     int32
	Location  UniverseCoord
	Direction Angle
	Velocity  FixedVec
	Health    int32
	MaxHealth int32
	Energy    int32
	MaxEnergy int32
	ShapeFrame Fixed
	Presence  PresenceTag
	Flags     RuntimeFlags
	HitState  int32
	CloakState int32
}

// BeamSnapshot is an immutable copy of one Beam's externally relevant
// fields.
type BeamSnapshot struct {
	Kind    BeamKind
	Color   int32
	From    UniverseCoord
	To      UniverseCoord
}

// Snapshot is a complete, read-only view of one simulated tick. All
// slices are pre-allocated and capped by
// SnapshotLimits; nothing in it aliases live session state.
type Snapshot struct {
	Sequence   uint64
	Timestamp  time.Time
	Tick       int64

	Objects []ObjectSnapshot
	Beams   []BeamSnapshot

	Messages []string
	UIEvents []UIEvent

	GameOver bool
	Winner   int32
}

// SnapshotPool triple-buffers Snapshot values so a consumer (an API
// handler, a replay writer) never blocks the producer (the tick loop).
// AcquireRead hands out a pointer into the pool: a consumer that is done
// with it before the producer's third following AcquireWrite never races
// it, while one that holds it longer can see the buffer rewritten.
type SnapshotPool struct {
	buf      [3]Snapshot
	limits   SnapshotLimits
	writeIdx uint32
	readIdx  uint32
	sequence uint64
}

// NewSnapshotPool constructs a pool with every buffer's slices
// pre-allocated to limits' capacities.
func NewSnapshotPool(limits SnapshotLimits) *SnapshotPool {
	p := &SnapshotPool{limits: limits}
	for i := range p.buf {
		p.buf[i] = Snapshot{
			Objects:  make([]ObjectSnapshot, 0, limits.MaxObjects),
			Beams:    make([]BeamSnapshot, 0, limits.MaxBeams),
			Messages: make([]string, 0, limits.MaxMessages),
			UIEvents: make([]UIEvent, 0, limits.MaxUIEvents),
		}
	}
	return p
}

// AcquireWrite returns the next write slot, with slices reset to
// length zero but capacity retained.
func (p *SnapshotPool) AcquireWrite() *Snapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.buf[idx]
	snap.Objects = snap.Objects[:0]
	snap.Beams = snap.Beams[:0]
	snap.Messages = snap.Messages[:0]
	snap.UIEvents = snap.UIEvents[:0]
	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite makes the most recently acquired write slot visible to
// readers.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest published snapshot.
func (p *SnapshotPool) AcquireRead() *Snapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.buf[idx]
}

// Fill populates snap from the session's current state, truncating at
// the pool's configured limits rather than growing past them.
func (s *Session) Fill(snap *Snapshot, limits SnapshotLimits) {
	snap.Tick = s.Tick
	snap.GameOver = s.pendingGameOver
	snap.Winner = s.pendingWinner

	for cur := s.Arena.ActiveHead(); cur != -1 && len(snap.Objects) < limits.MaxObjects; {
		o := s.Arena.Slot(cur)
		baseID := int32(-1)
		if o.Base != nil {
			baseID = o.Base.ID
		}
		snap.Objects = append(snap.Objects, ObjectSnapshot{
			Slot: o.Slot, ID: o.ID, BaseID: baseID, Owner: o.Owner,
			Location: o.Location, Direction: o.Direction, Velocity: o.Velocity,
			Health: o.Health, MaxHealth: o.MaxHealth,
			Energy: o.Energy, MaxEnergy: o.MaxEnergy,
			ShapeFrame: o.ShapeFrame, Presence: o.Presence.Tag, Flags: o.Flags,
			HitState: o.HitState, CloakState: o.CloakState,
		})
		cur = o.Next
	}

	for i := range s.Beams.beams {
		if len(snap.Beams) >= limits.MaxBeams {
			break
		}
		b := &s.Beams.beams[i]
		if !b.Active {
			continue
		}
		snap.Beams = append(snap.Beams, BeamSnapshot{
			Kind: b.Kind, Color: b.Color, From: b.ObjectLocation, To: b.LastGlobalLoc,
		})
	}

	for _, m := range s.pendingMessages {
		if len(snap.Messages) >= limits.MaxMessages {
			break
		}
		snap.Messages = append(snap.Messages, m)
	}
	for _, e := range s.pendingUIEvents {
		if len(snap.UIEvents) >= limits.MaxUIEvents {
			break
		}
		snap.UIEvents = append(snap.UIEvents, e)
	}
}
