package sim

// BeamKind is the beam's polymorphic discriminant.
type BeamKind uint8

const (
	BeamKinetic BeamKind = iota
	BeamStaticObjectToObject
	BeamStaticObjectToRelativeCoord
	BeamBoltObjectToObject
	BeamBoltObjectToRelativeCoord
)

// Beam is a lightweight line-shaped weapon/effect, referenced by an
// object via handle. Beams live in their own fixed-capacity table;
// updating them is part of motion.
type Beam struct {
	Slot   int32
	ID     uint16
	Active bool

	Kind  BeamKind
	Color int32

	From, To         Handle
	ToRelativeCoord  UniverseCoord
	ObjectLocation   UniverseCoord // the hosting object's current location
	LastGlobalLoc    UniverseCoord // location one tick ago, for the clip segment

	BoltCycleTimer int32
	BoltState      int32
	JitterPoints   []UniverseCoord

	KillMe bool
}

// BeamTable is the fixed-capacity beam slab.
type BeamTable struct {
	beams    [MaxBeams]Beam
	freeHint int32
}

// NewBeamTable constructs an empty beam table.
func NewBeamTable() *BeamTable {
	t := &BeamTable{}
	for i := range t.beams {
		t.beams[i].Slot = int32(i)
	}
	return t
}

// Get resolves a beam handle, or nil if stale.
func (t *BeamTable) Get(h Handle) *Beam {
	if h.Slot < 0 || h.Slot >= MaxBeams {
		return nil
	}
	b := &t.beams[h.Slot]
	if !b.Active || b.ID != h.ID {
		return nil
	}
	return b
}

// Create allocates a beam, first-fit lowest index.
func (t *BeamTable) Create(kind BeamKind) (Handle, bool) {
	for i := t.freeHint; i < MaxBeams; i++ {
		if !t.beams[i].Active {
			return t.init(i, kind), true
		}
	}
	for i := int32(0); i < t.freeHint; i++ {
		if !t.beams[i].Active {
			return t.init(i, kind), true
		}
	}
	return Handle{}, false
}

func (t *BeamTable) init(i int32, kind BeamKind) Handle {
	b := &t.beams[i]
	newID := b.ID + 1
	if newID == 0 {
		newID = 1
	}
	*b = Beam{Slot: i, ID: newID, Active: true, Kind: kind}
	t.freeHint = i
	return Handle{Slot: i, ID: newID}
}

// Kill flags a beam for culling, e.g. when its hosting object dies.
func (t *BeamTable) Kill(h Handle) {
	if b := t.Get(h); b != nil {
		b.KillMe = true
	}
}

// Sweep frees every KillMe beam.
func (t *BeamTable) Sweep() {
	for i := range t.beams {
		if t.beams[i].Active && t.beams[i].KillMe {
			t.beams[i].Active = false
			if int32(i) < t.freeHint {
				t.freeHint = int32(i)
			}
		}
	}
}
