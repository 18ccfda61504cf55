package sim

// MaxSpaceObjects bounds the arena slab.2 ("a few hundred"); the
// spec names MAX ≈ 250.
const MaxSpaceObjects = 250

// MaxBeams bounds the beam table
const MaxBeams = 64

// ActiveState is a slot's lifecycle state.
type ActiveState uint8

const (
	Available ActiveState = iota
	InUse
	ToBeFreed
)

// Handle addresses a SpaceObject by (slot, id). A handle dereferences to
// a valid object only when the slot's live id matches and the slot is
// InUse; any mismatch resolves to nil.
type Handle struct {
	Slot int32
	ID   uint16
}

// IsZero reports whether h is the zero handle (never assigned).
func (h Handle) IsZero() bool {
	return h.Slot == 0 && h.ID == 0
}

// Attr is the BaseObject attribute bitfield.
type Attr uint32

const (
	CanThink Attr = 1 << iota
	CanTurn
	CanCollide
	CanBeHit
	IsBeamAttr
	IsSelfAnimated
	ShapeFromDirection
	CanAcceptDestination
	IsDestinationAttr
	IsGuided
	OccupiesSpace
	Hated
	AutoTargetAttr
	ReleaseEnergyOnDeath
	NeutralDeath
	AnimationCycle
	OnAutoPilot
	HasDirectionGoal
	ConsiderDistance
	CanBeEvaded
	IsHumanControlled
	IsRemote
	DoesBounce
	HideEffect
	CanOnlyEngage
	OnlyEngagedBy
)

// ConsiderDistanceMask is the set of attributes that make an object
// insert itself into the proximity grids.
const ConsiderDistanceMask = CanCollide | CanBeHit | IsDestinationAttr | CanThink |
	ConsiderDistance | CanBeEvaded | IsHumanControlled | IsRemote

// WeaponUsage describes what a weapon slot is used for.
type WeaponUsage struct {
	Attacking bool
}

// WeaponDevice is an immutable weapon descriptor shared by many objects
// (indexed from BaseObject's weapon slot handles).
type WeaponDevice struct {
	EnergyCost   int32
	FireTime     int32 // ticks between shots
	Damage       int32
	RangeSquared int64
	Ammo         int32 // -1 == unlimited
	RestockCost  int32
	Usage        WeaponUsage
	AutoTarget   bool
	Activate     []Action
	Barrels      []UniverseCoord // barrel offsets in object-local space
}

// ActionLists groups the five action lists a BaseObject carries; the
// activate list lives on each WeaponDevice (WeaponDevice.Activate).
type ActionLists struct {
	Destroy []Action
	Expire  []Action
	Create  []Action
	Collide []Action
	Arrive  []Action
}

// BaseObject is an immutable type descriptor shared by many SpaceObject
// instances.
type BaseObject struct {
	ID    int32
	Attrs Attr

	Mass             Fixed
	MaxVelocity      Fixed
	Thrust           Fixed
	MaxHealth        int32
	MaxEnergy        int32
	InitialVelocity  Fixed
	InitialVelRange  Fixed
	InitialDirection Angle
	InitialDirRange  Angle
	InitialAge       int32
	InitialAgeRange  int32
	NaturalScale     Fixed

	FirstShape, LastShape int32
	FrameSpeed            Fixed
	FrameDirection         int32

	Weapons [3]*WeaponDevice // pulse, beam, special

	// CollideDamage is the ramming/collide damage this base type's
	// collide action inflicts on a hit victim.
	CollideDamage int32

	ArriveDistanceSquared int64
	WarpSpeed             Fixed
	WarpOutDistanceSq     int64

	BuildFlags     uint32
	SkillNum       int32
	SkillDen       int32
	EngageRange    int64 // squared

	Actions ActionLists
}

// Weapon tracks the live, mutable state of one weapon slot on an object.
type Weapon struct {
	Base         *WeaponDevice
	Ammo         int32
	Charge       int32
	BarrelIndex  int
	NextFireTick int64
}

// PresenceTag is the presence-state-machine discriminant.
type PresenceTag uint8

const (
	PresenceNormal PresenceTag = iota
	PresenceWarpIn
	PresenceWarping
	PresenceWarpOut
	PresenceLanding
)

// Presence holds the per-variant state for the five presence states.
type Presence struct {
	Tag PresenceTag

	// WarpIn
	WarpInProgress int32
	WarpInStep     int32

	// Warping / WarpOut share a scalar speed
	Speed Fixed

	// Landing
	LandingScale Fixed
	LandingSpeed Fixed
}

// RuntimeFlags is the per-object boolean bitset.
type RuntimeFlags uint16

const (
	FlagHasArrived RuntimeFlags = 1 << iota
	FlagTargetLocked
	FlagIsCloaked
	FlagIsHidden
	FlagIsTarget
)

// SpaceObject is a live arena entity.
type SpaceObject struct {
	Slot   int32
	ID     uint16
	Active ActiveState

	Base *BaseObject

	Owner int32 // admiral id, -1 == none

	Location      UniverseCoord
	Direction     Angle
	TurnVelocity  Fixed
	TurnFraction  Fixed
	DirectionGoal Angle

	Velocity       FixedVec // Fixed h,v per tick
	MotionFraction FixedVec
	Thrust         Fixed
	MaxVelocity    Fixed

	AbsBoundsMinH, AbsBoundsMinV, AbsBoundsMaxH, AbsBoundsMaxV int32
	BoundsValid                                                bool

	NextNearObject int32 // slot index, -1 == end
	NextFarObject  int32
	CollisionGridH, CollisionGridV int32
	DistanceGridH, DistanceGridV   int32
	Prev, Next                     int32 // active-list links, -1 == none

	Health, MaxHealth int32
	Energy, MaxEnergy int32
	Battery           int32

	Weapons [3]Weapon

	Target             Handle
	ClosestObject      Handle
	ClosestDistanceSq  int64
	TargetAngle        Angle
	LastTargetDistance int64

	DestObject   Handle
	DestLocation UniverseCoord
	HasDest      bool

	Presence Presence
	Flags    RuntimeFlags

	SeenByPlayerFlags uint32
	MyPlayerFlag      uint32
	HitState          int32
	CloakState        int32

	ShapeFrame Fixed
	RotRes     Fixed
	BeamHandle Handle
	HasBeam    bool

	RNG *ObjectRNG

	TimeFromOrigin int64
	OfflineTime    int32
	RechargeTime   int32
	PeriodicTime   int32
	ExpireAfter    int32
	Age            int32

	KeysDown   uint32
	EngageKeyTag uint32
	LevelKeyTag  uint32
}

// Arena is the fixed-capacity slab of space objects.
type Arena struct {
	slots      [MaxSpaceObjects]SpaceObject
	freeHint   int32 // lowest slot index that might be Available
	activeHead int32 // slot index of newest InUse object, -1 == empty
	count      int32
}

// NewArena constructs an empty arena with every slot marked Available.
func NewArena() *Arena {
	a := &Arena{activeHead: -1}
	for i := range a.slots {
		a.slots[i].Slot = int32(i)
		a.slots[i].Active = Available
		a.slots[i].Prev = -1
		a.slots[i].Next = -1
		a.slots[i].NextNearObject = -1
		a.slots[i].NextFarObject = -1
	}
	return a
}

// Count returns the number of InUse objects.
func (a *Arena) Count() int32 {
	return a.count
}

// ActiveHead returns the slot index of the most-recently-created InUse
// object, or -1 if the arena is empty. Iterating via Next walks the
// active list newest-first, matching 's ordering guarantee.
func (a *Arena) ActiveHead() int32 {
	return a.activeHead
}

// Slot returns a pointer to the raw slot storage regardless of state —
// used by internals that need to walk links even through ToBeFreed.
func (a *Arena) Slot(i int32) *SpaceObject {
	return &a.slots[i]
}

// Get resolves a handle to a live object, or nil if stale.
func (a *Arena) Get(h Handle) *SpaceObject {
	if h.Slot < 0 || h.Slot >= MaxSpaceObjects {
		return nil
	}
	o := &a.slots[h.Slot]
	if o.Active != InUse || o.ID != h.ID {
		return nil
	}
	return o
}

// Create scans for the first Available slot by lowest index (never
// lowest age) and initializes it, linking it at the head of the active
// list. Returns the zero handle and false if the arena is full.
func (a *Arena) Create(base *BaseObject, seed uint32) (Handle, bool) {
	for i := a.freeHint; i < MaxSpaceObjects; i++ {
		if a.slots[i].Active == Available {
			a.freeHint = i
			return a.initSlot(i, base, seed), true
		}
	}
	for i := int32(0); i < a.freeHint; i++ {
		if a.slots[i].Active == Available {
			return a.initSlot(i, base, seed), true
		}
	}
	return Handle{}, false
}

func (a *Arena) initSlot(i int32, base *BaseObject, seed uint32) Handle {
	o := &a.slots[i]
	newID := o.ID + 1
	if newID == 0 {
		newID = 1
	}
	*o = SpaceObject{
		Slot:           i,
		ID:             newID,
		Active:         InUse,
		Base:           base,
		Owner:          -1,
		NextNearObject: -1,
		NextFarObject:  -1,
		RNG:            NewObjectRNG(seed),
		MaxHealth:      base.MaxHealth,
		Health:         base.MaxHealth,
		MaxEnergy:      base.MaxEnergy,
		Energy:         base.MaxEnergy,
		MaxVelocity:    base.MaxVelocity,
		Thrust:         base.Thrust,
	}
	// link into active list head
	o.Prev = -1
	o.Next = a.activeHead
	if a.activeHead != -1 {
		a.slots[a.activeHead].Prev = i
	}
	a.activeHead = i
	a.count++
	return Handle{Slot: i, ID: newID}
}

// Destroy marks a live handle ToBeFreed; fields remain readable until
// Sweep.
func (a *Arena) Destroy(h Handle) {
	o := a.Get(h)
	if o == nil {
		return
	}
	o.Active = ToBeFreed
}

// Sweep unlinks and frees every ToBeFreed slot, called once per tick
// after every other phase.
func (a *Arena) Sweep(onBeamKill func(Handle)) {
	cur := a.activeHead
	for cur != -1 {
		o := &a.slots[cur]
		next := o.Next
		if o.Active == ToBeFreed {
			if o.HasBeam && onBeamKill != nil {
				onBeamKill(o.BeamHandle)
			}
			a.unlink(cur)
			o.Active = Available
			o.Owner = -1
			if cur < a.freeHint {
				a.freeHint = cur
			}
			a.count--
		}
		cur = next
	}
}

func (a *Arena) unlink(i int32) {
	o := &a.slots[i]
	if o.Prev != -1 {
		a.slots[o.Prev].Next = o.Next
	} else {
		a.activeHead = o.Next
	}
	if o.Next != -1 {
		a.slots[o.Next].Prev = o.Prev
	}
	o.Prev, o.Next = -1, -1
}
