package sim

// Warp-in progress values that emit a sound step, and the value that
// completes WarpIn.
const (
	warpInStep1 = 25
	warpInStep2 = 50
	warpInStep3 = 75
	warpInComplete = 100
)

const keyWarp uint32 = 1 << 7

// stepPresence advances o's presence state machine by one tick.
// Called before the rest of motion so a transition this tick (e.g. into
// Warping, clearing OccupiesSpace) is visible to the same tick's thrust
// cap and bounds checks.
func (s *Session) stepPresence(o *SpaceObject) {
	switch o.Presence.Tag {
	case PresenceNormal:
		s.presenceNormal(o)
	case PresenceWarpIn:
		s.presenceWarpIn(o)
	case PresenceWarping:
		s.presenceWarping(o)
	case PresenceWarpOut:
		s.presenceWarpOut(o)
	case PresenceLanding:
		s.presenceLanding(o)
	}
}

func (s *Session) presenceNormal(o *SpaceObject) {
	o.MaxVelocity = o.Base.MaxVelocity
	if o.KeysDown&keyWarp != 0 && o.Base.WarpSpeed > 0 && o.Energy > o.MaxEnergy>>3 {
		o.Presence = Presence{Tag: PresenceWarpIn}
	}
}

func (s *Session) presenceWarpIn(o *SpaceObject) {
	o.Presence.WarpInProgress++
	p := o.Presence.WarpInProgress
	if p == warpInStep1 || p == warpInStep2 || p == warpInStep3 {
		s.emitUIEvent(UIEvent{Kind: "sound", StrArg: "warp-in-step"})
	}
	if p >= warpInComplete {
		cost := int32(o.MaxEnergy >> 3)
		if s.debitEnergy(o, cost) {
			o.Presence = Presence{Tag: PresenceWarping, Speed: o.Base.WarpSpeed}
			o.Base = cloneWithoutOccupiesSpace(o.Base)
			spawnWarpFlare(s, o, "warp-in")
		} else {
			o.Energy = 0
			o.Presence = Presence{Tag: PresenceNormal}
		}
	}
}

func (s *Session) presenceWarping(o *SpaceObject) {
	o.MaxVelocity = o.Presence.Speed
	o.Energy = collectWarpEnergy(o, 1)
	if o.Energy <= 0 {
		o.Presence.Tag = PresenceWarpOut
		return
	}
	target := s.Arena.Get(o.Target)
	if target != nil && o.Base.Attrs&CanThink != 0 {
		distSq := DistanceSquared(o.Location, target.Location)
		if distSq >= o.Base.WarpOutDistanceSq || target.Presence.Tag == PresenceWarping {
			o.KeysDown |= keyWarp
		}
	}
}

func (s *Session) presenceWarpOut(o *SpaceObject) {
	o.Presence.Speed -= kWarpAcceleration
	if o.Presence.Speed < o.Base.MaxVelocity {
		if orig, ok := s.Scenario.BaseObjects[o.Base.ID]; ok {
			o.Base = orig // drop the warp-time copy, restoring OccupiesSpace
		}
		s.creditCash(o.Owner, 0) // warp-energy refund path; battery credited directly below
		o.Battery += int32(o.MaxEnergy >> 3)
		uh, uv := UnitVector(o.Direction)
		o.Velocity.H = MulFixed(uh, o.Base.MaxVelocity)
		o.Velocity.V = MulFixed(uv, o.Base.MaxVelocity)
		spawnWarpFlare(s, o, "warp-out")
		o.Presence = Presence{Tag: PresenceNormal}
	}
}

func (s *Session) presenceLanding(o *SpaceObject) {
	o.Presence.LandingScale -= o.Presence.LandingSpeed
	if o.Presence.LandingScale <= 0 {
		s.ExecuteActions(o.Base.Actions.Expire, o, o, true)
		s.Arena.Destroy(Handle{Slot: o.Slot, ID: o.ID})
	}
}

// collectWarpEnergy drains n units of warp energy, from energy first,
// then battery, returning the remaining energy.
func collectWarpEnergy(o *SpaceObject, n int32) int32 {
	if o.Energy >= n {
		return o.Energy - n
	}
	remaining := n - o.Energy
	o.Battery -= remaining
	if o.Battery < 0 {
		o.Battery = 0
	}
	return 0
}

// debitEnergy attempts to pay cost from energy, then battery, returning
// false (no mutation) if neither can cover it.
func (s *Session) debitEnergy(o *SpaceObject, cost int32) bool {
	if o.Energy >= cost {
		o.Energy -= cost
		return true
	}
	total := o.Energy + o.Battery
	if total < cost {
		return false
	}
	remaining := cost - o.Energy
	o.Energy = 0
	o.Battery -= remaining
	return true
}

// cloneWithoutOccupiesSpace returns a BaseObject view with OccupiesSpace
// cleared, used transiently while warping. Base types are immutable and
// shared, so entering warp stamps a private copy onto the object rather
// than mutating the shared table.
func cloneWithoutOccupiesSpace(b *BaseObject) *BaseObject {
	cp := *b
	cp.Attrs &^= OccupiesSpace
	return &cp
}

func spawnWarpFlare(s *Session, o *SpaceObject, _ string) {
	flareBase, ok := s.Scenario.BaseObjects[warpFlareBaseTypeID]
	if !ok {
		return
	}
	seed := uint32(s.RNG.Next(1 << 30))
	h, ok := s.Arena.Create(flareBase, seed)
	if !ok {
		return
	}
	flare := s.Arena.Get(h)
	flare.Location = o.Location
	flare.Owner = o.Owner
}

// warpFlareBaseTypeID is the scenario-table id a scenario's base object
// table must define for warp-in/out flares to spawn.
const warpFlareBaseTypeID int32 = -1000

// energyBlobBaseTypeID is the scenario-table id for the energy pod a
// ReleaseEnergyOnDeath object spawns on destruction.
const energyBlobBaseTypeID int32 = -1001

func spawnEnergyPod(s *Session, o *SpaceObject) {
	base, ok := s.Scenario.BaseObjects[energyBlobBaseTypeID]
	if !ok {
		return
	}
	seed := uint32(s.RNG.Next(1 << 30))
	h, ok := s.Arena.Create(base, seed)
	if !ok {
		return
	}
	pod := s.Arena.Get(h)
	pod.Location = o.Location
	pod.Energy = o.Energy
	pod.MaxEnergy = o.Energy
}
