package sim

import (
	"fmt"
	"log"

	"antares/internal/sim/spatial"
)

// TickMicros is the fixed tick duration.
const TickMicros = 16667

// TicksPerMajorTick is the number of minor ticks per major tick.
const TicksPerMajorTick = 3

// ConditionTickInterval is how often the condition evaluator runs, in
// ticks: kConditionTick = 90.
const ConditionTickInterval = 90

// TicksPerSecond defines "one game second".
const TicksPerSecond = 60

// InputFrame is one tick's worth of player/replay input.
type InputFrame struct {
	KeysDown       uint32
	HasSelection   bool
	SelectionID    int32
	HasMouseClick  bool
	MouseH, MouseV int32
}

// UIEvent reports a presentation request emitted this tick: a sound,
// sparks, a color flash, a zoom change, or a computer selection.
type UIEvent struct {
	Kind    string
	IntArg  int32
	StrArg  string
}

// StepOutcome is the result of one SimulationStep call.
type StepOutcome struct {
	GameOver  bool
	Winner    int32
	NextLevel bool
	Messages  []string
	UIEvents  []UIEvent
}

// Session is the single owned simulation value. Load
// produces it, SimulationStep mutates it; there is no teardown beyond
// letting it be garbage collected.
type Session struct {
	Arena *Arena
	Beams *BeamTable
	Queue *ActionQueue
	Grid  *ProximityGrid
	RNG   *RNG

	Admirals []Admiral

	Scenario *Scenario

	Tick int64 // absolute tick counter since Load

	conditionsLatched []bool

	pendingMessages []string
	pendingUIEvents []UIEvent
	pendingGameOver bool
	pendingWinner   int32
	conditionDirty  bool

	playerHandle Handle // the local player's ship, if any

	// fireOrigin is the rotated barrel offset for the weapon fire in
	// progress, consulted by VerbCreateObject/VerbActivatePulse/Beam so
	// spawned projectiles originate at the barrel, not the firer's
	// center.
	fireOrigin UniverseCoord

	leaderboard *spatial.SkipList // admirals ranked by Score, see leaderboard.go
}

// Load constructs arena, admirals, conditions, and initial objects from a
// scenario, and primes the RNG from global_seed.
// Deterministic: two Loads of the same scenario+seed produce byte-for-byte
// identical initial state.
func Load(scenario *Scenario, globalSeed uint32) (*Session, error) {
	if scenario == nil {
		return nil, fmt.Errorf("antares: load: scenario is nil")
	}
	if err := scenario.validate(); err != nil {
		return nil, fmt.Errorf("antares: load: %w", err)
	}

	s := &Session{
		Arena:             NewArena(),
		Beams:             NewBeamTable(),
		Queue:             NewActionQueue(),
		Grid:              NewProximityGrid(),
		RNG:               NewRNG(globalSeed),
		Scenario:          scenario,
		conditionsLatched: make([]bool, len(scenario.Conditions)),
		leaderboard:       spatial.NewSkipList(globalSeed),
	}
	s.Admirals = append([]Admiral{}, scenario.Admirals...)
	for i := range s.Admirals {
		s.leaderboard.Insert(admiralKey(s.Admirals[i].ID), float64(s.Admirals[i].Score))
	}

	for i := range scenario.Conditions {
		c := &scenario.Conditions[i]
		if c.InitiallyTrue {
			s.conditionsLatched[i] = true
		}
	}

	scenario.initialHandles = make([]Handle, len(scenario.InitialObjects))
	for idx, init := range scenario.InitialObjects {
		base, ok := scenario.BaseObjects[init.BaseTypeID]
		if !ok {
			return nil, fmt.Errorf("antares: load: unknown base type id %d in initial object list", init.BaseTypeID)
		}
		seed := uint32(s.RNG.Next(1 << 30))
		h, ok := s.Arena.Create(base, seed)
		if !ok {
			return nil, fmt.Errorf("antares: load: arena exhausted seating initial objects (scenario requires %d)", len(scenario.InitialObjects))
		}
		scenario.initialHandles[idx] = h
		o := s.Arena.Get(h)
		o.Location = init.Location
		o.Direction = init.Direction
		o.Owner = init.Owner
		o.MaxVelocity = base.MaxVelocity
		o.ShapeFrame = FromLong(base.FirstShape)
		for wi, wd := range base.Weapons {
			if wd != nil {
				o.Weapons[wi] = Weapon{Base: wd, Ammo: wd.Ammo}
			}
		}
		s.ExecuteActions(base.Actions.Create, o, o, true)
		if init.IsPlayer {
			s.playerHandle = h
		}
	}

	log.Printf("antares: scenario %q loaded: %d initial objects, %d admirals", scenario.Name, len(scenario.InitialObjects), len(s.Admirals))
	return s, nil
}

// SimulationStep runs one tick of the simulation.
func (s *Session) SimulationStep(input InputFrame) StepOutcome {
	s.pendingMessages = nil
	s.pendingUIEvents = nil
	s.conditionDirty = false

	s.applyInput(input)

	s.stepMotion()

	isMajorTick := s.Tick%int64(TicksPerMajorTick) == 0

	if isMajorTick {
		s.Grid.Rebuild(s.Arena)
		s.runCollisions()
		s.aiThinkAll()
		s.weaponsRechargeAndFireAll()
		s.dispatchActionQueue()
		s.ageAndExpireSweep()
	}

	if s.Tick%int64(ConditionTickInterval) == 0 {
		s.evaluateConditions()
	}

	s.Beams.Sweep()
	s.Arena.Sweep(s.Beams.Kill)

	s.Tick++

	return StepOutcome{
		GameOver:  s.pendingGameOver,
		Winner:    s.pendingWinner,
		NextLevel: false,
		Messages:  s.pendingMessages,
		UIEvents:  s.pendingUIEvents,
	}
}

func (s *Session) applyInput(input InputFrame) {
	if o := s.Arena.Get(s.playerHandle); o != nil {
		o.KeysDown = input.KeysDown
		if input.HasSelection {
			sel := Handle{Slot: input.SelectionID}
			if sel.Slot >= 0 && sel.Slot < MaxSpaceObjects {
				sel.ID = s.Arena.Slot(sel.Slot).ID
			}
			o.Target = sel
		}
	}
}

func (s *Session) emitMessage(msg string) {
	s.pendingMessages = append(s.pendingMessages, msg)
}

func (s *Session) emitUIEvent(e UIEvent) {
	s.pendingUIEvents = append(s.pendingUIEvents, e)
}

// ageAndExpireSweep counts up the age of each active object that has an
// ExpireAfter lifetime and destroys those whose age has reached it.
func (s *Session) ageAndExpireSweep() {
	for cur := s.Arena.ActiveHead(); cur != -1; {
		o := s.Arena.Slot(cur)
		next := o.Next
		if o.ExpireAfter > 0 {
			o.Age++
			if o.Age >= o.ExpireAfter {
				s.ExecuteActions(o.Base.Actions.Expire, o, o, true)
				s.destroyObject(o)
			}
		}
		cur = next
	}
}

// destroyObject runs the base type's destroy action, possibly spills
// energy, releases any owned destination, and marks ToBeFreed.
func (s *Session) destroyObject(o *SpaceObject) {
	s.ExecuteActions(o.Base.Actions.Destroy, o, o, true)
	if o.Base.Attrs&ReleaseEnergyOnDeath != 0 {
		spawnEnergyPod(s, o)
		s.releaseEnergy(o)
	}
	o.HasDest = false
	s.Arena.Destroy(Handle{Slot: o.Slot, ID: o.ID})
}

func (s *Session) releaseEnergy(o *SpaceObject) {
	if o.Energy > 0 && o.Owner >= 0 && int(o.Owner) < len(s.Admirals) {
		s.Admirals[o.Owner].Cash += int64(o.Energy)
	}
}
