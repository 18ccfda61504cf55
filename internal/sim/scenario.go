package sim

import "fmt"

// InitialObject describes a pre-placed object in a scenario.
type InitialObject struct {
	BaseTypeID   int32
	Location     UniverseCoord
	Owner        int32
	CanBuild     []int32
	SpriteID     int32
	DestIndex    int32
	HasDest      bool
	Attrs        Attr
	IsPlayer     bool
	Direction    Angle
}

// ConditionPredicate enumerates every condition predicate.
type ConditionPredicate uint8

const (
	CondCounterEQ ConditionPredicate = iota
	CondCounterGE
	CondCounterNE
	CondDestruction
	CondOwner
	CondTime
	CondProximity
	CondDistanceGreater
	CondHalfHealth
	CondIsAuxiliary
	CondIsTarget
	CondVelocityLE
	CondNoShipsLeft
	CondCurrentMessage
	CondCurrentComputer
	CondZoomLevel
	CondAutopilot
	CondNotAutopilot
	CondObjectIsBeingBuilt
	CondDirectIsSubjectTarget
	CondSubjectIsPlayer
)

// Condition is a scenario-level predicate + action list pair.
type Condition struct {
	Predicate ConditionPredicate
	Amount    int64
	AdmiralID int32

	SubjectInitial int32 // index into InitialObjects, -1 == none
	DirectInitial  int32

	Actions []Action

	TrueOnlyOnce  bool
	InitiallyTrue bool
}

// Scenario is the read-only-after-load world description consumed by
// Load.
type Scenario struct {
	Name           string
	BaseObjects    map[int32]*BaseObject
	InitialObjects []InitialObject
	Conditions     []Condition
	Admirals       []Admiral

	// initialHandles is filled in by Load, mapping InitialObjects index
	// to the live handle it was seated at, for condition subject/direct
	// resolution.
	initialHandles []Handle
}

// validate checks the scenario for the fatal-at-load error kinds named
// in : missing base types referenced by initial objects, and the
// baseline tables required for warp/energy/player mechanics to function.
func (sc *Scenario) validate() error {
	if len(sc.BaseObjects) == 0 {
		return fmt.Errorf("scenario has no base object table")
	}
	for i, init := range sc.InitialObjects {
		if _, ok := sc.BaseObjects[init.BaseTypeID]; !ok {
			return fmt.Errorf("initial object %d references unknown base type id %d", i, init.BaseTypeID)
		}
	}
	hasPlayerBody := false
	for _, b := range sc.BaseObjects {
		if b.Attrs&IsHumanControlled != 0 {
			hasPlayerBody = true
		}
	}
	if !hasPlayerBody {
		return fmt.Errorf("scenario base object table has no player body base type")
	}
	if len(sc.Admirals) == 0 {
		return fmt.Errorf("scenario defines no admirals")
	}

	needsWarpFlare := false
	needsEnergyBlob := false
	for _, b := range sc.BaseObjects {
		if b.WarpSpeed > 0 {
			needsWarpFlare = true
		}
		if b.Attrs&ReleaseEnergyOnDeath != 0 {
			needsEnergyBlob = true
		}
	}
	if needsWarpFlare {
		if _, ok := sc.BaseObjects[warpFlareBaseTypeID]; !ok {
			return fmt.Errorf("scenario has a warp-capable base type but no warp flare base type (id %d)", warpFlareBaseTypeID)
		}
	}
	if needsEnergyBlob {
		if _, ok := sc.BaseObjects[energyBlobBaseTypeID]; !ok {
			return fmt.Errorf("scenario has a ReleaseEnergyOnDeath base type but no energy blob base type (id %d)", energyBlobBaseTypeID)
		}
	}
	return nil
}
