package sim

// DefaultScenario builds a small, self-contained scenario: one
// human-controlled flagship and a handful of AI-owned drones that hunt
// it down, seated around the center of the universe. It exists so
// cmd/antares has something to Load without requiring an external
// scenario file format, and so tests have a known-good scenario to
// exercise Load/SimulationStep against.
func DefaultScenario() *Scenario {
	const (
		flagshipTypeID = 1
		droneTypeID    = 2

		humanAdmiralID = 0
		aiAdmiralID    = 1
	)

	flagship := &BaseObject{
		ID:            flagshipTypeID,
		Attrs:         CanTurn | CanCollide | CanBeHit | OccupiesSpace | IsHumanControlled | AutoTargetAttr,
		Mass:          FromLong(8),
		MaxVelocity:   FromLong(6),
		Thrust:        FromLong(1),
		MaxHealth:     200,
		MaxEnergy:     200,
		CollideDamage: 10,
		FirstShape:    0,
		LastShape:     0,
		EngageRange:   DistanceUnit * DistanceUnit * 20,
		Weapons: [3]*WeaponDevice{
			{
				EnergyCost:   4,
				FireTime:     6,
				Damage:       12,
				RangeSquared: DistanceUnit * DistanceUnit * 16,
				Ammo:         -1,
				Usage:        WeaponUsage{Attacking: true},
			},
		},
	}

	drone := &BaseObject{
		ID:            droneTypeID,
		Attrs:         CanThink | CanTurn | CanCollide | CanBeHit | OccupiesSpace | Hated | AutoTargetAttr,
		Mass:          FromLong(4),
		MaxVelocity:   FromLong(4),
		Thrust:        FromLong(1),
		MaxHealth:     40,
		MaxEnergy:     40,
		CollideDamage: 8,
		FirstShape:    0,
		LastShape:     0,
		SkillNum:      1,
		SkillDen:      2,
		EngageRange:   DistanceUnit * DistanceUnit * 24,
	}

	baseObjects := map[int32]*BaseObject{
		flagshipTypeID: flagship,
		droneTypeID:    drone,
	}

	initial := []InitialObject{
		{BaseTypeID: flagshipTypeID, Location: UniverseCoord{H: UniverseCenter, V: UniverseCenter}, Owner: humanAdmiralID, IsPlayer: true},
		{BaseTypeID: droneTypeID, Location: UniverseCoord{H: UniverseCenter + 4000, V: UniverseCenter}, Owner: aiAdmiralID, Direction: 180},
		{BaseTypeID: droneTypeID, Location: UniverseCoord{H: UniverseCenter - 4000, V: UniverseCenter + 2000}, Owner: aiAdmiralID, Direction: 0},
		{BaseTypeID: droneTypeID, Location: UniverseCoord{H: UniverseCenter, V: UniverseCenter - 4000}, Owner: aiAdmiralID, Direction: 90},
	}

	return &Scenario{
		Name:           "default",
		BaseObjects:    baseObjects,
		InitialObjects: initial,
		Admirals: []Admiral{
			{ID: humanAdmiralID, Name: "Flagship Admiral", IsHuman: true},
			{ID: aiAdmiralID, Name: "Drone Swarm", IsHuman: false},
		},
	}
}

// DistanceUnit is one arbitrary unit of universe distance, used to keep
// DefaultScenario's range figures legible as "N units" rather than raw
// squared constants.
const DistanceUnit = 1000
