package sim

import "testing"

func TestLoadDefaultScenario(t *testing.T) {
	session, err := Load(DefaultScenario(), 42)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if session == nil {
		t.Fatal("Load returned nil session")
	}
	if len(session.Admirals) != 2 {
		t.Errorf("expected 2 admirals, got %d", len(session.Admirals))
	}
	if session.Tick != 0 {
		t.Errorf("expected tick 0 at load, got %d", session.Tick)
	}
}

func TestLoadNilScenario(t *testing.T) {
	if _, err := Load(nil, 1); err == nil {
		t.Fatal("expected error loading nil scenario")
	}
}

func TestLoadRejectsUnknownBaseType(t *testing.T) {
	sc := DefaultScenario()
	sc.InitialObjects = append(sc.InitialObjects, InitialObject{BaseTypeID: 999})
	if _, err := Load(sc, 1); err == nil {
		t.Fatal("expected error loading initial object with unknown base type")
	}
}

func TestSimulationStepAdvancesTick(t *testing.T) {
	session, err := Load(DefaultScenario(), 7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := 0; i < 10; i++ {
		session.SimulationStep(InputFrame{})
	}
	if session.Tick != 10 {
		t.Errorf("expected tick 10 after 10 steps, got %d", session.Tick)
	}
}

func TestSimulationStepDeterministic(t *testing.T) {
	a, err := Load(DefaultScenario(), 99)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := Load(DefaultScenario(), 99)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var limits = DefaultSnapshotLimits
	snapA := &Snapshot{
		Objects: make([]ObjectSnapshot, 0, limits.MaxObjects),
		Beams:   make([]BeamSnapshot, 0, limits.MaxBeams),
	}
	snapB := &Snapshot{
		Objects: make([]ObjectSnapshot, 0, limits.MaxObjects),
		Beams:   make([]BeamSnapshot, 0, limits.MaxBeams),
	}

	for i := 0; i < 300; i++ {
		a.SimulationStep(InputFrame{})
		b.SimulationStep(InputFrame{})
	}
	a.Fill(snapA, limits)
	b.Fill(snapB, limits)

	if len(snapA.Objects) != len(snapB.Objects) {
		t.Fatalf("object count diverged: %d vs %d", len(snapA.Objects), len(snapB.Objects))
	}
	for i := range snapA.Objects {
		if snapA.Objects[i] != snapB.Objects[i] {
			t.Fatalf("object %d diverged between identically-seeded runs: %+v vs %+v", i, snapA.Objects[i], snapB.Objects[i])
		}
	}
}

func TestAdmiralByID(t *testing.T) {
	session, err := Load(DefaultScenario(), 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := session.AdmiralByID(0); err != nil {
		t.Errorf("expected admiral 0 to exist: %v", err)
	}
	if _, err := session.AdmiralByID(999); err == nil {
		t.Error("expected error for unknown admiral id")
	}
}
