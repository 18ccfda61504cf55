package sim

// evaluateConditions runs the full condition sweep, resolving each
// condition's subject/direct initial-object indices to their current
// handles, testing the predicate, and firing the action list the first
// time (or every time, depending on TrueOnlyOnce) the predicate holds.
func (s *Session) evaluateConditions() {
	for i := range s.Scenario.Conditions {
		c := &s.Scenario.Conditions[i]
		if c.TrueOnlyOnce && s.conditionsLatched[i] {
			continue
		}
		if s.testCondition(c) {
			if !s.conditionsLatched[i] {
				s.ExecuteActions(c.Actions, s.conditionSubject(c), s.conditionDirect(c), true)
			} else if !c.TrueOnlyOnce {
				s.ExecuteActions(c.Actions, s.conditionSubject(c), s.conditionDirect(c), true)
			}
			s.conditionsLatched[i] = true
		} else if !hasBeenTruePredicate(c.Predicate) {
			s.conditionsLatched[i] = false
		}
	}
	s.conditionDirty = false
}

// hasBeenTruePredicate reports whether a predicate's latch should stick
// once true even if the underlying value later goes false again (the
// HasBeenTrue family), as opposed to re-arming every sweep.
func hasBeenTruePredicate(p ConditionPredicate) bool {
	switch p {
	case CondDestruction, CondNoShipsLeft, CondObjectIsBeingBuilt:
		return true
	default:
		return false
	}
}

func (s *Session) conditionSubject(c *Condition) *SpaceObject {
	if c.SubjectInitial < 0 || int(c.SubjectInitial) >= len(s.Scenario.initialHandles) {
		return nilObject
	}
	return s.resolveOrNil(s.Scenario.initialHandles[c.SubjectInitial])
}

func (s *Session) conditionDirect(c *Condition) *SpaceObject {
	if c.DirectInitial < 0 || int(c.DirectInitial) >= len(s.Scenario.initialHandles) {
		return nilObject
	}
	return s.resolveOrNil(s.Scenario.initialHandles[c.DirectInitial])
}

// testCondition evaluates a single predicate against current session
// state.
func (s *Session) testCondition(c *Condition) bool {
	subject := s.conditionSubject(c)
	direct := s.conditionDirect(c)

	switch c.Predicate {
	case CondCounterEQ:
		return s.admiralScore(c.AdmiralID) == c.Amount
	case CondCounterGE:
		return s.admiralScore(c.AdmiralID) >= c.Amount
	case CondCounterNE:
		return s.admiralScore(c.AdmiralID) != c.Amount
	case CondDestruction:
		return subject == nilObject
	case CondOwner:
		return subject != nilObject && int64(subject.Owner) == c.Amount
	case CondTime:
		return s.Tick >= c.Amount
	case CondProximity:
		if subject == nilObject || direct == nilObject {
			return false
		}
		return DistanceSquared(subject.Location, direct.Location) <= c.Amount
	case CondDistanceGreater:
		if subject == nilObject || direct == nilObject {
			return false
		}
		return DistanceSquared(subject.Location, direct.Location) > c.Amount
	case CondHalfHealth:
		return subject != nilObject && int64(subject.Health) <= int64(subject.MaxHealth)/2
	case CondIsAuxiliary:
		return subject != nilObject && subject.Base != nil && subject.Base.Attrs&OnlyEngagedBy != 0
	case CondIsTarget:
		return subject != nilObject && direct != nilObject && subject.Target.Slot == direct.Slot && subject.Target.ID == direct.ID
	case CondVelocityLE:
		if subject == nilObject {
			return false
		}
		mag := absDistance(subject.Velocity.H, subject.Velocity.V)
		return int64(mag) <= c.Amount
	case CondNoShipsLeft:
		return s.ShipsLeft(c.AdmiralID) == 0
	case CondCurrentMessage:
		return int64(len(s.pendingMessages)) > 0 && c.Amount != 0
	case CondCurrentComputer:
		return subject != nilObject && subject.Base != nil && subject.Base.Attrs&IsHumanControlled == 0
	case CondZoomLevel:
		return false // zoom is a presentation concern the core does not track
	case CondAutopilot:
		return subject != nilObject && subject.Base != nil && subject.Base.Attrs&OnAutoPilot != 0
	case CondNotAutopilot:
		return subject != nilObject && (subject.Base == nil || subject.Base.Attrs&OnAutoPilot == 0)
	case CondObjectIsBeingBuilt:
		return subject != nilObject && subject.PeriodicTime > 0 && int64(subject.PeriodicTime) < c.Amount
	case CondDirectIsSubjectTarget:
		return subject != nilObject && direct != nilObject && direct.Target.Slot == subject.Slot && direct.Target.ID == subject.ID
	case CondSubjectIsPlayer:
		return subject != nilObject && subject.Slot == s.playerHandle.Slot && subject.ID == s.playerHandle.ID
	default:
		return false
	}
}

func (s *Session) admiralScore(admiralID int32) int64 {
	a, err := s.AdmiralByID(admiralID)
	if err != nil {
		return 0
	}
	return a.Score
}
