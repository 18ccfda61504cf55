package sim

const (
	keyUp uint32 = 1 << iota
	keyDown
	keyLeft
	keyRight
	keyPulse
	keyBeam
	keySpecial
	_ // keyWarp is defined in presence.go at bit 7; keep iota aligned
	keyAdoptTarget
	keyAutoPilot
	keyGiveCommand
)

// aiThinkAll runs AI think for every CanThink-or-remote object, newest
// first.
func (s *Session) aiThinkAll() {
	for cur := s.Arena.ActiveHead(); cur != -1; {
		o := s.Arena.Slot(cur)
		next := o.Next
		if o.Base != nil && o.Base.Attrs&(CanThink|IsRemote) != 0 && o.Base.Attrs&IsHumanControlled == 0 {
			s.aiThink(o)
		}
		cur = next
	}
}

// aiThink runs the full decision tree for one non-human object,
// producing a candidate key set that is then filtered by the skill roll
// (step 9) before being adopted into the object's persistent KeysDown.
func (s *Session) aiThink(o *SpaceObject) {
	var candidateKeys uint32

	// 1. Resolve target.
	target := s.Arena.Get(o.Target)
	if target == nil || (target.Owner == o.Owner && target.Base.Attrs&Hated != 0) {
		if c := s.Arena.Get(o.ClosestObject); c != nil && isValidTarget(o, c) {
			target = c
			o.Target = Handle{Slot: c.Slot, ID: c.ID}
		} else {
			target = nil
		}
	}

	var targetLoc UniverseCoord
	haveTarget := target != nil
	if haveTarget {
		targetLoc = target.Location
	} else {
		targetLoc = o.Location
	}

	if haveTarget && target.Base.Attrs&Hated != 0 {
		angle := AngleTo(o.Location, targetLoc)
		if target.Flags&FlagIsCloaked != 0 {
			jitter := int32(o.RNG.Next(91)) - 45
			angle = AddAngle(angle, jitter)
		}
		o.DirectionGoal = angle
		o.TargetAngle = angle

		// 3. Weapons.
		distSq := DistanceSquared(o.Location, targetLoc)
		angleDiff := angleAbsDiff(angle, o.Direction)
		for wi := 0; wi < 3; wi++ {
			w := &o.Weapons[wi]
			if w.Base == nil || !w.Base.Usage.Attacking {
				continue
			}
			if distSq <= w.Base.RangeSquared && (angleDiff <= kShootAngle || w.Base.AutoTarget) {
				candidateKeys |= weaponKeyBit(wi)
			}
		}

		// 4. Evade.
		longestRange := longestWeaponRangeSq(target)
		if distSq < longestRange && angleAbsDiff(AngleTo(targetLoc, o.Location), target.Direction) <= kParanoiaAngle {
			weOutgunned := target.Base.Attrs&CanOnlyEngage != 0 || o.Health <= target.Health
			if weOutgunned {
				evade := kEvadeAngle
				if target.Base.Attrs&IsGuided != 0 {
					evade = kEvadeAngleGuided
				}
				o.DirectionGoal = AddAngle(o.DirectionGoal, int32(evade))
				candidateKeys |= keyUp
			}
		}

		// 5. Range control.
		shortestRange := shortestWeaponRangeSq(o)
		if distSq > shortestRange {
			candidateKeys |= keyUp
		} else if distSq < kMotionMargin || distSq < o.LastTargetDistance {
			candidateKeys |= keyDown
		} else if distSq > o.LastTargetDistance {
			candidateKeys |= keyUp
		}
		o.LastTargetDistance = distSq

		// 6. Arrival.
		if distSq < o.Base.ArriveDistanceSquared && len(o.Base.Actions.Arrive) > 0 && o.Flags&FlagHasArrived == 0 {
			s.ExecuteActions(o.Base.Actions.Arrive, o, target, true)
			o.Flags |= FlagHasArrived
		}
	} else {
		// 7. Destination fallback.
		dest := s.Arena.Get(o.DestObject)
		if dest == nil && o.HasDest {
			targetLoc = o.DestLocation
		} else if dest != nil {
			targetLoc = dest.Location
			if dest.Slot == o.Slot {
				candidateKeys |= keyDown
				o.Flags &^= FlagHasArrived
			}
		}
		o.DirectionGoal = AngleTo(o.Location, targetLoc)

		// 8. Warp entry.
		distSq := DistanceSquared(o.Location, targetLoc)
		if distSq > kWarpInDistance && angleAbsDiff(o.DirectionGoal, o.Direction) <= kDirectionError {
			candidateKeys |= keyWarp
		}
		if angleAbsDiff(o.DirectionGoal, o.Direction) > kDirectionError {
			candidateKeys |= turnTowardKeys(o.Direction, o.DirectionGoal)
		} else {
			candidateKeys |= keyUp
		}
	}

	if haveTarget {
		if angleAbsDiff(o.DirectionGoal, o.Direction) > 0 {
			candidateKeys |= turnTowardKeys(o.Direction, o.DirectionGoal)
		}
	}

	// 9. Skill filter.
	if o.RNG.Chance(o.Base.SkillNum, o.Base.SkillDen) {
		o.KeysDown |= candidateKeys &^ weaponKeyMask
	}
	if candidateKeys&weaponKeyMask != 0 && o.RNG.Chance(1, 3) {
		o.KeysDown |= candidateKeys & weaponKeyMask
	}
}

const weaponKeyMask = keyPulse | keyBeam | keySpecial

func weaponKeyBit(slot int) uint32 {
	switch slot {
	case 0:
		return keyPulse
	case 1:
		return keyBeam
	default:
		return keySpecial
	}
}

func turnTowardKeys(current, goal Angle) uint32 {
	diff := int32(goal) - int32(current)
	diff = ((diff+180)%360 + 360) % 360 - 180
	if diff > 0 {
		return keyRight
	}
	if diff < 0 {
		return keyLeft
	}
	return 0
}

func angleAbsDiff(a, b Angle) Angle {
	d := int32(a) - int32(b)
	d = ((d+180)%360+360)%360 - 180
	if d < 0 {
		d = -d
	}
	return Angle(d)
}

func isValidTarget(observer, candidate *SpaceObject) bool {
	if candidate.Base.Attrs&Hated == 0 && candidate.Owner == observer.Owner {
		return false
	}
	return true
}

func longestWeaponRangeSq(o *SpaceObject) int64 {
	var max int64
	for _, w := range o.Weapons {
		if w.Base != nil && w.Base.RangeSquared > max {
			max = w.Base.RangeSquared
		}
	}
	return max
}

func shortestWeaponRangeSq(o *SpaceObject) int64 {
	var min int64 = -1
	for _, w := range o.Weapons {
		if w.Base != nil && (min < 0 || w.Base.RangeSquared < min) {
			min = w.Base.RangeSquared
		}
	}
	if min < 0 {
		return 0
	}
	return min
}
