package sim

// dispatchVerb executes a single resolved action against (subject,
// target), where target is already reflexive-resolved: direct for a
// normal action, subject when the action is marked reflexive.
func (s *Session) dispatchVerb(a Action, subject, target *SpaceObject) {
	switch a.Verb {
	case VerbCreateObject, VerbCreateObjectSetDest:
		s.verbCreateObject(a, subject, target)
	case VerbPlaySound:
		s.emitUIEvent(UIEvent{Kind: "sound", StrArg: a.StrArg})
	case VerbMakeSparks:
		s.emitUIEvent(UIEvent{Kind: "sparks", IntArg: a.IntArg})
	case VerbReleaseEnergy:
		s.releaseEnergy(target)
	case VerbDie:
		if target != nilObject {
			s.destroyObject(target)
		}
	case VerbNilTarget:
		if target != nilObject {
			target.Target = Handle{}
		}
	case VerbLandAt:
		if target != nilObject {
			target.Presence = Presence{Tag: PresenceLanding, LandingScale: FromLong(1), LandingSpeed: a.FixedArg}
		}
	case VerbEnterWarp:
		if target != nilObject {
			target.Presence = Presence{Tag: PresenceWarpIn}
		}
	case VerbDisplayMessage:
		s.emitMessage(a.StrArg)
	case VerbChangeScore:
		s.creditScore(a.IntArg, a.Int64Arg)
	case VerbDeclareWinner:
		s.pendingGameOver = true
		s.pendingWinner = a.IntArg
	case VerbColorFlash:
		s.emitUIEvent(UIEvent{Kind: "color-flash", IntArg: a.IntArg})
	case VerbEnableKeys:
		if target != nilObject {
			target.KeysDown |= uint32(a.IntArg)
		}
	case VerbDisableKeys:
		if target != nilObject {
			target.KeysDown &^= uint32(a.IntArg)
		}
	case VerbSetZoom:
		s.emitUIEvent(UIEvent{Kind: "zoom", IntArg: a.IntArg})
	case VerbComputerSelect:
		s.emitUIEvent(UIEvent{Kind: "computer-select", IntArg: a.IntArg})
	case VerbAssumeInitialObject:
		if idx := a.IntArg; idx >= 0 && int(idx) < len(s.Scenario.initialHandles) {
			s.playerHandle = s.Scenario.initialHandles[idx]
		}
	case VerbSetDestination:
		if target != nilObject {
			target.DestObject = a.InitialDirectOverride
			target.HasDest = true
		}
	case VerbActivateSpecial:
		s.fireWeaponByAction(subject, 2)
	case VerbActivatePulse:
		s.fireWeaponByAction(subject, 0)
	case VerbActivateBeam:
		s.fireWeaponByAction(subject, 1)
	case VerbAlter:
		s.dispatchAlter(a, subject, target)
	}

	if a.Verb == VerbChangeScore || a.Verb == VerbDeclareWinner || a.Verb == VerbDisplayMessage {
		s.conditionDirty = true
	}
}

func (s *Session) verbCreateObject(a Action, subject, target *SpaceObject) {
	base, ok := s.Scenario.BaseObjects[a.BaseID]
	if !ok {
		return
	}
	loc := s.fireOrigin
	if loc == (UniverseCoord{}) {
		loc = subject.Location
	}
	seed := uint32(s.RNG.Next(1 << 30))
	h, ok := s.Arena.Create(base, seed)
	if !ok {
		return
	}
	o := s.Arena.Get(h)
	o.Location = loc
	o.Direction = subject.Direction
	o.Owner = subject.Owner
	o.MaxVelocity = base.MaxVelocity
	for wi, wd := range base.Weapons {
		if wd != nil {
			o.Weapons[wi] = Weapon{Base: wd, Ammo: wd.Ammo}
		}
	}
	if a.Verb == VerbCreateObjectSetDest && target != nilObject {
		o.DestObject = Handle{Slot: target.Slot, ID: target.ID}
		o.HasDest = true
	}
	s.ExecuteActions(base.Actions.Create, o, o, true)
}

func (s *Session) fireWeaponByAction(subject *SpaceObject, slot int) {
	if subject == nilObject {
		return
	}
	s.fireWeapon(subject, slot)
}

func (s *Session) dispatchAlter(a Action, subject, target *SpaceObject) {
	if target == nilObject {
		return
	}
	switch a.Alter {
	case AlterDamage:
		target.Health -= a.IntArg
		if target.Health < 0 {
			s.destroyObject(target)
		}
	case AlterEnergy:
		target.Energy += a.IntArg
		target.Energy = clampInt32(target.Energy, 0, target.MaxEnergy)
	case AlterHidden:
		if a.IntArg != 0 {
			target.Flags |= FlagIsHidden
		} else {
			target.Flags &^= FlagIsHidden
		}
	case AlterCloak:
		if a.IntArg != 0 {
			target.CloakState = 1
		} else {
			target.CloakState = -1
		}
	case AlterSpin:
		target.TurnVelocity = a.FixedArg
	case AlterOffline:
		target.OfflineTime = a.IntArg
	case AlterVelocityAbsolute:
		target.Velocity = FixedVec{H: a.FixedArg, V: 0}
	case AlterVelocityRelative:
		target.Velocity.H += a.FixedArg
	case AlterMaxVelocity:
		target.MaxVelocity = a.FixedArg
	case AlterThrust:
		target.Thrust = a.FixedArg
	case AlterBaseType:
		if b, ok := s.Scenario.BaseObjects[a.IntArg]; ok {
			target.Base = b
		}
	case AlterOwner:
		target.Owner = a.IntArg
	case AlterConditionTrueYet:
		if idx := a.IntArg; idx >= 0 && int(idx) < len(s.conditionsLatched) {
			s.conditionsLatched[idx] = a.Int64Arg != 0
		}
	case AlterOccupation:
		target.PeriodicTime = a.IntArg
	case AlterAbsoluteCash:
		s.creditCash(target.Owner, a.Int64Arg)
	case AlterAge:
		target.Age = a.IntArg
	case AlterLocation:
		target.Location.H += a.IntArg
	case AlterAbsoluteLocation:
		target.Location = UniverseCoord{H: a.IntArg, V: int32(a.Int64Arg)}
	case AlterWeapon1:
		target.Weapons[0].Ammo = a.IntArg
	case AlterWeapon2:
		target.Weapons[1].Ammo = a.IntArg
	case AlterSpecial:
		target.Weapons[2].Ammo = a.IntArg
	case AlterLevelKeyTag:
		target.LevelKeyTag = uint32(a.IntArg)
	}
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
