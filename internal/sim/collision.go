package sim

// AABB is an axis-aligned bounding box in universe units.
type AABB struct {
	MinH, MinV, MaxH, MaxV int32
}

// overlaps reports whether two AABBs intersect, treating the max edges
// as exclusive.
func overlaps(a, b AABB) bool {
	return a.MinH < b.MaxH && b.MinH < a.MaxH && a.MinV < b.MaxV && b.MinV < a.MaxV
}

// kShootAngle, kParanoiaAngle, kEvadeAngle, kDirectionError, kWarpInDistance,
// kMotionMargin are AI/weapon constants read by ai.go's think pass.
const (
	kShootAngle     Angle = 15
	kParanoiaAngle  Angle = 30
	kEvadeAngle     Angle = 30
	kEvadeAngleGuided Angle = 90
	kDirectionError Angle = 5
	kWarpInDistance int64 = int64(131072) * int64(131072)
	kMotionMargin   int64 = 5000 * 5000
)

// runCollisions runs the full narrow-phase pass: near-grid pair
// enumeration for damage/physical correction, then far-grid pair
// enumeration for awareness bookkeeping.
func (s *Session) runCollisions() {
	s.Grid.forEachNearCellPair(s.Arena, func(a, b *SpaceObject) {
		s.resolvePair(a, b)
	})
	s.Grid.forEachFarCellPair(s.Arena, func(a, b *SpaceObject) {
		s.updateAwareness(a, b)
	})
}

func computeBounds(o *SpaceObject) AABB {
	if !o.BoundsValid {
		half := ToLong(MulFixed(o.Base.NaturalScale, FromLong(16))) / 2
		if half <= 0 {
			half = 8
		}
		o.AbsBoundsMinH = o.Location.H - half
		o.AbsBoundsMinV = o.Location.V - half
		o.AbsBoundsMaxH = o.Location.H + half
		o.AbsBoundsMaxV = o.Location.V + half
		o.BoundsValid = true
	}
	return AABB{MinH: o.AbsBoundsMinH, MinV: o.AbsBoundsMinV, MaxH: o.AbsBoundsMaxH, MaxV: o.AbsBoundsMaxV}
}

func (s *Session) resolvePair(a, b *SpaceObject) {
	if a.Active == ToBeFreed || b.Active == ToBeFreed {
		return
	}
	aBeam := a.Base.Attrs&IsBeamAttr != 0
	bBeam := b.Base.Attrs&IsBeamAttr != 0

	if !aBeam && !bBeam {
		eligible := (a.Base.Attrs|b.Base.Attrs)&CanCollide != 0 && (a.Base.Attrs|b.Base.Attrs)&CanBeHit != 0
		if !eligible {
			return
		}
		boundsA, boundsB := computeBounds(a), computeBounds(b)
		if !overlaps(boundsA, boundsB) {
			return
		}
		if a.Base.Attrs&CanCollide != 0 && b.Base.Attrs&CanBeHit != 0 {
			s.hit(b, a)
		}
		if b.Base.Attrs&CanCollide != 0 && a.Base.Attrs&CanBeHit != 0 {
			s.hit(a, b)
		}
		if a.Active != ToBeFreed && b.Active != ToBeFreed &&
			a.Base.Attrs&OccupiesSpace != 0 && b.Base.Attrs&OccupiesSpace != 0 && a.Owner != b.Owner {
			s.physicalCorrection(a, b)
		}
		return
	}

	// Exactly one is a beam: beam is "source", the other
	// is "dest". Pairs where both are beams never collide.
	if aBeam == bBeam {
		return
	}
	source, dest := a, b
	if bBeam {
		source, dest = b, a
	}
	bm := s.Beams.Get(source.BeamHandle)
	if bm == nil {
		return
	}
	destBounds := computeBounds(dest)
	if _, ok := clipSegmentToAABB(source.Location, bm.LastGlobalLoc, destBounds); ok {
		s.hit(dest, source)
	}
}

// clipSegmentToAABB clips segment (p0, p1) against box using
// Cohen–Sutherland, returning whether any portion of the segment
// survives.
func clipSegmentToAABB(p0, p1 UniverseCoord, box AABB) (UniverseCoord, bool) {
	const (
		left   = 1 << 3
		right  = 1 << 2
		top    = 1 << 1
		bottom = 1 << 0
	)
	outcode := func(p UniverseCoord) int {
		c := 0
		if p.H < box.MinH {
			c |= left
		} else if p.H >= box.MaxH {
			c |= right
		}
		if p.V < box.MinV {
			c |= top
		} else if p.V >= box.MaxV {
			c |= bottom
		}
		return c
	}

	x0, y0, x1, y1 := float64(p0.H), float64(p0.V), float64(p1.H), float64(p1.V)
	oc0 := outcode(UniverseCoord{int32(x0), int32(y0)})
	oc1 := outcode(UniverseCoord{int32(x1), int32(y1)})

	for {
		if oc0|oc1 == 0 {
			return UniverseCoord{int32(x0), int32(y0)}, true
		}
		if oc0&oc1 != 0 {
			return UniverseCoord{}, false
		}
		ocOut := oc0
		if ocOut == 0 {
			ocOut = oc1
		}
		var x, y float64
		switch {
		// The max edges are exclusive, so bottom/right clip to the last
		// row/column inside the box.
		case ocOut&bottom != 0:
			x = x0 + (x1-x0)*(float64(box.MaxV-1)-y0)/(y1-y0)
			y = float64(box.MaxV - 1)
		case ocOut&top != 0:
			x = x0 + (x1-x0)*(float64(box.MinV)-y0)/(y1-y0)
			y = float64(box.MinV)
		case ocOut&right != 0:
			y = y0 + (y1-y0)*(float64(box.MaxH-1)-x0)/(x1-x0)
			x = float64(box.MaxH - 1)
		case ocOut&left != 0:
			y = y0 + (y1-y0)*(float64(box.MinH)-x0)/(x1-x0)
			x = float64(box.MinH)
		}
		if ocOut == oc0 {
			x0, y0 = x, y
			oc0 = outcode(UniverseCoord{int32(x0), int32(y0)})
		} else {
			x1, y1 = x, y
			oc1 = outcode(UniverseCoord{int32(x1), int32(y1)})
		}
	}
}

// hit dispatches damage from attacker to victim.
func (s *Session) hit(victim, attacker *SpaceObject) {
	if victim.Active == ToBeFreed {
		return
	}
	hadShield := victim.Base.Attrs&OccupiesSpace != 0 && victim.Base.Attrs&IsHumanControlled != 0

	damage := attacker.Base.CollideDamage
	victim.Health -= damage
	if victim.Health > victim.MaxHealth {
		victim.Health = victim.MaxHealth
	}

	if hadShield {
		victim.HitState = (victim.Health*128)/maxInt32(victim.MaxHealth, 1) + 16
	}

	if victim.Health < 0 {
		if attacker.Owner >= 0 {
			s.emitMessage("destroyed")
		}
		s.destroyObject(victim)
	}

	s.ExecuteActions(attacker.Base.Actions.Collide, attacker, victim, true)

	if victim.Base.Attrs&IsHumanControlled != 0 && damage > 0 {
		s.emitUIEvent(UIEvent{Kind: "color-flash"})
	}
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// physicalCorrection runs the elastic collision + step-back integration
// loop for two overlapping OccupiesSpace objects.
func (s *Session) physicalCorrection(a, b *SpaceObject) {
	angle := AngleFromSlope(Fixed(b.Location.H-a.Location.H), Fixed(b.Location.V-a.Location.V))
	uh, uv := UnitVector(angle) // unit normal pointing from a to b

	massA, massB := a.Base.Mass, b.Base.Mass
	if massA <= 0 {
		massA = FromLong(1)
	}
	if massB <= 0 {
		massB = FromLong(1)
	}
	totalMass := massA + massB

	// Relative velocity along the collision normal; only objects closing
	// on each other exchange an impulse.
	relH := b.Velocity.H - a.Velocity.H
	relV := b.Velocity.V - a.Velocity.V
	closingSpeed := MulFixed(relH, uh) + MulFixed(relV, uv)
	if closingSpeed > 0 {
		return
	}

	impulse := -MulFixed(FromLong(2), closingSpeed)
	impulse = MulFixed(impulse, DivFixed(MulFixed(massA, massB), totalMass))

	aShare := DivFixed(impulse, massA)
	bShare := DivFixed(impulse, massB)

	a.Velocity.H -= MulFixed(uh, aShare)
	a.Velocity.V -= MulFixed(uv, aShare)
	b.Velocity.H += MulFixed(uh, bShare)
	b.Velocity.V += MulFixed(uv, bShare)

	a.Velocity.H = ClampFixed(a.Velocity.H, -a.MaxVelocity, a.MaxVelocity)
	a.Velocity.V = ClampFixed(a.Velocity.V, -a.MaxVelocity, a.MaxVelocity)
	b.Velocity.H = ClampFixed(b.Velocity.H, -b.MaxVelocity, b.MaxVelocity)
	b.Velocity.V = ClampFixed(b.Velocity.V, -b.MaxVelocity, b.MaxVelocity)

	for i := 0; i < 16; i++ {
		boundsA, boundsB := computeBounds(a), computeBounds(b)
		if !overlaps(boundsA, boundsB) {
			break
		}
		stepBack(a)
		stepBack(b)
	}
}

func stepBack(o *SpaceObject) {
	o.MotionFraction.H += o.Velocity.H
	o.MotionFraction.V += o.Velocity.V
	dh := RoundToLong(o.MotionFraction.H)
	dv := RoundToLong(o.MotionFraction.V)
	o.MotionFraction.H -= FromLong(dh)
	o.MotionFraction.V -= FromLong(dv)
	o.Location.H -= dh
	o.Location.V -= dv
	o.BoundsValid = false
}

// updateAwareness updates seenByPlayerFlags/closest tracking for an
// awareness-grid pair.
func (s *Session) updateAwareness(a, b *SpaceObject) {
	d := DistanceSquared(a.Location, b.Location)
	if d < int64(MaxRelevantDistance)*int64(MaxRelevantDistance) {
		a.SeenByPlayerFlags |= b.MyPlayerFlag
		b.SeenByPlayerFlags |= a.MyPlayerFlag
	}
	if a.Base.Attrs&HideEffect != 0 {
		b.Flags |= FlagIsHidden
	}
	if b.Base.Attrs&HideEffect != 0 {
		a.Flags |= FlagIsHidden
	}

	considerForTarget(a, b, d)
	considerForTarget(b, a, d)
}

func considerForTarget(observer, candidate *SpaceObject, d int64) {
	if observer.Base.Attrs&CanOnlyEngage != 0 {
		if observer.EngageKeyTag&candidate.LevelKeyTag == 0 {
			return
		}
	}
	if candidate.Base.Attrs&OnlyEngagedBy != 0 {
		if observer.EngageKeyTag&candidate.LevelKeyTag == 0 {
			return
		}
	}
	if observer.ClosestDistanceSq < 0 || d < observer.ClosestDistanceSq {
		observer.ClosestDistanceSq = d
		observer.ClosestObject = Handle{Slot: candidate.Slot, ID: candidate.ID}
	}
}
