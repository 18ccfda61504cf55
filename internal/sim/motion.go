package sim

// kWarpAcceleration is the per-tick speed loss while decelerating out of
// warp.
const kWarpAcceleration Fixed = 1 << 14 // 0.25 in Q16.16

// stepMotion runs the full per-tick motion pass over every active object
// in newest-first order, then a second pass
// computing distanceFromPlayer/closestObject.
func (s *Session) stepMotion() {
	for cur := s.Arena.ActiveHead(); cur != -1; {
		o := s.Arena.Slot(cur)
		next := o.Next
		s.stepObjectMotion(o)
		cur = next
	}
	s.updatePlayerDistances()
}

func (s *Session) stepObjectMotion(o *SpaceObject) {
	if o.Active != InUse {
		return
	}

	s.stepPresence(o)
	if o.Active != InUse {
		return
	}

	// 1. Turn.
	if o.Base.Attrs&CanTurn != 0 {
		o.TurnFraction += o.TurnVelocity
		delta := RoundToLong(o.TurnFraction)
		o.TurnFraction -= FromLong(delta)
		o.Direction = AddAngle(o.Direction, delta)
	}

	// 2. Thrust.
	s.applyThrust(o)

	// 3. Integrate.
	o.MotionFraction.H += o.Velocity.H
	o.MotionFraction.V += o.Velocity.V
	dh := RoundToLong(o.MotionFraction.H)
	dv := RoundToLong(o.MotionFraction.V)
	o.MotionFraction.H -= FromLong(dh)
	o.MotionFraction.V -= FromLong(dv)
	// Signed-location convention: location is decremented by the
	// rounded velocity, never flipped.
	o.Location.H -= dh
	o.Location.V -= dv

	// 4. Bounds.
	s.applyBounds(o)
	if o.Active != InUse {
		return
	}

	// 5. Self-animation.
	s.stepSelfAnimation(o)
	if o.Active != InUse {
		return
	}

	// 6. Beam follow.
	s.stepBeamFollow(o)

	// 8. Cloak/hit-state decay (sprite placement, step 7, has no
	// observable core-state effect and is left to the rendering shell).
	s.stepCloakHitDecay(o)
}

func (s *Session) applyThrust(o *SpaceObject) {
	if o.Thrust == 0 {
		return
	}
	var speed Fixed
	switch o.Presence.Tag {
	case PresenceWarpIn, PresenceWarping, PresenceWarpOut:
		speed = o.Presence.Speed
	default:
		speed = o.MaxVelocity
	}

	var targetH, targetV Fixed
	if o.Thrust > 0 {
		uh, uv := UnitVector(o.Direction)
		targetH, targetV = MulFixed(uh, speed), MulFixed(uv, speed)
	}
	// thrust < 0 brakes toward zero velocity (targetH/V stay 0).
	dh := targetH - o.Velocity.H
	dv := targetV - o.Velocity.V

	mag := absDistance(dh, dv)
	cap := o.Thrust
	if cap < 0 {
		cap = -cap
	}
	if mag > cap && mag != 0 {
		dh = MulFixed(dh, DivFixed(cap, mag))
		dv = MulFixed(dv, DivFixed(cap, mag))
	}
	o.Velocity.H += dh
	o.Velocity.V += dv
}

// absDistance returns an integer approximation of sqrt(h^2+v^2) for
// capping thrust deltas, using Newton's method on the widened product —
// deterministic integer math, no floating point at runtime.
func absDistance(h, v Fixed) Fixed {
	hh := int64(h) * int64(h)
	vv := int64(v) * int64(v)
	sum := hh + vv // the root of a sum of squared Q16.16 values is Q16.16
	if sum <= 0 {
		return 0
	}
	x := sum
	for {
		next := (x + sum/x) / 2
		if next >= x {
			break
		}
		x = next
	}
	return Fixed(x)
}

func (s *Session) applyBounds(o *SpaceObject) {
	if InThinkiverse(o.Location) {
		return
	}
	if o.Base.Attrs&DoesBounce != 0 {
		dh := o.Location.H - UniverseCenter
		dv := o.Location.V - UniverseCenter
		if dh > ThinkiverseRadius {
			o.Location.H = UniverseCenter + ThinkiverseRadius
			o.Velocity.H = -o.Velocity.H
		} else if dh < -ThinkiverseRadius {
			o.Location.H = UniverseCenter - ThinkiverseRadius
			o.Velocity.H = -o.Velocity.H
		}
		if dv > ThinkiverseRadius {
			o.Location.V = UniverseCenter + ThinkiverseRadius
			o.Velocity.V = -o.Velocity.V
		} else if dv < -ThinkiverseRadius {
			o.Location.V = UniverseCenter - ThinkiverseRadius
			o.Velocity.V = -o.Velocity.V
		}
		return
	}
	s.Arena.Destroy(Handle{Slot: o.Slot, ID: o.ID})
}

func (s *Session) stepSelfAnimation(o *SpaceObject) {
	if o.Base.Attrs&IsSelfAnimated == 0 || o.Base.FrameSpeed == 0 {
		return
	}
	o.ShapeFrame += Fixed(o.Base.FrameDirection) * o.Base.FrameSpeed
	first := FromLong(o.Base.FirstShape)
	last := FromLong(o.Base.LastShape)
	if o.ShapeFrame > last {
		if o.Base.Attrs&AnimationCycle != 0 {
			span := last - first
			if span <= 0 {
				o.ShapeFrame = first
			} else {
				for o.ShapeFrame > last {
					o.ShapeFrame -= span
				}
			}
		} else {
			o.ShapeFrame = last
			s.Arena.Destroy(Handle{Slot: o.Slot, ID: o.ID})
		}
	}
}

func (s *Session) stepBeamFollow(o *SpaceObject) {
	if !o.HasBeam {
		return
	}
	b := s.Beams.Get(o.BeamHandle)
	if b == nil {
		o.HasBeam = false
		return
	}
	b.LastGlobalLoc = b.ObjectLocation
	b.ObjectLocation = o.Location

	switch b.Kind {
	case BeamStaticObjectToObject, BeamBoltObjectToObject:
		from := s.Arena.Get(b.From)
		to := s.Arena.Get(b.To)
		if from == nil || to == nil {
			b.KillMe = true
			return
		}
	case BeamStaticObjectToRelativeCoord, BeamBoltObjectToRelativeCoord:
		from := s.Arena.Get(b.From)
		if from == nil {
			b.KillMe = true
			return
		}
		b.ObjectLocation = UniverseCoord{H: from.Location.H + b.ToRelativeCoord.H, V: from.Location.V + b.ToRelativeCoord.V}
	}
}

func (s *Session) stepCloakHitDecay(o *SpaceObject) {
	if o.HitState > 0 {
		o.HitState -= 4
		if o.HitState < 0 {
			o.HitState = 0
		}
	}
	if o.CloakState > 0 {
		if o.CloakState < 254 {
			o.CloakState++
		}
		o.Flags |= FlagIsCloaked
	} else if o.CloakState < 0 {
		if o.CloakState > -252 {
			o.CloakState--
		}
		if o.CloakState == 0 {
			o.Flags &^= FlagIsCloaked
		}
	}
}

// updatePlayerDistances computes distanceFromPlayer for every object
// relative to the local player's ship and updates closestObject. Run
// after every object has moved, before the collision pass.
func (s *Session) updatePlayerDistances() {
	player := s.Arena.Get(s.playerHandle)
	if player == nil {
		return
	}
	var closest Handle
	var closestDist int64 = -1
	for cur := s.Arena.ActiveHead(); cur != -1; {
		o := s.Arena.Slot(cur)
		if o.Slot != player.Slot {
			d := DistanceSquared(player.Location, o.Location)
			if closestDist < 0 || d < closestDist {
				closestDist = d
				closest = Handle{Slot: o.Slot, ID: o.ID}
			}
		}
		cur = o.Next
	}
	player.ClosestObject = closest
	player.ClosestDistanceSq = closestDist
}
