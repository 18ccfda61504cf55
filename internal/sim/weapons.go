package sim

// Energy economy constants.
const (
	kHealthRatio  int32 = 5
	kWeaponRatio  int32 = 2
	kEnergyChunk  int32 = kHealthRatio + 3*kWeaponRatio // 11
	rechargeTicks int32 = 12
	rechargeStep  int32 = 3
)

// weaponsRechargeAndFireAll runs the per-object recharge step and fire
// dispatch for every InUse object, each major tick.
func (s *Session) weaponsRechargeAndFireAll() {
	for cur := s.Arena.ActiveHead(); cur != -1; {
		o := s.Arena.Slot(cur)
		next := o.Next
		s.rechargeStep(o)
		s.fireWeapons(o)
		cur = next
	}
}

func (s *Session) rechargeStep(o *SpaceObject) {
	o.RechargeTime += rechargeStep
	if o.RechargeTime < rechargeTicks {
		return
	}
	o.RechargeTime = 0

	if o.Energy <= o.MaxEnergy-kEnergyChunk && o.Battery > kEnergyChunk {
		o.Battery -= kEnergyChunk
		o.Energy += kEnergyChunk
	}

	if o.Health < o.MaxHealth/2 && o.Energy > kHealthRatio {
		o.Health++
		o.Energy -= kHealthRatio
	}

	for i := range o.Weapons {
		w := &o.Weapons[i]
		if w.Base == nil {
			continue
		}
		if w.Ammo < w.Base.Ammo/2 && o.Energy >= kWeaponRatio {
			w.Charge++
			o.Energy -= kWeaponRatio
			if w.Base.RestockCost > 0 && w.Charge >= w.Base.RestockCost {
				w.Charge -= w.Base.RestockCost
				w.Ammo++
			}
		}
	}
}

// fireWeapons checks each weapon key against the object's KeysDown and
// fires eligible weapons.
func (s *Session) fireWeapons(o *SpaceObject) {
	if o.KeysDown&keyPulse != 0 {
		s.fireWeapon(o, 0)
	}
	if o.KeysDown&keyBeam != 0 {
		s.fireWeapon(o, 1)
	}
	if o.KeysDown&keySpecial != 0 {
		s.fireWeapon(o, 2)
	}
}

// fireWeapon fires weapon slot at time s.Tick if due, energized, and
// stocked.
func (s *Session) fireWeapon(o *SpaceObject, slot int) {
	w := &o.Weapons[slot]
	if w.Base == nil {
		return
	}
	if s.Tick < w.NextFireTick {
		return
	}
	if o.Energy < w.Base.EnergyCost {
		return
	}
	if w.Base.Ammo >= 0 && w.Ammo <= 0 {
		return
	}

	o.Energy -= w.Base.EnergyCost
	if slot != 2 && o.Flags&FlagIsCloaked != 0 {
		o.Flags &^= FlagIsCloaked
		o.CloakState = 0
	}

	var firePos UniverseCoord
	if len(w.Base.Barrels) > 0 {
		local := w.Base.Barrels[w.BarrelIndex]
		rh, rv := RotPoint(Fixed(local.H), Fixed(local.V), o.Direction)
		firePos = UniverseCoord{H: o.Location.H + ToLong(rh), V: o.Location.V + ToLong(rv)}
		w.BarrelIndex = (w.BarrelIndex + 1) % len(w.Base.Barrels)
	} else {
		firePos = o.Location
	}

	w.NextFireTick = s.Tick + int64(w.Base.FireTime)
	if w.Base.Ammo > 0 {
		w.Ammo--
	}

	target := s.resolveOrNil(o.Target)
	s.fireOrigin = firePos
	s.ExecuteActions(w.Base.Activate, o, target, true)
}
