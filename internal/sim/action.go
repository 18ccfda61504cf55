package sim

// Verb enumerates every action effect.
type Verb uint8

const (
	VerbCreateObject Verb = iota
	VerbCreateObjectSetDest
	VerbPlaySound
	VerbMakeSparks
	VerbReleaseEnergy
	VerbDie
	VerbNilTarget
	VerbLandAt
	VerbEnterWarp
	VerbDisplayMessage
	VerbChangeScore
	VerbDeclareWinner
	VerbColorFlash
	VerbEnableKeys
	VerbDisableKeys
	VerbSetZoom
	VerbComputerSelect
	VerbAssumeInitialObject
	VerbSetDestination
	VerbActivateSpecial
	VerbActivatePulse
	VerbActivateBeam
	VerbAlter
)

// AlterVerb enumerates the Alter sub-verbs.
type AlterVerb uint8

const (
	AlterDamage AlterVerb = iota
	AlterEnergy
	AlterHidden
	AlterCloak
	AlterSpin
	AlterOffline
	AlterVelocityAbsolute
	AlterVelocityRelative
	AlterMaxVelocity
	AlterThrust
	AlterBaseType
	AlterOwner
	AlterConditionTrueYet
	AlterOccupation
	AlterAbsoluteCash
	AlterAge
	AlterLocation
	AlterAbsoluteLocation
	AlterWeapon1
	AlterWeapon2
	AlterSpecial
	AlterLevelKeyTag
)

// OwnerPredicate compares subject/direct ownership.
type OwnerPredicate uint8

const (
	OwnerAny OwnerPredicate = iota
	OwnerSame
	OwnerDifferent
)

// Action is a discriminated effect carried in an action list, on the
// action queue, or dispatched immediately.
type Action struct {
	Verb    Verb
	Alter   AlterVerb // valid only when Verb == VerbAlter

	Reflexive bool
	Owner     OwnerPredicate

	InclusiveFilter Attr
	ExclusiveFilter Attr

	DelayTicks int32

	InitialSubjectOverride Handle
	InitialDirectOverride  Handle
	HasSubjectOverride     bool
	HasDirectOverride      bool

	// Verb-specific argument, interpreted by verb.
	IntArg   int32
	Int64Arg int64
	FixedArg Fixed
	StrArg   string
	BaseID   int32 // for CreateObject*
}

// nilObject is the sentinel returned for a direct/subject that has no
// live referent. Filters against it are false for every nonzero
// attribute bit, matching the source's zero-initialized sentinel object.
var nilObject = &SpaceObject{Owner: -1}

// resolveOrNil resolves a handle via the session's arena, falling back to
// the shared nil sentinel rather than a Go nil, so filter predicates can
// evaluate uniformly.
func (s *Session) resolveOrNil(h Handle) *SpaceObject {
	if o := s.Arena.Get(h); o != nil {
		return o
	}
	return nilObject
}

// matchesFilter implements 's predicate: either an exact
// exclusive-all-bits / level-key-tag match, or an inclusive-attribute
// subset match.
func matchesFilter(a Action, direct *SpaceObject) bool {
	var directAttrs Attr
	var directBuildFlags uint32
	if direct != nilObject && direct.Base != nil {
		directAttrs = direct.Base.Attrs
		directBuildFlags = direct.Base.BuildFlags
	}
	if a.ExclusiveFilter == ^Attr(0) {
		return uint32(a.InclusiveFilter)&levelKeyTagMask == directBuildFlags&levelKeyTagMask
	}
	return a.InclusiveFilter&directAttrs == a.InclusiveFilter
}

const levelKeyTagMask uint32 = 0xffffffff

func ownerMatches(pred OwnerPredicate, subject, direct *SpaceObject) bool {
	switch pred {
	case OwnerSame:
		return subject.Owner == direct.Owner
	case OwnerDifferent:
		return subject.Owner != direct.Owner
	default:
		return true
	}
}

// ExecuteActions runs an action list against (subject, direct), applying
// overrides and either queuing delayed actions or dispatching them
// immediately. allowDelay=false forces every action to execute
// now regardless of DelayTicks, preventing infinite rescheduling when
// called from the queue's own dispatch.
func (s *Session) ExecuteActions(list []Action, subject, direct *SpaceObject, allowDelay bool) {
	for _, a := range list {
		s.executeOne(a, subject, direct, allowDelay)
	}
}

func (s *Session) executeOne(a Action, subject, direct *SpaceObject, allowDelay bool) {
	subj := subject
	dir := direct
	if a.HasSubjectOverride {
		subj = s.resolveOrNil(a.InitialSubjectOverride)
	}
	if a.HasDirectOverride {
		dir = s.resolveOrNil(a.InitialDirectOverride)
	}
	if subj == nil {
		subj = nilObject
	}
	if dir == nil {
		dir = nilObject
	}

	if !ownerMatches(a.Owner, subj, dir) {
		return
	}
	if !matchesFilter(a, dir) {
		return
	}

	if allowDelay && a.DelayTicks > 0 {
		s.Queue.Enqueue(a, s.Tick+int64(a.DelayTicks), subj.Slot, subj.ID, dir.Slot, dir.ID)
		return
	}

	target := dir
	if a.Reflexive {
		target = subj
	}
	s.dispatchVerb(a, subj, target)
}
