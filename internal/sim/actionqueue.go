package sim

// MaxQueuedActions bounds the action queue.11 (≥120 slots).
const MaxQueuedActions = 120

// queuedAction is one pending dispatch-list entry: an insertion-sorted
// singly-linked list keyed by ScheduledTime. The simulation is
// single-threaded, so there's no concurrent slot table to synchronize.
type queuedAction struct {
	inUse bool
	action Action

	ScheduledTime int64

	SubjectSlot int32
	SubjectID   uint16
	DirectSlot  int32
	DirectID    uint16

	next int32 // index into slots, -1 == end
}

// ActionQueue is the fixed-capacity time-sorted dispatch list.
type ActionQueue struct {
	slots [MaxQueuedActions]queuedAction
	head  int32 // index of earliest-due entry, -1 == empty
}

// NewActionQueue constructs an empty queue.
func NewActionQueue() *ActionQueue {
	q := &ActionQueue{head: -1}
	for i := range q.slots {
		q.slots[i].next = -1
	}
	return q
}

// Enqueue appends a pending action and insertion-links it into the
// first-due list ordered by ScheduledTime.
func (q *ActionQueue) Enqueue(a Action, fireTick int64, subjSlot int32, subjID uint16, dirSlot int32, dirID uint16) bool {
	idx := int32(-1)
	for i := range q.slots {
		if !q.slots[i].inUse {
			idx = int32(i)
			break
		}
	}
	if idx == -1 {
		return false
	}
	q.slots[idx] = queuedAction{
		inUse:         true,
		action:        a,
		ScheduledTime: fireTick,
		SubjectSlot:   subjSlot,
		SubjectID:     subjID,
		DirectSlot:    dirSlot,
		DirectID:      dirID,
		next:          -1,
	}

	if q.head == -1 || q.slots[q.head].ScheduledTime > fireTick {
		q.slots[idx].next = q.head
		q.head = idx
		return true
	}
	cur := q.head
	for q.slots[cur].next != -1 && q.slots[q.slots[cur].next].ScheduledTime <= fireTick {
		cur = q.slots[cur].next
	}
	q.slots[idx].next = q.slots[cur].next
	q.slots[cur].next = idx
	return true
}

// dispatchActionQueue runs every due action whose (subject-id, direct-id) still
// match the live objects' ids, in non-decreasing ScheduledTime order.
// Actions whose ids no longer match are silently dropped (implicit
// cancellation when the subject or direct object died first).
func (s *Session) dispatchActionQueue() {
	q := s.Queue
	for q.head != -1 && q.slots[q.head].ScheduledTime <= s.Tick {
		idx := q.head
		qa := q.slots[idx]
		q.head = qa.next
		q.slots[idx] = queuedAction{next: -1}

		subj := s.Arena.Slot(qa.SubjectSlot)
		dir := s.Arena.Slot(qa.DirectSlot)
		var subjObj, dirObj *SpaceObject = nilObject, nilObject
		if subj.Active == InUse && subj.ID == qa.SubjectID {
			subjObj = subj
		}
		if dir.Active == InUse && dir.ID == qa.DirectID {
			dirObj = dir
		}
		if subjObj == nilObject && qa.SubjectID != 0 {
			continue
		}
		if dirObj == nilObject && qa.DirectID != 0 {
			continue
		}
		s.executeOne(qa.action, subjObj, dirObj, false)
	}
}
