package sim

import (
	"log"
	"sync"
	"time"
)

// Host runs a Session on a fixed-cadence ticker goroutine, publishing a
// Snapshot after every tick and accepting input submitted from other
// goroutines (an HTTP handler, a websocket reader, a chat command
// parser). A sync.Mutex-guarded tick plus a time.Ticker goroutine owns
// the single Session value for its lifetime.
type Host struct {
	session *Session
	pool    *SnapshotPool
	limits  SnapshotLimits

	mu      sync.Mutex
	pending InputFrame
	running bool
	ticker  *time.Ticker
	stopCh  chan struct{}

	onStep func(InputFrame, StepOutcome)
}

// NewHost wraps session for live ticking. limits bounds every published
// Snapshot's slices.
func NewHost(session *Session, limits SnapshotLimits) *Host {
	return &Host{
		session: session,
		pool:    NewSnapshotPool(limits),
		limits:  limits,
		stopCh:  make(chan struct{}),
	}
}

// OnStep registers a hook called after every tick with the input consumed
// and the outcome produced, e.g. to append to a replay recorder or emit
// to an event log. Must be called before Start.
func (h *Host) OnStep(fn func(InputFrame, StepOutcome)) {
	h.onStep = fn
}

// Start begins the tick loop at the given cadence.
func (h *Host) Start(tickMicros int) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.ticker = time.NewTicker(time.Duration(tickMicros) * time.Microsecond)
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-h.ticker.C:
				h.tick()
			case <-h.stopCh:
				return
			}
		}
	}()

	log.Printf("antares: host started at %dus/tick", tickMicros)
}

// Stop halts the tick loop.
func (h *Host) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	h.running = false
	h.ticker.Stop()
	close(h.stopCh)
	log.Println("antares: host stopped")
}

func (h *Host) tick() {
	h.mu.Lock()
	input := h.pending
	h.pending = InputFrame{}
	outcome := h.session.SimulationStep(input)

	snap := h.pool.AcquireWrite()
	h.session.Fill(snap, h.limits)
	h.pool.PublishWrite()
	h.mu.Unlock()

	if h.onStep != nil {
		h.onStep(input, outcome)
	}
}

// SubmitInput replaces the input frame that the next tick will consume.
// The tick clears the pending frame once it has consumed it, so nothing
// persists across tick boundaries; a caller wanting a key held down must
// keep resubmitting it.
func (h *Host) SubmitInput(f InputFrame) {
	h.mu.Lock()
	h.pending = f
	h.mu.Unlock()
}

// Snapshot returns the most recently published Snapshot.
func (h *Host) Snapshot() *Snapshot {
	return h.pool.AcquireRead()
}

// Admirals returns a copy of the current admiral roster, safe to read
// concurrently with ticking.
func (h *Host) Admirals() []Admiral {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Admiral, len(h.session.Admirals))
	copy(out, h.session.Admirals)
	return out
}
