package ipc

import (
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"antares/internal/sim"
)

// Publisher publishes simulation snapshots to connected consumers over a
// Unix socket: a separate display process, a recorder, anything that
// wants a read-only feed without being in-process with the tick loop.
type Publisher struct {
	socketPath string
	listener   net.Listener

	// Connected clients
	clients   map[net.Conn]struct{}
	clientsMu sync.RWMutex

	// Snapshot channel (ring buffer behavior - drop old if full)
	snapshotCh chan *sim.Snapshot

	// Stats
	clientCount   int32 // atomic
	snapshotsSent int64 // atomic
	droppedFrames int64 // atomic

	// Control
	running int32 // atomic
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewPublisher creates a new IPC publisher
func NewPublisher(socketPath string) *Publisher {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	return &Publisher{
		socketPath: socketPath,
		clients:    make(map[net.Conn]struct{}),
		snapshotCh: make(chan *sim.Snapshot, 8), // Buffer 8 frames
		stopCh:     make(chan struct{}),
	}
}

// Start starts the publisher server
func (p *Publisher) Start() error {
	if !atomic.CompareAndSwapInt32(&p.running, 0, 1) {
		return nil // Already running
	}

	listener, err := CreateListener(p.socketPath)
	if err != nil {
		atomic.StoreInt32(&p.running, 0)
		return err
	}
	p.listener = listener

	// Start accept loop
	p.wg.Add(1)
	go p.acceptLoop()

	// Start broadcast loop
	p.wg.Add(1)
	go p.broadcastLoop()

	log.Printf("ipc: publisher started on %s", p.socketPath)
	return nil
}

// Stop stops the publisher
func (p *Publisher) Stop() {
	if !atomic.CompareAndSwapInt32(&p.running, 1, 0) {
		return // Not running
	}

	close(p.stopCh)

	if p.listener != nil {
		p.listener.Close()
	}

	// Close all clients
	p.clientsMu.Lock()
	for conn := range p.clients {
		conn.Close()
	}
	p.clients = make(map[net.Conn]struct{})
	p.clientsMu.Unlock()

	p.wg.Wait()

	CleanupSocket(p.socketPath)
	log.Println("ipc: publisher stopped")
}

// PublishSnapshot queues a snapshot for broadcast
// This is non-blocking - drops the oldest snapshot if buffer is full
func (p *Publisher) PublishSnapshot(snapshot *sim.Snapshot) {
	if atomic.LoadInt32(&p.running) == 0 {
		return
	}

	select {
	case p.snapshotCh <- snapshot:
		// Sent successfully
	default:
		// Buffer full, drop oldest and add new
		select {
		case <-p.snapshotCh:
			atomic.AddInt64(&p.droppedFrames, 1)
		default:
		}
		select {
		case p.snapshotCh <- snapshot:
		default:
		}
	}
}

// GetStats returns publisher statistics
func (p *Publisher) GetStats() (clients int, sent int64, dropped int64) {
	return int(atomic.LoadInt32(&p.clientCount)),
		atomic.LoadInt64(&p.snapshotsSent),
		atomic.LoadInt64(&p.droppedFrames)
}

// acceptLoop accepts new client connections
func (p *Publisher) acceptLoop() {
	defer p.wg.Done()

	for atomic.LoadInt32(&p.running) == 1 {
		conn, err := p.listener.Accept()
		if err != nil {
			if atomic.LoadInt32(&p.running) == 0 {
				return // Expected during shutdown
			}
			log.Printf("ipc: accept error: %v", err)
			continue
		}

		p.addClient(conn)
	}
}

// addClient adds a new client connection
func (p *Publisher) addClient(conn net.Conn) {
	p.clientsMu.Lock()
	p.clients[conn] = struct{}{}
	p.clientsMu.Unlock()

	atomic.AddInt32(&p.clientCount, 1)
	log.Printf("ipc: consumer connected: %s (total: %d)", conn.RemoteAddr(), atomic.LoadInt32(&p.clientCount))
}

// removeClient removes a client connection
func (p *Publisher) removeClient(conn net.Conn) {
	p.clientsMu.Lock()
	if _, ok := p.clients[conn]; ok {
		delete(p.clients, conn)
		conn.Close()
		p.clientsMu.Unlock()

		count := atomic.AddInt32(&p.clientCount, -1)
		log.Printf("ipc: consumer disconnected (remaining: %d)", count)
	} else {
		p.clientsMu.Unlock()
	}
}

// broadcastLoop broadcasts snapshots to all clients
func (p *Publisher) broadcastLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return

		case snapshot := <-p.snapshotCh:
			p.broadcast(snapshot)
		}
	}
}

// broadcast sends a snapshot to all connected clients
func (p *Publisher) broadcast(snapshot *sim.Snapshot) {
	msg := snapshotToMessage(snapshot)

	p.clientsMu.RLock()
	clients := make([]net.Conn, 0, len(p.clients))
	for conn := range p.clients {
		clients = append(clients, conn)
	}
	p.clientsMu.RUnlock()

	var failed []net.Conn
	for _, conn := range clients {
		conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if err := WriteMessage(conn, MsgTypeSnapshot, msg); err != nil {
			failed = append(failed, conn)
		}
	}

	// Remove failed clients
	for _, conn := range failed {
		p.removeClient(conn)
	}

	if len(clients) > 0 && len(failed) < len(clients) {
		atomic.AddInt64(&p.snapshotsSent, 1)
	}
}

// snapshotToMessage converts a simulation snapshot to its IPC wire form.
func snapshotToMessage(s *sim.Snapshot) *SnapshotMessage {
	msg := &SnapshotMessage{
		Sequence:  s.Sequence,
		Timestamp: s.Timestamp.UnixNano(),
		Tick:      s.Tick,
		GameOver:  s.GameOver,
		Winner:    s.Winner,
	}

	msg.Objects = make([]ObjectData, len(s.Objects))
	for i, o := range s.Objects {
		msg.Objects[i] = ObjectData{
			Slot:      o.Slot,
			ID:        o.ID,
			BaseID:    o.BaseID,
			Owner:     o.Owner,
			LocH:      o.Location.H,
			LocV:      o.Location.V,
			Direction: int32(o.Direction),
			VelH:      int32(o.Velocity.H),
			VelV:      int32(o.Velocity.V),
			Health:    o.Health,
			MaxHealth: o.MaxHealth,
			Energy:    o.Energy,
			MaxEnergy: o.MaxEnergy,
			Presence:  uint8(o.Presence),
			Flags:     uint32(o.Flags),
		}
	}

	msg.Beams = make([]BeamData, len(s.Beams))
	for i, b := range s.Beams {
		msg.Beams[i] = BeamData{
			Kind:  uint8(b.Kind),
			Color: b.Color,
			FromH: b.From.H,
			FromV: b.From.V,
			ToH:   b.To.H,
			ToV:   b.To.V,
		}
	}

	msg.Messages = append(msg.Messages, s.Messages...)

	return msg
}
