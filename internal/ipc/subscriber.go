package ipc

import (
	"errors"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Subscriber receives simulation snapshots from a publisher over a Unix
// socket, reconnecting automatically if the connection drops.
type Subscriber struct {
	socketPath string
	conn       net.Conn
	connMu     sync.Mutex

	// Latest snapshot (lock-free access)
	latestSnapshot atomic.Value // *SnapshotMessage

	// Stats
	snapshotsReceived int64 // atomic
	reconnects        int64 // atomic
	errors            int64 // atomic

	// Control
	running int32 // atomic
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Callbacks
	onSnapshot   func(*SnapshotMessage)
	onConnect    func()
	onDisconnect func()
}

// NewSubscriber creates a new IPC subscriber
func NewSubscriber(socketPath string) *Subscriber {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	return &Subscriber{
		socketPath: socketPath,
		stopCh:     make(chan struct{}),
	}
}

// OnSnapshot sets a callback for when a snapshot is received
func (s *Subscriber) OnSnapshot(fn func(*SnapshotMessage)) {
	s.onSnapshot = fn
}

// OnConnect sets a callback for when connection is established
func (s *Subscriber) OnConnect(fn func()) {
	s.onConnect = fn
}

// OnDisconnect sets a callback for when connection is lost
func (s *Subscriber) OnDisconnect(fn func()) {
	s.onDisconnect = fn
}

// Start starts the subscriber, connecting to the server
func (s *Subscriber) Start() error {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return nil // Already running
	}

	s.wg.Add(1)
	go s.connectionLoop()

	log.Printf("ipc: subscriber started, connecting to %s", s.socketPath)
	return nil
}

// Stop stops the subscriber
func (s *Subscriber) Stop() {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return // Not running
	}

	close(s.stopCh)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	log.Println("ipc: subscriber stopped")
}

// GetLatestSnapshot returns the most recent snapshot (lock-free)
func (s *Subscriber) GetLatestSnapshot() *SnapshotMessage {
	if val := s.latestSnapshot.Load(); val != nil {
		return val.(*SnapshotMessage)
	}
	return nil
}

// GetStats returns subscriber statistics
func (s *Subscriber) GetStats() (received int64, reconnects int64, errors int64) {
	return atomic.LoadInt64(&s.snapshotsReceived),
		atomic.LoadInt64(&s.reconnects),
		atomic.LoadInt64(&s.errors)
}

// IsConnected returns whether the subscriber is connected
func (s *Subscriber) IsConnected() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.conn != nil
}

// connectionLoop maintains the connection to the server
func (s *Subscriber) connectionLoop() {
	defer s.wg.Done()

	for atomic.LoadInt32(&s.running) == 1 {
		// Try to connect
		conn, err := s.connect()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			case <-time.After(ReconnectDelay):
				continue
			}
		}

		// Connection established
		s.connMu.Lock()
		s.conn = conn
		s.connMu.Unlock()

		if s.onConnect != nil {
			s.onConnect()
		}

		// Read loop
		s.readLoop(conn)

		// Connection lost
		s.connMu.Lock()
		s.conn = nil
		s.connMu.Unlock()

		if s.onDisconnect != nil {
			s.onDisconnect()
		}

		atomic.AddInt64(&s.reconnects, 1)

		select {
		case <-s.stopCh:
			return
		case <-time.After(ReconnectDelay):
			// Reconnect
		}
	}
}

// connect attempts to connect to the server
func (s *Subscriber) connect() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", s.socketPath, time.Second)
	if err != nil {
		return nil, err
	}

	log.Printf("ipc: connected to %s", s.socketPath)
	return conn, nil
}

// readLoop reads messages from the connection
func (s *Subscriber) readLoop(conn net.Conn) {
	for atomic.LoadInt32(&s.running) == 1 {
		// Set read deadline
		conn.SetReadDeadline(time.Now().Add(ReadTimeout))

		msgType, data, err := ReadMessage(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Println("ipc: publisher closed connection")
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				// Timeout is normal, continue
				continue
			}
			log.Printf("ipc: read error: %v", err)
			atomic.AddInt64(&s.errors, 1)
			return
		}

		switch msgType {
		case MsgTypeSnapshot:
			s.handleSnapshot(data)

		case MsgTypePing:
			// Respond with pong
			conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
			WriteMessage(conn, MsgTypePong, nil)
		}
	}
}

// handleSnapshot processes a received snapshot
func (s *Subscriber) handleSnapshot(data []byte) {
	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		log.Printf("ipc: failed to decode snapshot: %v", err)
		atomic.AddInt64(&s.errors, 1)
		return
	}

	// Store latest snapshot (lock-free)
	s.latestSnapshot.Store(snapshot)
	atomic.AddInt64(&s.snapshotsReceived, 1)

	// Call callback if set
	if s.onSnapshot != nil {
		s.onSnapshot(snapshot)
	}
}
