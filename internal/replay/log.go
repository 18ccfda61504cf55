package replay

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	eventBufferSize    = 1024
	maxEventsPerSecond = 10000
	batchFlushSize     = 64
	batchFlushInterval = 100 * time.Millisecond
)

// Log is a bounded, rate-limited, asynchronously flushed event
// recorder. A tick that wants to emit many events (e.g. a collision
// storm) degrades by dropping the oldest buffered events rather than
// blocking the simulation loop.
type Log struct {
	buffer    [eventBufferSize]Event
	writeHead uint64
	readHead  uint64

	limiter *rate.Limiter

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	droppedCount uint64
	totalCount   uint64
}

// NewLog constructs a stopped Log; call Start to begin writing to
// filePath (with an empty path nothing is written: the writer still
// drains the buffer and discards the events, e.g. for tests).
func NewLog() *Log {
	return &Log{
		limiter:  rate.NewLimiter(maxEventsPerSecond, maxEventsPerSecond/10),
		stopChan: make(chan struct{}),
	}
}

// Start opens filePath (if non-empty) and begins the async writer.
func (l *Log) Start(filePath string) error {
	if l.running.Load() {
		return nil
	}
	l.filePath = filePath
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		l.file = f
	}
	l.running.Store(true)
	l.writerWg.Add(1)
	go l.writerLoop()
	return nil
}

// Stop flushes and closes the log.
func (l *Log) Stop() {
	l.stopOnce.Do(func() {
		l.running.Store(false)
		close(l.stopChan)
		l.writerWg.Wait()
		l.fileMu.Lock()
		if l.file != nil {
			l.file.Close()
		}
		l.fileMu.Unlock()
	})
}

// Emit records an event, subject to the global rate limit and the
// circular buffer's backpressure. Returns false if the event was
// dropped.
func (l *Log) Emit(e Event) bool {
	if !l.running.Load() {
		return false
	}
	if !l.limiter.Allow() {
		atomic.AddUint64(&l.droppedCount, 1)
		return false
	}

	head := atomic.AddUint64(&l.writeHead, 1)
	tail := atomic.LoadUint64(&l.readHead)
	if head-tail >= eventBufferSize {
		atomic.AddUint64(&l.readHead, 1)
		atomic.AddUint64(&l.droppedCount, 1)
	}

	e.Sequence = head
	l.buffer[(head-1)%eventBufferSize] = e
	atomic.AddUint64(&l.totalCount, 1)
	return true
}

func (l *Log) writerLoop() {
	defer l.writerWg.Done()
	ticker := time.NewTicker(batchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, batchFlushSize)
	for {
		select {
		case <-l.stopChan:
			batch = l.collectBatch(batch[:0])
			if len(batch) > 0 {
				l.flushBatch(batch)
			}
			return
		case <-ticker.C:
			batch = l.collectBatch(batch[:0])
			if len(batch) > 0 {
				l.flushBatch(batch)
			}
		}
	}
}

func (l *Log) collectBatch(batch []Event) []Event {
	head := atomic.LoadUint64(&l.writeHead)
	tail := atomic.LoadUint64(&l.readHead)
	for i := tail; i < head && len(batch) < batchFlushSize; i++ {
		batch = append(batch, l.buffer[i%eventBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&l.readHead, uint64(len(batch)))
	}
	return batch
}

func (l *Log) flushBatch(batch []Event) {
	l.fileMu.Lock()
	defer l.fileMu.Unlock()
	if l.file == nil {
		return
	}
	for _, e := range batch {
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		l.file.Write(data)
		l.file.Write([]byte("\n"))
	}
}

// Stats reports recorder health for monitoring.
type Stats struct {
	Total   uint64
	Dropped uint64
	Pending uint64
	Running bool
}

func (l *Log) Stats() Stats {
	head := atomic.LoadUint64(&l.writeHead)
	tail := atomic.LoadUint64(&l.readHead)
	return Stats{
		Total:   atomic.LoadUint64(&l.totalCount),
		Dropped: atomic.LoadUint64(&l.droppedCount),
		Pending: head - tail,
		Running: l.running.Load(),
	}
}
