/*
Package usage provides background, non-blocking recording of tool usage.

Usage events feed the reputation and pricing models, but recording them must
never slow down or fail a request. Events are queued on a buffered channel
and flushed to the catalog in batches by a background goroutine; when the
queue is full events are dropped with a warning.
*/
package usage

import (
	"log"
	"sync"
	"time"

	"github.com/emcpnexus/nexus-discovery/internal/catalog"
)

const (
	// eventQueueSize is the buffer size for the event queue. A full queue
	// drops events rather than blocking the caller.
	eventQueueSize = 1000

	// batchFlushSize is the number of queued events that triggers an
	// immediate flush.
	batchFlushSize = 10

	// flushInterval is how often pending events are flushed regardless of
	// batch size.
	flushInterval = 100 * time.Millisecond
)

// Tracker records usage events in the background.
type Tracker struct {
	catalog    catalog.Catalog
	eventQueue chan catalog.UsageEvent
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewTracker creates a tracker flushing to cat and starts its background
// worker.
func NewTracker(cat catalog.Catalog) *Tracker {
	t := &Tracker{
		catalog:    cat,
		eventQueue: make(chan catalog.UsageEvent, eventQueueSize),
		stopChan:   make(chan struct{}),
	}

	t.wg.Add(1)
	go t.processEvents()

	return t
}

// Track queues a usage event without blocking. If the queue is full the
// event is dropped and a warning is logged.
func (t *Tracker) Track(event catalog.UsageEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case t.eventQueue <- event:
	default:
		log.Printf("Warning: usage queue full, dropping event for tool %d", event.ToolID)
	}
}

// Pending returns the number of queued, unflushed events.
func (t *Tracker) Pending() int {
	return len(t.eventQueue)
}

// Stop flushes remaining events and shuts down the background worker.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		t.wg.Wait()
	})
}

// processEvents batches and flushes queued events until stopped.
func (t *Tracker) processEvents() {
	defer t.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]catalog.UsageEvent, 0, batchFlushSize)

	for {
		select {
		case event := <-t.eventQueue:
			batch = append(batch, event)
			if len(batch) >= batchFlushSize {
				t.flush(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				t.flush(batch)
				batch = batch[:0]
			}

		case <-t.stopChan:
			// Drain whatever is still queued, then flush and exit.
			for {
				select {
				case event := <-t.eventQueue:
					batch = append(batch, event)
					if len(batch) >= batchFlushSize {
						t.flush(batch)
						batch = batch[:0]
					}
				default:
					t.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events to the catalog.
func (t *Tracker) flush(events []catalog.UsageEvent) {
	for i := range events {
		if err := t.catalog.RecordUsage(&events[i]); err != nil {
			log.Printf("Warning: failed to record usage: %v", err)
		}
	}
}
