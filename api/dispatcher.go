/*
dispatcher.go - Automated assessment dispatcher

PURPOSE:
  Periodically checks for scheduled assessments whose date has arrived
  and marks them as sent. In production the send step would also deliver
  the questionnaire (email, mobile push); here it drives the status
  transition the rest of the workflow depends on.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Queries due assessments (status scheduled, date <= today)
  - Delegates the transition to the assessment service, so the same
    lifecycle rules apply as for a manual send
  - A record that fails to send is logged and retried on the next tick

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the dispatcher is active (default: true)

USAGE:
  dispatcher := NewDispatcher(store, handler.Service)
  dispatcher.Start()
  // ... later
  dispatcher.Stop()

SEE ALSO:
  - handlers.go: SendAssessment endpoint (manual dispatch)
  - assessment/service.go: MarkSent lifecycle rules
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/aegis-hse/psychorisk/assessment"
)

// Dispatcher sends due assessments on a fixed interval.
type Dispatcher struct {
	Store         assessment.ScheduleStore
	Service       *assessment.Service
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(store assessment.ScheduleStore, service *assessment.Service) *Dispatcher {
	return &Dispatcher{
		Store:         store,
		Service:       service,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the dispatcher.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.Enabled {
		log.Println("[Dispatcher] Disabled, not starting")
		return
	}

	d.ticker = time.NewTicker(d.CheckInterval)
	d.wg.Add(1)

	go d.run()

	log.Printf("[Dispatcher] Started with check interval: %v", d.CheckInterval)
}

// Stop stops the dispatcher.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ticker != nil {
		d.ticker.Stop()
		close(d.stop)
		d.wg.Wait()
		log.Println("[Dispatcher] Stopped")
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	// Run immediately on start
	d.checkAndSend()

	for {
		select {
		case <-d.ticker.C:
			d.checkAndSend()
		case <-d.stop:
			return
		}
	}
}

func (d *Dispatcher) checkAndSend() {
	ctx := context.Background()
	today := d.Service.Now()

	due, err := d.Store.ListDue(ctx, today)
	if err != nil {
		log.Printf("[Dispatcher] Error listing due assessments: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	sentCount := 0
	for _, sa := range due {
		if _, err := d.Service.MarkSent(ctx, sa.ID); err != nil {
			log.Printf("[Dispatcher] Error sending %s: %v", sa.ID, err)
			continue
		}
		sentCount++
	}

	log.Printf("[Dispatcher] Completed: %d of %d due assessments sent", sentCount, len(due))
}

// RunNow triggers an immediate check (for testing/admin).
func (d *Dispatcher) RunNow() {
	d.checkAndSend()
}
