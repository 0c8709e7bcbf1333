package monitoring

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/trop3n/event-management-board/internal/services"
	ws "github.com/trop3n/event-management-board/internal/websocket"
)

// SyncScheduler runs the calendar sync on a cron schedule so the board
// stays current even when nobody presses the sync button.
type SyncScheduler struct {
	schedule cron.Schedule
	syncSvc  services.SyncServiceProvider
	hub      *ws.Hub
	ticker   *time.Ticker
	nextRun  time.Time
	done     chan bool
}

// NewSyncScheduler creates a scheduler from a standard cron expression.
func NewSyncScheduler(cronExpr string, syncSvc services.SyncServiceProvider, hub *ws.Hub) (*SyncScheduler, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &SyncScheduler{
		schedule: schedule,
		syncSvc:  syncSvc,
		hub:      hub,
		nextRun:  schedule.Next(time.Now()),
		done:     make(chan bool),
	}, nil
}

// Run starts the scheduler's ticking loop.
func (s *SyncScheduler) Run() {
	log.Println("Starting background sync scheduler...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Println("Stopping background sync scheduler.")
			return
		case <-s.ticker.C:
			now := time.Now()
			if now.After(s.nextRun) {
				s.nextRun = s.schedule.Next(now)
				go s.runSync()
			}
		}
	}
}

// Stop halts the scheduler.
func (s *SyncScheduler) Stop() {
	s.done <- true
}

// runSync executes one sync and hints connected boards to re-fetch.
func (s *SyncScheduler) runSync() {
	if _, err := s.syncSvc.SyncEvents(); err != nil {
		log.Printf("Scheduler: sync run failed: %v", err)
		return
	}
	if s.hub != nil {
		s.hub.Broadcast <- ws.EventsUpdated(0)
	}
}
