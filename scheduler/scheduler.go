// Package scheduler runs the nightly re-audit sweep.
package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Scheduler wraps a timezone-aware cron running one daily job
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	entryID cron.EntryID
	started bool
}

// New creates a scheduler whose wall-clock times are local to timezone
func New(timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	return &Scheduler{cron: cron.New(cron.WithLocation(loc))}, nil
}

// ScheduleDaily runs job every day at hhmm (HH:MM). Scheduling again
// replaces the previous job.
func (s *Scheduler) ScheduleDaily(hhmm string, job func()) error {
	hour, minute, err := parseClock(hhmm)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("%d %d * * *", minute, hour), job)
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	s.entryID = entryID

	return nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.cron.Start()
		s.started = true
	}
}

// Stop halts the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.cron.Stop()
		s.started = false
	}
}

// Entries returns how many jobs are registered
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func parseClock(hhmm string) (int, int, error) {
	matches := clockRegex.FindStringSubmatch(hhmm)
	if len(matches) != 3 {
		return 0, 0, fmt.Errorf("invalid time %q (expected HH:MM)", hhmm)
	}

	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])

	return hour, minute, nil
}
