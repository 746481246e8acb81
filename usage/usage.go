// Package usage tracks who is using the audit service and how. Counters
// are editor-facing telemetry, separate from the monthly stats ledger.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// EnvDevMode controls whether Snapshot includes per-slug detail
const EnvDevMode = "DEV_MODE"

const fileName = "usage.json"

// Statistics holds service usage counters
type Statistics struct {
	UniqueEditors  map[string]time.Time `json:"uniqueEditors"` // IP -> last request
	AuditRequests  int                  `json:"auditRequests"`
	ErrorCount     int                  `json:"errorCount"`
	AuditedSlugs   map[string]int       `json:"auditedSlugs"` // slug -> audit count
	AverageLatency float64              `json:"averageLatencyMs"`
	TotalLatency   float64              `json:"-"`
	RequestCount   int                  `json:"-"`
	LastPersisted  time.Time            `json:"lastPersisted"`

	filePath string
	mutex    sync.RWMutex
}

var (
	instance *Statistics
	once     sync.Once
)

// Initialize returns the process-wide statistics, loading any persisted
// state from dataDir on first call.
func Initialize(dataDir string) *Statistics {
	once.Do(func() {
		instance = New(dataDir)
		if err := instance.Load(); err != nil {
			log.Warn("could not load existing usage statistics", "error", err)
		}
	})
	return instance
}

// New creates an empty Statistics persisting to dataDir
func New(dataDir string) *Statistics {
	return &Statistics{
		UniqueEditors: make(map[string]time.Time),
		AuditedSlugs:  make(map[string]int),
		LastPersisted: time.Now(),
		filePath:      filepath.Join(dataDir, fileName),
	}
}

// TrackEditor records a request from an editor's IP
func (s *Statistics) TrackEditor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueEditors[ip] = time.Now()
}

// TrackAudit records one audit request. slug may be empty when the
// document had none yet.
func (s *Statistics) TrackAudit(slug string, latencyMs float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AuditRequests++
	if slug != "" {
		s.AuditedSlugs[slug]++
	}
	if hasError {
		s.ErrorCount++
	}

	s.TotalLatency += latencyMs
	s.RequestCount++
	s.AverageLatency = s.TotalLatency / float64(s.RequestCount)
}

// EditorsLast24h returns how many distinct editors were active in the
// last 24 hours.
func (s *Statistics) EditorsLast24h() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.editorsSinceLocked(time.Now().Add(-24 * time.Hour))
}

func (s *Statistics) editorsSinceLocked(cutoff time.Time) int {
	count := 0
	for _, last := range s.UniqueEditors {
		if last.After(cutoff) {
			count++
		}
	}
	return count
}

// TopSlugs returns up to n audited slugs with their audit counts
func (s *Statistics) TopSlugs(n int) map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.topSlugsLocked(n)
}

func (s *Statistics) topSlugsLocked(n int) map[string]int {
	result := make(map[string]int, n)
	for slug, count := range s.AuditedSlugs {
		if len(result) >= n {
			break
		}
		result[slug] = count
	}
	return result
}

// ErrorRate returns the percentage of audit requests that failed
func (s *Statistics) ErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.errorRateLocked()
}

func (s *Statistics) errorRateLocked() float64 {
	if s.AuditRequests == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(s.AuditRequests) * 100
}

// Save persists the statistics to disk
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	file, err := os.Create(s.filePath)
	if err != nil {
		return fmt.Errorf("could not create usage file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(s); err != nil {
		return fmt.Errorf("could not encode usage statistics: %w", err)
	}

	return nil
}

// Load reads persisted statistics. A missing file is not an error.
func (s *Statistics) Load() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open usage file: %w", err)
	}
	defer file.Close()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := json.NewDecoder(file).Decode(s); err != nil {
		return fmt.Errorf("could not decode usage statistics: %w", err)
	}
	if s.UniqueEditors == nil {
		s.UniqueEditors = make(map[string]time.Time)
	}
	if s.AuditedSlugs == nil {
		s.AuditedSlugs = make(map[string]int)
	}

	return nil
}

// Snapshot returns the statistics for the API. Per-slug detail is only
// included when DEV_MODE=true.
func (s *Statistics) Snapshot() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	snapshot := map[string]interface{}{
		"uniqueEditors24h": s.editorsSinceLocked(time.Now().Add(-24 * time.Hour)),
		"auditRequests":    s.AuditRequests,
		"errorRate":        s.errorRateLocked(),
		"averageLatencyMs": s.AverageLatency,
	}

	if os.Getenv(EnvDevMode) == "true" {
		snapshot["auditedSlugs"] = s.topSlugsLocked(5)
	}

	return snapshot
}
