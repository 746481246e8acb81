package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// MonthlyStats holds service counters for one calendar month
type MonthlyStats struct {
	DocumentAudits  int       `json:"document_audits"`
	PageChecks      int       `json:"page_checks"`
	LinkChecks      int       `json:"link_checks"`
	ScoreSum        int       `json:"score_sum"`
	PageCacheHits   int       `json:"page_cache_hits"`
	PageCacheMisses int       `json:"page_cache_misses"`
	LinkCacheHits   int       `json:"link_cache_hits"`
	LinkCacheMisses int       `json:"link_cache_misses"`
	LastUpdated     time.Time `json:"last_updated"`
}

// AverageScore returns the mean audit score for the month
func (m MonthlyStats) AverageScore() float64 {
	if m.DocumentAudits == 0 {
		return 0
	}
	return float64(m.ScoreSum) / float64(m.DocumentAudits)
}

// Storage handles persistent storage of statistics
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
}

// NewStorage creates a new statistics storage instance
func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	// Load existing stats if file exists
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

// load reads statistics from file
func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

// save writes statistics to file
func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	// Write to a temporary file first, then rename (atomic operation)
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// backgroundWriter handles periodic writes to disk
func (s *Storage) backgroundWriter() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			s.save()
		case <-ticker.C:
			s.save()
		case <-s.done:
			return
		}
	}
}

// currentMonth returns the current month key in YYYY-MM format
func currentMonth() string {
	return time.Now().Format("2006-01")
}

// requestWrite signals that a write to disk is needed
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
		// Write already pending
	}
}

// bump applies a counter update under lock and schedules a write
// at most once per minute.
func (s *Storage) bump(update func(*MonthlyStats)) {
	month := currentMonth()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	m, exists := s.stats[month]
	if !exists {
		m = &MonthlyStats{}
		s.stats[month] = m
	}
	update(m)
	m.LastUpdated = time.Now()

	if time.Since(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = time.Now()
	}
}

// RecordAudit counts one document audit and its score
func (s *Storage) RecordAudit(score int) {
	s.bump(func(m *MonthlyStats) {
		m.DocumentAudits++
		m.ScoreSum += score
	})
}

// RecordPageCheck counts one live page verification
func (s *Storage) RecordPageCheck() {
	s.bump(func(m *MonthlyStats) {
		m.PageChecks++
	})
}

// RecordLinkChecks counts outbound link accessibility probes
func (s *Storage) RecordLinkChecks(n int) {
	s.bump(func(m *MonthlyStats) {
		m.LinkChecks += n
	})
}

// AddCacheEvents increments the page and link cache counters
func (s *Storage) AddCacheEvents(pageHits, pageMisses, linkHits, linkMisses int) {
	s.bump(func(m *MonthlyStats) {
		m.PageCacheHits += pageHits
		m.PageCacheMisses += pageMisses
		m.LinkCacheHits += linkHits
		m.LinkCacheMisses += linkMisses
	})
}

// GetCurrentStats returns statistics for the current month
func (s *Storage) GetCurrentStats() MonthlyStats {
	month := currentMonth()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if m, exists := s.stats[month]; exists {
		return *m
	}
	return MonthlyStats{}
}

// GetMonthlyStats returns statistics for a specific month
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if m, exists := s.stats[yearMonth]; exists {
		return *m, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns months with statistics, newest first
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	return months
}

// Cleanup drops every month except the current and previous one
func (s *Storage) Cleanup() {
	now := time.Now()
	current := now.Format("2006-01")
	previous := now.AddDate(0, -1, 0).Format("2006-01")

	s.mutex.Lock()
	for key := range s.stats {
		if key != current && key != previous {
			delete(s.stats, key)
		}
	}
	s.mutex.Unlock()

	s.requestWrite()

	log.Debug("retained monthly stats", "current", current, "previous", previous)
}

// Shutdown stops the background writer and flushes counters to disk.
// Call at most once.
func (s *Storage) Shutdown() error {
	close(s.done)
	if err := s.save(); err != nil {
		return fmt.Errorf("failed to flush stats: %w", err)
	}
	return nil
}
