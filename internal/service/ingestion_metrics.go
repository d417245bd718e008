package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about one feed ingestion run
type IngestionMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	TotalGames       int
	StoredGames      int
	TotalTeams       int
	StoredTeams      int
	Skipped          int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalGames = 0
	m.StoredGames = 0
	m.TotalTeams = 0
	m.StoredTeams = 0
	m.Skipped = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordGame increments stored game count
func (m *IngestionMetrics) RecordGame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredGames++
}

// RecordTeam increments stored team-signal count
func (m *IngestionMetrics) RecordTeam() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredTeams++
}

// RecordSkipped increments the skipped-record count
func (m *IngestionMetrics) RecordSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Skipped++
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	storedRate := float64(0)
	if m.TotalGames > 0 {
		storedRate = float64(m.StoredGames) / float64(m.TotalGames) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Games=%d, Stored=%d (%.1f%%), Teams=%d, Skipped=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalGames,
		m.StoredGames,
		storedRate,
		m.StoredTeams,
		m.Skipped,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
