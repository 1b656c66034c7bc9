package memory

import (
	"context"
	"fmt"
	"sync"

	"backoffice/internal/core"
)

// Store keeps the last exported report per year. Used in development when no
// spreadsheet is configured, and by tests.
type Store struct {
	mu      sync.Mutex
	reports map[int]core.MonthlyReport
	writes  int
}

func New() *Store {
	return &Store{reports: make(map[int]core.MonthlyReport)}
}

// WriteMonthlyReport replaces the stored report for r.Year.
func (s *Store) WriteMonthlyReport(_ context.Context, r core.MonthlyReport) (string, error) {
	if err := core.ValidateYear(r.Year); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.Year] = r
	s.writes++
	return fmt.Sprintf("mem:%d:%d", r.Year, s.writes), nil
}

// Report returns the last report written for year.
func (s *Store) Report(year int) (core.MonthlyReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[year]
	return r, ok
}

// Writes counts successful writes.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
