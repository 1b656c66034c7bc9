package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"backoffice/internal/log"
	"backoffice/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.Config{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}, log.Discard())
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type ledgerEvent struct {
	entity, entityID, operation string
	year                        int
}

// recordingNotifier keeps every event it is told about.
type recordingNotifier struct {
	mu     sync.Mutex
	events []ledgerEvent
}

func (n *recordingNotifier) LedgerChanged(_ context.Context, entity, entityID, operation string, year int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ledgerEvent{entity, entityID, operation, year})
}

func (n *recordingNotifier) Events() []ledgerEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ledgerEvent(nil), n.events...)
}

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(year int) *clock {
	return &clock{t: time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
