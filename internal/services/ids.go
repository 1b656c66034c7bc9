package services

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core"
	"backoffice/internal/log"
	"backoffice/internal/storage"
)

const maxAllocationAttempts = 3

// IDAllocator hands out PREFIX-YEAR-NNNN project identifiers. The sequence
// is read from the projects table itself, so two writers can pick the same
// id; the unique index rejects the second and the create is retried.
type IDAllocator struct {
	now    func() time.Time
	logger *log.Logger
}

func NewIDAllocator(now func() time.Time, logger *log.Logger) *IDAllocator {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &IDAllocator{now: now, logger: logger.WithComponent(log.ComponentProject)}
}

// Allocate returns the next identifier of family for the current year. q
// must be the transaction that will insert the project.
func (a *IDAllocator) Allocate(ctx context.Context, q *storage.Queries, f core.Family) (string, error) {
	year := a.now().Year()
	last, err := q.LastProjectID(ctx, f, f.IDPrefix(year))
	if err != nil {
		return "", fmt.Errorf("allocate %s id: %w", f, err)
	}
	return core.NextProjectID(f, year, last), nil
}

// createProject runs create in its own transaction with a freshly
// allocated id. A duplicate id rolls the transaction back and starts over,
// up to maxAllocationAttempts times, after which the conflict is returned.
func (a *IDAllocator) createProject(ctx context.Context, db *storage.DB, f core.Family,
	create func(q *storage.Queries, projectID string) error) error {
	for attempt := 1; ; attempt++ {
		err := db.InTx(ctx, func(q *storage.Queries) error {
			id, err := a.Allocate(ctx, q, f)
			if err != nil {
				return err
			}
			return create(q, id)
		})
		if err == nil || !storage.IsProjectIDConflict(err) {
			return err
		}
		if attempt >= maxAllocationAttempts {
			return fmt.Errorf("allocate %s id after %d attempts: %w", f, attempt, err)
		}
		a.logger.WarnContext(ctx, "Project id taken concurrently, retrying",
			log.FieldOperation, log.OpAllocate,
			log.FieldAttempt, attempt,
			log.FieldError, err)
	}
}
