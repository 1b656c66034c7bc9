package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"backoffice/internal/core"
	"backoffice/internal/log"
	"backoffice/internal/storage"
)

func zarorratProject(date string) *core.ZarorratProject {
	d, _ := core.ParseDate(date)
	return &core.ZarorratProject{
		CustomerName: "Nadia",
		Address:      "3 Hill Street",
		Date:         d,
		ValidUntil:   core.Date{Time: d.AddDate(0, 1, 0)},
		Amount:       core.Cents(50000),
	}
}

func TestProjectIDSequence(t *testing.T) {
	db := openTestDB(t)
	clk := newClock(2024)
	ids := NewIDAllocator(clk.Now, log.Discard())
	zr := NewZarorratProjectService(db, ids, nil, log.Discard())
	ctx := context.Background()

	want := []string{"ZR-2024-0001", "ZR-2024-0002", "ZR-2024-0003"}
	for _, w := range want {
		p, err := zr.Create(ctx, zarorratProject("2024-03-01"), nil)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if p.ProjectID != w {
			t.Errorf("ProjectID = %s, want %s", p.ProjectID, w)
		}
	}

	// The sequence restarts with the calendar year.
	clk.Set(time.Date(2025, time.January, 1, 0, 0, 1, 0, time.UTC))
	p, err := zr.Create(ctx, zarorratProject("2024-12-30"), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ProjectID != "ZR-2025-0001" {
		t.Errorf("ProjectID after year change = %s, want ZR-2025-0001", p.ProjectID)
	}

	// Families have independent sequences.
	solar := NewSolarService(db, ids, nil, log.Discard())
	sp, err := solar.Create(ctx, solarProject(nil))
	if err != nil {
		t.Fatalf("solar Create() error = %v", err)
	}
	if sp.ProjectID != "US-2025-0001" {
		t.Errorf("solar ProjectID = %s, want US-2025-0001", sp.ProjectID)
	}
}

func TestProjectIDContinuesAfterGap(t *testing.T) {
	db := openTestDB(t)
	ids := NewIDAllocator(newClock(2024).Now, log.Discard())
	zr := NewZarorratProjectService(db, ids, nil, log.Discard())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := zr.Create(ctx, zarorratProject("2024-03-01"), nil); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := zr.Delete(ctx, "ZR-2024-0002"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	p, err := zr.Create(ctx, zarorratProject("2024-03-01"), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ProjectID != "ZR-2024-0004" {
		t.Errorf("ProjectID = %s, want ZR-2024-0004", p.ProjectID)
	}
}

func TestProjectIDConcurrentCreates(t *testing.T) {
	db := openTestDB(t)
	ids := NewIDAllocator(newClock(2024).Now, log.Discard())
	zr := NewZarorratProjectService(db, ids, nil, log.Discard())
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	results := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := zr.Create(ctx, zarorratProject("2024-03-01"), nil)
			if err != nil {
				errs <- err
				return
			}
			results <- p.ProjectID
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Errorf("Create() error = %v", err)
	}
	seen := map[string]bool{}
	for id := range results {
		if seen[id] {
			t.Errorf("duplicate project id %s", id)
		}
		seen[id] = true
	}
	for i := 1; i <= len(seen); i++ {
		if id := fmt.Sprintf("ZR-2024-%04d", i); !seen[id] {
			t.Errorf("missing %s", id)
		}
	}
}

func TestCreateProjectGivesUpAfterRepeatedConflicts(t *testing.T) {
	db := openTestDB(t)
	ids := NewIDAllocator(newClock(2024).Now, log.Discard())

	attempts := 0
	conflict := &storage.ConflictError{Constraint: "UNIQUE constraint failed: zarorrat_projects.project_id", Err: errors.New("duplicate")}
	err := ids.createProject(context.Background(), db, core.FamilyZarorrat, func(q *storage.Queries, projectID string) error {
		attempts++
		return conflict
	})
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("createProject() error = %v, want conflict", err)
	}
	if attempts != maxAllocationAttempts {
		t.Errorf("attempts = %d, want %d", attempts, maxAllocationAttempts)
	}

	attempts = 0
	other := errors.New("disk full")
	err = ids.createProject(context.Background(), db, core.FamilyZarorrat, func(q *storage.Queries, projectID string) error {
		attempts++
		return other
	})
	if !errors.Is(err, other) || attempts != 1 {
		t.Errorf("non-conflict error retried: attempts=%d err=%v", attempts, err)
	}
}
