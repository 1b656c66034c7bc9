package services

import (
	"context"
	"testing"

	"backoffice/internal/core"
	"backoffice/internal/log"
)

func TestZarorratUpdateAcrossYearsNotifiesBothYears(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	n := &recordingNotifier{}
	svc := NewZarorratProjectService(db, NewIDAllocator(newClock(2024).Now, log.Discard()), n, log.Discard())

	p, err := svc.Create(ctx, zarorratProject("2024-12-20"), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	p.Date = core.NewDate(2025, 1, 8)
	p.ValidUntil = core.NewDate(2025, 2, 8)
	updated, err := svc.Update(ctx, &p, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ProjectID != "ZR-2024-0001" {
		t.Errorf("project id = %s, want it kept across the move", updated.ProjectID)
	}

	want := []ledgerEvent{
		{entityZarorratProject, "ZR-2024-0001", log.OpCreate, 2024},
		{entityZarorratProject, "ZR-2024-0001", log.OpUpdate, 2024},
		{entityZarorratProject, "ZR-2024-0001", log.OpUpdate, 2025},
	}
	got := n.Events()
	if len(got) != len(want) {
		t.Fatalf("events = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestZarorratUpdateMissingProject(t *testing.T) {
	db := openTestDB(t)
	n := &recordingNotifier{}
	svc := NewZarorratProjectService(db, NewIDAllocator(newClock(2024).Now, log.Discard()), n, log.Discard())

	p := zarorratProject("2024-05-01")
	p.ProjectID = "ZR-2024-0042"
	if _, err := svc.Update(context.Background(), p, nil); err == nil {
		t.Fatal("Update() of a missing project succeeded")
	}
	if events := n.Events(); len(events) != 0 {
		t.Errorf("events = %+v, want none", events)
	}
}
