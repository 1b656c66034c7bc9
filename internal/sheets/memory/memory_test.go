package memory

import (
	"context"
	"sync"
	"testing"

	"backoffice/internal/core"
)

func TestStoreWriteAndRead(t *testing.T) {
	s := New()
	ctx := context.Background()

	r := core.NewMonthlyReport(2024)
	r.Finalize(1)
	ref, err := s.WriteMonthlyReport(ctx, r)
	if err != nil || ref != "mem:2024:1" {
		t.Fatalf("unexpected write: ref=%q err=%v", ref, err)
	}

	r.AddProjectProfit([]core.Contribution{{Date: core.NewDate(2024, 2, 1), Amount: core.Cents(500)}})
	r.Finalize(2)
	if _, err := s.WriteMonthlyReport(ctx, r); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, ok := s.Report(2024)
	if !ok {
		t.Fatal("report for 2024 missing")
	}
	if got.Summary.TotalProfit.Cents != 500 {
		t.Errorf("total = %d, want latest write (500)", got.Summary.TotalProfit.Cents)
	}
	if _, ok := s.Report(2023); ok {
		t.Error("unexpected report for 2023")
	}
	if s.Writes() != 2 {
		t.Errorf("writes = %d, want 2", s.Writes())
	}
}

func TestStoreRejectsInvalidYear(t *testing.T) {
	s := New()
	if _, err := s.WriteMonthlyReport(context.Background(), core.MonthlyReport{Year: 12}); err == nil {
		t.Fatal("expected error for year 12")
	}
}

func TestStoreConcurrentWrites(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(year int) {
			defer wg.Done()
			r := core.NewMonthlyReport(year)
			r.Finalize(1)
			_, _ = s.WriteMonthlyReport(context.Background(), r)
		}(2000 + i%4)
	}
	wg.Wait()
	if s.Writes() != 20 {
		t.Errorf("writes = %d, want 20", s.Writes())
	}
}
