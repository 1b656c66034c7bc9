package services

import (
	"context"
	"errors"
	"testing"

	"backoffice/internal/core"
	"backoffice/internal/log"
)

func monthly(employee string, date core.Date, amount int64) *core.Salary {
	return &core.Salary{Employee: employee, Date: date, SalaryAmount: core.Cents(amount)}
}

func advance(employee string, date core.Date, amount int64) *core.AdvanceHistory {
	return &core.AdvanceHistory{Employee: employee, Date: date, AdvanceTaken: core.Cents(amount), Purpose: "rent"}
}

func TestCreateSalaryNormalizes(t *testing.T) {
	db := openTestDB(t)
	svc := NewSalaryService(db, nil, log.Discard())
	ctx := context.Background()

	m, err := svc.CreateMonthlySalary(ctx, monthly("Ali", core.NewDate(2024, 6, 20), 300000))
	if err != nil {
		t.Fatalf("CreateMonthlySalary() error = %v", err)
	}
	if m.WageType != core.WageMonthly || m.Amount != m.SalaryAmount || m.TotalPaid != m.SalaryAmount {
		t.Errorf("monthly salary = %+v", m)
	}
	if m.Month != core.NewDate(2024, 6, 1) {
		t.Errorf("month = %s, want first of month", m.Month)
	}

	d, err := svc.CreateDailyWage(ctx, &core.Salary{Employee: "Ali", Date: core.NewDate(2024, 6, 3), Amount: core.Cents(5000)})
	if err != nil {
		t.Fatalf("CreateDailyWage() error = %v", err)
	}
	if d.WageType != core.WageDaily || !d.Amount.IsZero() || !d.TotalPaid.IsZero() {
		t.Errorf("daily wage = %+v", d)
	}

	_, err = svc.CreateMonthlySalary(ctx, monthly("Ali", core.NewDate(2024, 6, 1), 0))
	var ve *core.ValidationError
	if !errors.As(err, &ve) || ve.Fields["salary_amount"] == "" {
		t.Errorf("zero monthly salary error = %v", err)
	}
}

func TestReconcile(t *testing.T) {
	june := func(day int) core.Date { return core.NewDate(2024, 6, day) }

	tests := []struct {
		name          string
		salaries      []*core.Salary
		advances      []*core.AdvanceHistory
		employee      string
		wantErr       error
		wantBase      int64
		wantTaken     int64
		wantRemaining int64
		wantHistory   int
	}{
		{
			name:          "advances subtracted",
			salaries:      []*core.Salary{monthly("Ali", june(1), 300000)},
			advances:      []*core.AdvanceHistory{advance("Ali", june(5), 50000), advance("Ali", june(18), 25000)},
			employee:      "Ali",
			wantBase:      300000,
			wantTaken:     75000,
			wantRemaining: 225000,
			wantHistory:   2,
		},
		{
			name:          "advances outside the month ignored",
			salaries:      []*core.Salary{monthly("Ali", june(1), 300000)},
			advances:      []*core.AdvanceHistory{advance("Ali", core.NewDate(2024, 5, 31), 50000), advance("Ali", core.NewDate(2024, 7, 1), 50000)},
			employee:      "Ali",
			wantBase:      300000,
			wantRemaining: 300000,
		},
		{
			name:          "remaining may go negative",
			salaries:      []*core.Salary{monthly("Ali", june(1), 100000)},
			advances:      []*core.AdvanceHistory{advance("Ali", june(2), 150000)},
			employee:      "Ali",
			wantBase:      100000,
			wantTaken:     150000,
			wantRemaining: -50000,
			wantHistory:   1,
		},
		{
			name:     "other employees do not match",
			salaries: []*core.Salary{monthly("Alia", june(1), 100000)},
			employee: "Ali",
			wantErr:  core.ErrNotFound,
		},
		{
			name:     "daily wage is not a monthly salary",
			salaries: []*core.Salary{{Employee: "Ali", Date: june(1), WageType: core.WageDaily}},
			employee: "Ali",
			wantErr:  core.ErrNotFound,
		},
		{
			name:     "two monthly salaries are ambiguous",
			salaries: []*core.Salary{monthly("Ali", june(1), 100000), monthly("Ali", june(28), 120000)},
			employee: "Ali",
			wantErr:  core.ErrAmbiguous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)
			svc := NewSalaryService(db, nil, log.Discard())
			ctx := context.Background()

			for _, s := range tt.salaries {
				if _, err := svc.Create(ctx, s); err != nil {
					t.Fatalf("Create() error = %v", err)
				}
			}
			for _, a := range tt.advances {
				if _, err := svc.CreateAdvance(ctx, a); err != nil {
					t.Fatalf("CreateAdvance() error = %v", err)
				}
			}

			got, err := svc.Reconcile(ctx, tt.employee, 6, 2024)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Reconcile() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Reconcile() error = %v", err)
			}
			if got.BaseSalary.Cents != tt.wantBase || got.TotalAdvanceTaken.Cents != tt.wantTaken || got.RemainingSalary.Cents != tt.wantRemaining {
				t.Errorf("Reconcile() = base %s taken %s remaining %s", got.BaseSalary, got.TotalAdvanceTaken, got.RemainingSalary)
			}
			if len(got.AdvanceHistory) != tt.wantHistory {
				t.Errorf("history = %d entries, want %d", len(got.AdvanceHistory), tt.wantHistory)
			}
			if got.Month != 6 || got.Year != 2024 || got.Employee != tt.employee {
				t.Errorf("Reconcile() header = %+v", got)
			}
		})
	}
}

func TestReconcileRejectsBadInput(t *testing.T) {
	db := openTestDB(t)
	svc := NewSalaryService(db, nil, log.Discard())
	ctx := context.Background()

	for _, tc := range []struct {
		employee    string
		month, year int
	}{
		{"Ali", 13, 2024},
		{"Ali", 0, 2024},
		{"Ali", 6, 12},
		{"  ", 6, 2024},
	} {
		if _, err := svc.Reconcile(ctx, tc.employee, tc.month, tc.year); !errors.Is(err, core.ErrValidation) {
			t.Errorf("Reconcile(%q, %d, %d) error = %v, want validation error", tc.employee, tc.month, tc.year, err)
		}
	}
}

func TestSalaryWritesNotify(t *testing.T) {
	db := openTestDB(t)
	n := &recordingNotifier{}
	svc := NewSalaryService(db, n, log.Discard())
	ctx := context.Background()

	s, err := svc.CreateMonthlySalary(ctx, monthly("Ali", core.NewDate(2023, 12, 1), 100000))
	if err != nil {
		t.Fatalf("CreateMonthlySalary() error = %v", err)
	}
	a, err := svc.CreateAdvance(ctx, advance("Ali", core.NewDate(2023, 12, 3), 1000))
	if err != nil {
		t.Fatalf("CreateAdvance() error = %v", err)
	}
	a.AdvanceTaken = core.Cents(2000)
	if _, err := svc.UpdateAdvance(ctx, &a); err != nil {
		t.Fatalf("UpdateAdvance() error = %v", err)
	}
	if err := svc.DeleteAdvance(ctx, a.ID); err != nil {
		t.Fatalf("DeleteAdvance() error = %v", err)
	}
	if err := svc.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, s.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}

	events := n.Events()
	wantOps := []string{log.OpCreate, log.OpCreate, log.OpUpdate, log.OpDelete, log.OpDelete}
	if len(events) != len(wantOps) {
		t.Fatalf("events = %+v", events)
	}
	for i, op := range wantOps {
		if events[i].operation != op || events[i].year != 2023 {
			t.Errorf("event %d = %+v, want %s in 2023", i, events[i], op)
		}
	}
}

func TestAdvanceMovedAcrossYearsNotifiesBothYears(t *testing.T) {
	db := openTestDB(t)
	n := &recordingNotifier{}
	svc := NewSalaryService(db, n, log.Discard())
	ctx := context.Background()

	a, err := svc.CreateAdvance(ctx, advance("Ali", core.NewDate(2023, 12, 30), 1000))
	if err != nil {
		t.Fatalf("CreateAdvance() error = %v", err)
	}
	a.Date = core.NewDate(2024, 1, 2)
	if _, err := svc.UpdateAdvance(ctx, &a); err != nil {
		t.Fatalf("UpdateAdvance() error = %v", err)
	}

	events := n.Events()
	if len(events) != 3 {
		t.Fatalf("events = %+v", events)
	}
	for i, year := range []int{2023, 2024} {
		if e := events[i+1]; e.operation != log.OpUpdate || e.year != year {
			t.Errorf("update event %d = %+v, want year %d", i, e, year)
		}
	}
}
