package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"backoffice/internal/auth"
	"backoffice/internal/core"
	"backoffice/internal/log"
	"backoffice/internal/storage"
)

const (
	entitySalary  = "salary"
	entityAdvance = "advance"
)

// SalaryService manages payouts and advances and reconciles the two.
type SalaryService struct {
	db       *storage.DB
	notifier Notifier
	logger   *log.Logger
}

func NewSalaryService(db *storage.DB, notifier Notifier, logger *log.Logger) *SalaryService {
	if logger == nil {
		logger = log.Discard()
	}
	return &SalaryService{db: db, notifier: notifierOrNop(notifier), logger: logger.WithComponent(log.ComponentSalary)}
}

func (s *SalaryService) Create(ctx context.Context, sal *core.Salary) (core.Salary, error) {
	sal.Normalize()
	if err := sal.Validate(); err != nil {
		return core.Salary{}, err
	}
	sal.UpdatedBy = auth.UserIDFromContext(ctx)
	if err := s.db.CreateSalary(ctx, sal); err != nil {
		return core.Salary{}, fmt.Errorf("create salary: %w", err)
	}
	s.notifier.LedgerChanged(ctx, entitySalary, strconv.FormatInt(sal.ID, 10), log.OpCreate, sal.Date.Year())
	return *sal, nil
}

// CreateDailyWage records a day worked. Daily records never carry money.
func (s *SalaryService) CreateDailyWage(ctx context.Context, sal *core.Salary) (core.Salary, error) {
	sal.WageType = core.WageDaily
	return s.Create(ctx, sal)
}

// CreateMonthlySalary records a month's salary; amount, total paid and
// salary amount end up equal.
func (s *SalaryService) CreateMonthlySalary(ctx context.Context, sal *core.Salary) (core.Salary, error) {
	sal.WageType = core.WageMonthly
	return s.Create(ctx, sal)
}

func (s *SalaryService) Get(ctx context.Context, id int64) (core.Salary, error) {
	return s.db.GetSalary(ctx, id)
}

func (s *SalaryService) List(ctx context.Context, f storage.SalaryFilter, page storage.Page) ([]core.Salary, int, error) {
	return s.db.ListSalaries(ctx, f, page)
}

func (s *SalaryService) Update(ctx context.Context, sal *core.Salary) (core.Salary, error) {
	sal.Normalize()
	if err := sal.Validate(); err != nil {
		return core.Salary{}, err
	}
	sal.UpdatedBy = auth.UserIDFromContext(ctx)
	var before core.Salary
	if err := s.db.InTx(ctx, func(q *storage.Queries) error {
		var err error
		if before, err = q.GetSalary(ctx, sal.ID); err != nil {
			return err
		}
		return q.UpdateSalary(ctx, sal)
	}); err != nil {
		return core.Salary{}, err
	}
	notifyYears(ctx, s.notifier, entitySalary, strconv.FormatInt(sal.ID, 10), log.OpUpdate, before.Date.Year(), sal.Date.Year())
	return *sal, nil
}

func (s *SalaryService) Delete(ctx context.Context, id int64) error {
	sal, err := s.db.GetSalary(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteSalary(ctx, id); err != nil {
		return err
	}
	s.notifier.LedgerChanged(ctx, entitySalary, strconv.FormatInt(id, 10), log.OpDelete, sal.Date.Year())
	return nil
}

// Reconcile finds the Monthly salary of employee for the month and
// subtracts the advances taken in that month. Employee names match
// exactly. No Monthly record is ErrNotFound; more than one is ErrAmbiguous,
// since nothing tells which of them the advances were drawn against.
func (s *SalaryService) Reconcile(ctx context.Context, employee string, month, year int) (core.Reconciliation, error) {
	if err := core.ValidateYear(year); err != nil {
		return core.Reconciliation{}, err
	}
	if err := core.ValidateMonth(month); err != nil {
		return core.Reconciliation{}, err
	}
	if strings.TrimSpace(employee) == "" {
		return core.Reconciliation{}, core.FieldError("employee", "this field is required")
	}
	period := core.MonthPeriod(year, month)

	salaries, err := s.db.FindMonthlySalaries(ctx, employee, period)
	if err != nil {
		return core.Reconciliation{}, fmt.Errorf("reconcile %s: %w", employee, err)
	}
	switch len(salaries) {
	case 0:
		return core.Reconciliation{}, fmt.Errorf("%w: no monthly salary for %s in %d-%02d", core.ErrNotFound, employee, year, month)
	case 1:
	default:
		s.logger.WarnContext(ctx, "Several monthly salaries match",
			log.FieldEmployee, employee,
			log.FieldYear, year,
			log.FieldMonth, month,
			"matches", len(salaries))
		return core.Reconciliation{}, fmt.Errorf("%w: %d monthly salaries for %s in %d-%02d",
			core.ErrAmbiguous, len(salaries), employee, year, month)
	}

	advances, _, err := s.db.ListAdvances(ctx, storage.AdvanceFilter{Employee: employee, Period: &period}, storage.Page{})
	if err != nil {
		return core.Reconciliation{}, fmt.Errorf("reconcile %s: %w", employee, err)
	}
	return core.Reconcile(salaries[0], advances, month, year), nil
}

// Advances

func (s *SalaryService) CreateAdvance(ctx context.Context, a *core.AdvanceHistory) (core.AdvanceHistory, error) {
	a.Employee = strings.TrimSpace(a.Employee)
	if err := a.Validate(); err != nil {
		return core.AdvanceHistory{}, err
	}
	a.UpdatedBy = auth.UserIDFromContext(ctx)
	if err := s.db.CreateAdvance(ctx, a); err != nil {
		return core.AdvanceHistory{}, fmt.Errorf("create advance: %w", err)
	}
	s.notifier.LedgerChanged(ctx, entityAdvance, strconv.FormatInt(a.ID, 10), log.OpCreate, a.Date.Year())
	return *a, nil
}

func (s *SalaryService) GetAdvance(ctx context.Context, id int64) (core.AdvanceHistory, error) {
	return s.db.GetAdvance(ctx, id)
}

func (s *SalaryService) ListAdvances(ctx context.Context, f storage.AdvanceFilter, page storage.Page) ([]core.AdvanceHistory, int, error) {
	return s.db.ListAdvances(ctx, f, page)
}

func (s *SalaryService) UpdateAdvance(ctx context.Context, a *core.AdvanceHistory) (core.AdvanceHistory, error) {
	a.Employee = strings.TrimSpace(a.Employee)
	if err := a.Validate(); err != nil {
		return core.AdvanceHistory{}, err
	}
	a.UpdatedBy = auth.UserIDFromContext(ctx)
	var before core.AdvanceHistory
	if err := s.db.InTx(ctx, func(q *storage.Queries) error {
		var err error
		if before, err = q.GetAdvance(ctx, a.ID); err != nil {
			return err
		}
		return q.UpdateAdvance(ctx, a)
	}); err != nil {
		return core.AdvanceHistory{}, err
	}
	notifyYears(ctx, s.notifier, entityAdvance, strconv.FormatInt(a.ID, 10), log.OpUpdate, before.Date.Year(), a.Date.Year())
	return *a, nil
}

func (s *SalaryService) DeleteAdvance(ctx context.Context, id int64) error {
	a, err := s.db.GetAdvance(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteAdvance(ctx, id); err != nil {
		return err
	}
	s.notifier.LedgerChanged(ctx, entityAdvance, strconv.FormatInt(id, 10), log.OpDelete, a.Date.Year())
	return nil
}
