package services

import (
	"context"
	"fmt"
	"strconv"

	"backoffice/internal/auth"
	"backoffice/internal/core"
	"backoffice/internal/log"
	"backoffice/internal/storage"
)

const entityExpense = "expense"

// ExpenseService stores expenses and tells the notifier about them. The
// caller found in ctx is recorded as the last editor.
type ExpenseService struct {
	db       *storage.DB
	notifier Notifier
}

func NewExpenseService(db *storage.DB, notifier Notifier) *ExpenseService {
	return &ExpenseService{db: db, notifier: notifierOrNop(notifier)}
}

func (s *ExpenseService) Create(ctx context.Context, e *core.Expense) (core.Expense, error) {
	if e.Images == nil {
		e.Images = []string{}
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.UpdatedBy = auth.UserIDFromContext(ctx)
	if err := s.db.InTx(ctx, func(q *storage.Queries) error {
		return q.CreateExpense(ctx, e)
	}); err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.notifier.LedgerChanged(ctx, entityExpense, strconv.FormatInt(e.ID, 10), log.OpCreate, e.Date.Year())
	return *e, nil
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	return s.db.GetExpense(ctx, id)
}

func (s *ExpenseService) List(ctx context.Context, f storage.ExpenseFilter, page storage.Page) ([]core.Expense, int, error) {
	return s.db.ListExpenses(ctx, f, page)
}

func (s *ExpenseService) Update(ctx context.Context, e *core.Expense) (core.Expense, error) {
	if e.Images == nil {
		e.Images = []string{}
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.UpdatedBy = auth.UserIDFromContext(ctx)
	var before core.Expense
	if err := s.db.InTx(ctx, func(q *storage.Queries) error {
		var err error
		if before, err = q.GetExpense(ctx, e.ID); err != nil {
			return err
		}
		return q.UpdateExpense(ctx, e)
	}); err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	notifyYears(ctx, s.notifier, entityExpense, strconv.FormatInt(e.ID, 10), log.OpUpdate, before.Date.Year(), e.Date.Year())
	return *e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	e, err := s.db.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.notifier.LedgerChanged(ctx, entityExpense, strconv.FormatInt(id, 10), log.OpDelete, e.Date.Year())
	return nil
}
