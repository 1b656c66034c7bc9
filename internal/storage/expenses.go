package storage

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core"
)

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	Utilizer string
	Category string
	Period   *core.Period
}

const expenseColumns = `id, title, utilizer, category, amount_cents, date, description, updated_by, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var (
		e         core.Expense
		date      any
		updatedBy *int64
		ts        stamps
	)
	err := row.Scan(&e.ID, &e.Title, &e.Utilizer, &e.Category, &e.Amount.Cents, &date,
		&e.Description, &updatedBy, &ts.created, &ts.updated)
	if err != nil {
		return e, mapError(err)
	}
	e.UpdatedBy = updatedBy
	if e.Date, err = dateFromDB(date); err != nil {
		return e, fmt.Errorf("expense %d date: %w", e.ID, err)
	}
	if e.CreatedAt, e.UpdatedAt, err = ts.decode(); err != nil {
		return e, fmt.Errorf("expense %d timestamps: %w", e.ID, err)
	}
	return e, nil
}

func (q *Queries) CreateExpense(ctx context.Context, e *core.Expense) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO expenses (title, utilizer, category, amount_cents, date,
		description, updated_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Title, e.Utilizer, e.Category, e.Amount.Cents, dateArg(e.Date), e.Description,
		nullableID(e.UpdatedBy), timeArg(now), timeArg(now))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	e.ID, e.CreatedAt, e.UpdatedAt = id, now, now
	return q.replaceExpenseImages(ctx, id, e.Images)
}

func (q *Queries) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	e, err := scanExpense(q.queryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id))
	if err != nil {
		return e, fmt.Errorf("get expense %d: %w", id, err)
	}
	if e.Images, err = q.expenseImages(ctx, id); err != nil {
		return e, err
	}
	return e, nil
}

func (q *Queries) ListExpenses(ctx context.Context, f ExpenseFilter, page Page) ([]core.Expense, int, error) {
	where, args := " WHERE 1=1", []any{}
	if f.Utilizer != "" {
		where += " AND utilizer = ?"
		args = append(args, f.Utilizer)
	}
	if f.Category != "" {
		where += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.Period != nil {
		where += " AND date >= ? AND date < ?"
		args = append(args, dateArg(f.Period.From), dateArg(f.Period.To))
	}

	total, err := q.count(ctx, `SELECT COUNT(*) FROM expenses`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	rows, err := q.query(ctx, `SELECT `+expenseColumns+` FROM expenses`+where+` ORDER BY date DESC, id DESC`+page.clause(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate expenses: %w", err)
	}

	for i := range expenses {
		if expenses[i].Images, err = q.expenseImages(ctx, expenses[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return expenses, total, nil
}

func (q *Queries) UpdateExpense(ctx context.Context, e *core.Expense) error {
	e.UpdatedAt = time.Now().UTC()
	err := q.execOne(ctx, `UPDATE expenses SET title = ?, utilizer = ?, category = ?, amount_cents = ?,
		date = ?, description = ?, updated_by = ?, updated_at = ? WHERE id = ?`,
		e.Title, e.Utilizer, e.Category, e.Amount.Cents, dateArg(e.Date), e.Description,
		nullableID(e.UpdatedBy), timeArg(e.UpdatedAt), e.ID)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	return q.replaceExpenseImages(ctx, e.ID, e.Images)
}

func (q *Queries) DeleteExpense(ctx context.Context, id int64) error {
	if err := q.execOne(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}

func (q *Queries) expenseImages(ctx context.Context, expenseID int64) ([]string, error) {
	rows, err := q.query(ctx, `SELECT image FROM expense_images WHERE expense_id = ? ORDER BY sort_order`, expenseID)
	if err != nil {
		return nil, fmt.Errorf("list expense images: %w", err)
	}
	defer rows.Close()

	images := []string{}
	for rows.Next() {
		var img string
		if err := rows.Scan(&img); err != nil {
			return nil, mapError(err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// replaceExpenseImages stores images as slots 1..n.
func (q *Queries) replaceExpenseImages(ctx context.Context, expenseID int64, images []string) error {
	if _, err := q.exec(ctx, `DELETE FROM expense_images WHERE expense_id = ?`, expenseID); err != nil {
		return fmt.Errorf("clear expense images: %w", err)
	}
	for i, img := range images {
		if _, err := q.exec(ctx, `INSERT INTO expense_images (expense_id, image, sort_order) VALUES (?, ?, ?)`,
			expenseID, img, i+1); err != nil {
			return fmt.Errorf("insert expense image: %w", err)
		}
	}
	return nil
}
