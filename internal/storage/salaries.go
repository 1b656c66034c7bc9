package storage

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core"
)

// SalaryFilter narrows salary listings.
type SalaryFilter struct {
	Employee string
	WageType core.WageType
	Period   *core.Period
}

const salaryColumns = `id, wage_type, employee, month, date, amount_cents, total_paid_cents,
	salary_amount_cents, status, description, updated_by, created_at, updated_at`

func scanSalary(row interface{ Scan(...any) error }) (core.Salary, error) {
	var (
		s           core.Salary
		month, date any
		updatedBy   *int64
		ts          stamps
	)
	err := row.Scan(&s.ID, &s.WageType, &s.Employee, &month, &date, &s.Amount.Cents, &s.TotalPaid.Cents,
		&s.SalaryAmount.Cents, &s.Status, &s.Description, &updatedBy, &ts.created, &ts.updated)
	if err != nil {
		return s, mapError(err)
	}
	s.UpdatedBy = updatedBy
	if s.Month, err = dateFromDB(month); err != nil {
		return s, fmt.Errorf("salary %d month: %w", s.ID, err)
	}
	if s.Date, err = dateFromDB(date); err != nil {
		return s, fmt.Errorf("salary %d date: %w", s.ID, err)
	}
	if s.CreatedAt, s.UpdatedAt, err = ts.decode(); err != nil {
		return s, fmt.Errorf("salary %d timestamps: %w", s.ID, err)
	}
	return s, nil
}

func (q *Queries) CreateSalary(ctx context.Context, s *core.Salary) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO salaries (wage_type, employee, month, date, amount_cents,
		total_paid_cents, salary_amount_cents, status, description, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(s.WageType), s.Employee, dateArg(s.Month), dateArg(s.Date), s.Amount.Cents, s.TotalPaid.Cents,
		s.SalaryAmount.Cents, s.Status, s.Description, nullableID(s.UpdatedBy), timeArg(now), timeArg(now))
	if err != nil {
		return fmt.Errorf("insert salary: %w", err)
	}
	s.ID, s.CreatedAt, s.UpdatedAt = id, now, now
	return nil
}

func (q *Queries) GetSalary(ctx context.Context, id int64) (core.Salary, error) {
	s, err := scanSalary(q.queryRow(ctx, `SELECT `+salaryColumns+` FROM salaries WHERE id = ?`, id))
	if err != nil {
		return s, fmt.Errorf("get salary %d: %w", id, err)
	}
	return s, nil
}

func (q *Queries) ListSalaries(ctx context.Context, f SalaryFilter, page Page) ([]core.Salary, int, error) {
	where, args := " WHERE 1=1", []any{}
	if f.Employee != "" {
		where += " AND employee = ?"
		args = append(args, f.Employee)
	}
	if f.WageType != "" {
		where += " AND wage_type = ?"
		args = append(args, string(f.WageType))
	}
	if f.Period != nil {
		where += " AND date >= ? AND date < ?"
		args = append(args, dateArg(f.Period.From), dateArg(f.Period.To))
	}

	total, err := q.count(ctx, `SELECT COUNT(*) FROM salaries`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count salaries: %w", err)
	}
	salaries, err := q.selectSalaries(ctx, `SELECT `+salaryColumns+` FROM salaries`+where+
		` ORDER BY date DESC, id DESC`+page.clause(), args...)
	if err != nil {
		return nil, 0, err
	}
	return salaries, total, nil
}

// FindMonthlySalaries returns the Monthly records of employee whose month
// falls in p. More than one match is possible since nothing enforces
// uniqueness per employee and month.
func (q *Queries) FindMonthlySalaries(ctx context.Context, employee string, p core.Period) ([]core.Salary, error) {
	return q.selectSalaries(ctx, `SELECT `+salaryColumns+` FROM salaries
		WHERE employee = ? AND wage_type = ? AND month >= ? AND month < ? ORDER BY id`,
		employee, string(core.WageMonthly), dateArg(p.From), dateArg(p.To))
}

func (q *Queries) selectSalaries(ctx context.Context, query string, args ...any) ([]core.Salary, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	defer rows.Close()

	salaries := []core.Salary{}
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, err
		}
		salaries = append(salaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate salaries: %w", err)
	}
	return salaries, nil
}

func (q *Queries) UpdateSalary(ctx context.Context, s *core.Salary) error {
	s.UpdatedAt = time.Now().UTC()
	err := q.execOne(ctx, `UPDATE salaries SET wage_type = ?, employee = ?, month = ?, date = ?,
		amount_cents = ?, total_paid_cents = ?, salary_amount_cents = ?, status = ?, description = ?,
		updated_by = ?, updated_at = ? WHERE id = ?`,
		string(s.WageType), s.Employee, dateArg(s.Month), dateArg(s.Date), s.Amount.Cents, s.TotalPaid.Cents,
		s.SalaryAmount.Cents, s.Status, s.Description, nullableID(s.UpdatedBy), timeArg(s.UpdatedAt), s.ID)
	if err != nil {
		return fmt.Errorf("update salary %d: %w", s.ID, err)
	}
	return nil
}

func (q *Queries) DeleteSalary(ctx context.Context, id int64) error {
	if err := q.execOne(ctx, `DELETE FROM salaries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete salary %d: %w", id, err)
	}
	return nil
}
