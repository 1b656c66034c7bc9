package storage

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core"
)

// AdvanceFilter narrows advance listings.
type AdvanceFilter struct {
	Employee string
	Period   *core.Period
}

const advanceColumns = `id, employee, date, advance_taken_cents, purpose, updated_by, created_at, updated_at`

func scanAdvance(row interface{ Scan(...any) error }) (core.AdvanceHistory, error) {
	var (
		a         core.AdvanceHistory
		date      any
		updatedBy *int64
		ts        stamps
	)
	err := row.Scan(&a.ID, &a.Employee, &date, &a.AdvanceTaken.Cents, &a.Purpose, &updatedBy, &ts.created, &ts.updated)
	if err != nil {
		return a, mapError(err)
	}
	a.UpdatedBy = updatedBy
	if a.Date, err = dateFromDB(date); err != nil {
		return a, fmt.Errorf("advance %d date: %w", a.ID, err)
	}
	if a.CreatedAt, a.UpdatedAt, err = ts.decode(); err != nil {
		return a, fmt.Errorf("advance %d timestamps: %w", a.ID, err)
	}
	return a, nil
}

func (q *Queries) CreateAdvance(ctx context.Context, a *core.AdvanceHistory) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO advances (employee, date, advance_taken_cents, purpose, updated_by,
		created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Employee, dateArg(a.Date), a.AdvanceTaken.Cents, a.Purpose, nullableID(a.UpdatedBy), timeArg(now), timeArg(now))
	if err != nil {
		return fmt.Errorf("insert advance: %w", err)
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

func (q *Queries) GetAdvance(ctx context.Context, id int64) (core.AdvanceHistory, error) {
	a, err := scanAdvance(q.queryRow(ctx, `SELECT `+advanceColumns+` FROM advances WHERE id = ?`, id))
	if err != nil {
		return a, fmt.Errorf("get advance %d: %w", id, err)
	}
	return a, nil
}

// ListAdvances returns advances newest first, ties broken by id.
func (q *Queries) ListAdvances(ctx context.Context, f AdvanceFilter, page Page) ([]core.AdvanceHistory, int, error) {
	where, args := " WHERE 1=1", []any{}
	if f.Employee != "" {
		where += " AND employee = ?"
		args = append(args, f.Employee)
	}
	if f.Period != nil {
		where += " AND date >= ? AND date < ?"
		args = append(args, dateArg(f.Period.From), dateArg(f.Period.To))
	}

	total, err := q.count(ctx, `SELECT COUNT(*) FROM advances`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count advances: %w", err)
	}

	rows, err := q.query(ctx, `SELECT `+advanceColumns+` FROM advances`+where+
		` ORDER BY date DESC, id DESC`+page.clause(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list advances: %w", err)
	}
	defer rows.Close()

	advances := []core.AdvanceHistory{}
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, 0, err
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate advances: %w", err)
	}
	return advances, total, nil
}

func (q *Queries) UpdateAdvance(ctx context.Context, a *core.AdvanceHistory) error {
	a.UpdatedAt = time.Now().UTC()
	err := q.execOne(ctx, `UPDATE advances SET employee = ?, date = ?, advance_taken_cents = ?, purpose = ?,
		updated_by = ?, updated_at = ? WHERE id = ?`,
		a.Employee, dateArg(a.Date), a.AdvanceTaken.Cents, a.Purpose, nullableID(a.UpdatedBy), timeArg(a.UpdatedAt), a.ID)
	if err != nil {
		return fmt.Errorf("update advance %d: %w", a.ID, err)
	}
	return nil
}

func (q *Queries) DeleteAdvance(ctx context.Context, id int64) error {
	if err := q.execOne(ctx, `DELETE FROM advances WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete advance %d: %w", id, err)
	}
	return nil
}
