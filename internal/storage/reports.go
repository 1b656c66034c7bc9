package storage

import (
	"context"
	"fmt"
	"strings"

	"backoffice/internal/core"
)

// reportSource describes how one report source reduces its rows to dated
// amounts. Every source selects an identifier, a date and three integer
// columns that amount combines.
type reportSource struct {
	table    string
	id       string
	cols     string
	statuses bool
	amount   func(a, b, c int64) (core.Money, error)
}

var reportSources = map[string]reportSource{
	core.SourceProductProfit: {
		table: "products", id: "id", cols: "sale_price_cents, purchase_price_cents, quantity",
		amount: func(sale, purchase, qty int64) (core.Money, error) {
			return lineAmount(sale-purchase, qty)
		},
	},
	core.SourceProductSales: {
		table: "products", id: "id", cols: "sale_price_cents, purchase_price_cents, quantity",
		amount: func(sale, _, qty int64) (core.Money, error) { return lineAmount(sale, qty) },
	},
	core.SourceZarorrat: {
		table: "zarorrat_projects", id: "project_id", cols: "amount_cents, 0, 0", statuses: true,
		amount: plainAmount,
	},
	core.SourceSolar: {
		table: "solar_projects", id: "project_id", cols: "grand_total_cents, 0, 0", statuses: true,
		amount: plainAmount,
	},
	core.SourceExpense: {
		table: "expenses", id: "id", cols: "amount_cents, 0, 0",
		amount: plainAmount,
	},
	core.SourceSalary: {
		table: "salaries", id: "id", cols: "amount_cents, 0, 0",
		amount: plainAmount,
	},
}

const maxLineQuantity = 1 << 31

func lineAmount(unit, qty int64) (core.Money, error) {
	if qty < 0 || qty > maxLineQuantity {
		return core.Money{}, fmt.Errorf("quantity %d out of range", qty)
	}
	return core.Cents(unit).Mul(int(qty)), nil
}

func plainAmount(a, _, _ int64) (core.Money, error) {
	return core.Cents(a), nil
}

func (s reportSource) where(p core.Period, statuses []core.ProjectStatus) (string, []any) {
	where := " WHERE date >= ? AND date < ?"
	args := []any{dateArg(p.From), dateArg(p.To)}
	if s.statuses && len(statuses) > 0 {
		marks := make([]string, len(statuses))
		for i, st := range statuses {
			marks[i] = "?"
			args = append(args, string(st))
		}
		where += " AND status IN (" + strings.Join(marks, ", ") + ")"
	}
	return where, args
}

// Contributions returns the dated amounts of source within p. Statuses
// restrict project sources and are ignored for the others. Rows that cannot
// be decoded are returned as RowErrors and left out of the result; only a
// failing query is an error.
func (q *Queries) Contributions(ctx context.Context, source string, p core.Period, statuses ...core.ProjectStatus) ([]core.Contribution, []core.RowError, error) {
	src, ok := reportSources[source]
	if !ok {
		return nil, nil, fmt.Errorf("unknown report source %q", source)
	}
	where, args := src.where(p, statuses)

	rows, err := q.query(ctx, `SELECT `+src.id+`, date, `+src.cols+` FROM `+src.table+where+` ORDER BY date, id`, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", source, err)
	}
	defer rows.Close()

	var (
		contributions []core.Contribution
		rowErrs       []core.RowError
	)
	for rows.Next() {
		var (
			rowID   string
			rawDate any
			a, b, c int64
		)
		if err := rows.Scan(&rowID, &rawDate, &a, &b, &c); err != nil {
			rowErrs = append(rowErrs, core.RowError{Source: source, RowID: rowID, Err: err})
			continue
		}
		date, err := dateFromDB(rawDate)
		if err == nil && date.IsZero() {
			err = core.ErrInvalidDate
		}
		if err != nil {
			rowErrs = append(rowErrs, core.RowError{Source: source, RowID: rowID, Err: err})
			continue
		}
		amount, err := src.amount(a, b, c)
		if err != nil {
			rowErrs = append(rowErrs, core.RowError{Source: source, RowID: rowID, Err: err})
			continue
		}
		contributions = append(contributions, core.Contribution{Source: source, RowID: rowID, Date: date, Amount: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate %s: %w", source, err)
	}
	return contributions, rowErrs, nil
}

// CountRows counts the rows of source dated within p, optionally limited to
// statuses for project sources.
func (q *Queries) CountRows(ctx context.Context, source string, p core.Period, statuses ...core.ProjectStatus) (int, error) {
	src, ok := reportSources[source]
	if !ok {
		return 0, fmt.Errorf("unknown report source %q", source)
	}
	where, args := src.where(p, statuses)
	n, err := q.count(ctx, `SELECT COUNT(*) FROM `+src.table+where, args...)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", source, err)
	}
	return n, nil
}
