package storage

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core"
)

// ProjectFilter narrows project listings of either family.
type ProjectFilter struct {
	Status           core.ProjectStatus
	InstallationType core.InstallationType
	Period           *core.Period
}

// LastProjectID returns the highest identifier in table starting with
// prefix, or "" when the family has none for that year. Longer suffixes
// sort first so that 10000 follows 9999.
func (q *Queries) LastProjectID(ctx context.Context, f core.Family, prefix string) (string, error) {
	table := "zarorrat_projects"
	if f == core.FamilySolar {
		table = "solar_projects"
	}
	var last string
	err := q.queryRow(ctx, `SELECT project_id FROM `+table+` WHERE project_id LIKE ?
		ORDER BY LENGTH(project_id) DESC, project_id DESC LIMIT 1`, prefix+"%").Scan(&last)
	if err != nil {
		if err = mapError(err); err == core.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("last project id %s: %w", prefix, err)
	}
	return last, nil
}

// Zarorrat service catalog

func (q *Queries) CreateZarorratService(ctx context.Context, s *core.ZarorratService) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO zarorrat_services (name, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?)`, s.Name, s.IsActive, timeArg(now), timeArg(now))
	if err != nil {
		return fmt.Errorf("insert zarorrat service: %w", err)
	}
	s.ID, s.CreatedAt, s.UpdatedAt = id, now, now
	return nil
}

func (q *Queries) ListZarorratServices(ctx context.Context, activeOnly bool) ([]core.ZarorratService, error) {
	query := `SELECT id, name, is_active, created_at, updated_at FROM zarorrat_services`
	var args []any
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	return q.selectZarorratServices(ctx, query+` ORDER BY name`, args...)
}

// ZarorratServicesByID returns the catalog entries among ids that exist.
func (q *Queries) ZarorratServicesByID(ctx context.Context, ids []int64) ([]core.ZarorratService, error) {
	services := []core.ZarorratService{}
	for _, id := range ids {
		found, err := q.selectZarorratServices(ctx, `SELECT id, name, is_active, created_at, updated_at
			FROM zarorrat_services WHERE id = ?`, id)
		if err != nil {
			return nil, err
		}
		services = append(services, found...)
	}
	return services, nil
}

func (q *Queries) selectZarorratServices(ctx context.Context, query string, args ...any) ([]core.ZarorratService, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list zarorrat services: %w", err)
	}
	defer rows.Close()

	services := []core.ZarorratService{}
	for rows.Next() {
		var (
			s  core.ZarorratService
			ts stamps
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.IsActive, &ts.created, &ts.updated); err != nil {
			return nil, mapError(err)
		}
		if s.CreatedAt, s.UpdatedAt, err = ts.decode(); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// Zarorrat projects

const zarorratColumns = `id, project_id, customer_name, address, date, valid_until, notes, amount_cents,
	status, created_at, updated_at`

func scanZarorrat(row interface{ Scan(...any) error }) (core.ZarorratProject, error) {
	var (
		p                core.ZarorratProject
		date, validUntil any
		ts               stamps
	)
	err := row.Scan(&p.ID, &p.ProjectID, &p.CustomerName, &p.Address, &date, &validUntil, &p.Notes,
		&p.Amount.Cents, &p.Status, &ts.created, &ts.updated)
	if err != nil {
		return p, mapError(err)
	}
	if p.Date, err = dateFromDB(date); err != nil {
		return p, fmt.Errorf("project %s date: %w", p.ProjectID, err)
	}
	if p.ValidUntil, err = dateFromDB(validUntil); err != nil {
		return p, fmt.Errorf("project %s valid_until: %w", p.ProjectID, err)
	}
	if p.CreatedAt, p.UpdatedAt, err = ts.decode(); err != nil {
		return p, fmt.Errorf("project %s timestamps: %w", p.ProjectID, err)
	}
	return p, nil
}

// CreateZarorratProject inserts p with its already allocated ProjectID and
// links the services listed in p.Services.
func (q *Queries) CreateZarorratProject(ctx context.Context, p *core.ZarorratProject) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO zarorrat_projects (project_id, customer_name, address, date,
		valid_until, notes, amount_cents, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProjectID, p.CustomerName, p.Address, dateArg(p.Date), dateArg(p.ValidUntil), p.Notes,
		p.Amount.Cents, string(p.Status), timeArg(now), timeArg(now))
	if err != nil {
		return fmt.Errorf("insert zarorrat project %s: %w", p.ProjectID, err)
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	return q.linkZarorratServices(ctx, id, p.Services)
}

func (q *Queries) GetZarorratProject(ctx context.Context, projectID string) (core.ZarorratProject, error) {
	p, err := scanZarorrat(q.queryRow(ctx, `SELECT `+zarorratColumns+` FROM zarorrat_projects WHERE project_id = ?`, projectID))
	if err != nil {
		return p, fmt.Errorf("get zarorrat project %s: %w", projectID, err)
	}
	if p.Services, err = q.zarorratProjectServices(ctx, p.ID); err != nil {
		return p, err
	}
	return p, nil
}

func (q *Queries) ListZarorratProjects(ctx context.Context, f ProjectFilter, page Page) ([]core.ZarorratProject, int, error) {
	where, args := " WHERE 1=1", []any{}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.Period != nil {
		where += " AND date >= ? AND date < ?"
		args = append(args, dateArg(f.Period.From), dateArg(f.Period.To))
	}

	total, err := q.count(ctx, `SELECT COUNT(*) FROM zarorrat_projects`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count zarorrat projects: %w", err)
	}

	rows, err := q.query(ctx, `SELECT `+zarorratColumns+` FROM zarorrat_projects`+where+
		` ORDER BY date DESC, id DESC`+page.clause(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list zarorrat projects: %w", err)
	}
	defer rows.Close()

	projects := []core.ZarorratProject{}
	for rows.Next() {
		p, err := scanZarorrat(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate zarorrat projects: %w", err)
	}

	for i := range projects {
		if projects[i].Services, err = q.zarorratProjectServices(ctx, projects[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return projects, total, nil
}

// UpdateZarorratProject rewrites the mutable columns of p and replaces its
// service links. project_id never changes.
func (q *Queries) UpdateZarorratProject(ctx context.Context, p *core.ZarorratProject) error {
	p.UpdatedAt = time.Now().UTC()
	err := q.execOne(ctx, `UPDATE zarorrat_projects SET customer_name = ?, address = ?, date = ?,
		valid_until = ?, notes = ?, amount_cents = ?, status = ?, updated_at = ? WHERE id = ?`,
		p.CustomerName, p.Address, dateArg(p.Date), dateArg(p.ValidUntil), p.Notes, p.Amount.Cents,
		string(p.Status), timeArg(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update zarorrat project %s: %w", p.ProjectID, err)
	}
	if _, err := q.exec(ctx, `DELETE FROM zarorrat_project_services WHERE project_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear zarorrat project services: %w", err)
	}
	return q.linkZarorratServices(ctx, p.ID, p.Services)
}

func (q *Queries) DeleteZarorratProject(ctx context.Context, projectID string) error {
	if err := q.execOne(ctx, `DELETE FROM zarorrat_projects WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("delete zarorrat project %s: %w", projectID, err)
	}
	return nil
}

func (q *Queries) linkZarorratServices(ctx context.Context, projectID int64, services []core.ZarorratService) error {
	now := timeArg(time.Now().UTC())
	for _, s := range services {
		if _, err := q.exec(ctx, `INSERT INTO zarorrat_project_services (project_id, service_id, created_at)
			VALUES (?, ?, ?)`, projectID, s.ID, now); err != nil {
			return fmt.Errorf("link zarorrat service %d: %w", s.ID, err)
		}
	}
	return nil
}

func (q *Queries) zarorratProjectServices(ctx context.Context, projectID int64) ([]core.ZarorratService, error) {
	return q.selectZarorratServices(ctx, `SELECT s.id, s.name, s.is_active, s.created_at, s.updated_at
		FROM zarorrat_services s JOIN zarorrat_project_services ps ON ps.service_id = s.id
		WHERE ps.project_id = ? ORDER BY s.name`, projectID)
}
