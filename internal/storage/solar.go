package storage

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core"
)

const solarColumns = `id, project_id, customer_name, address, date, valid_until, project_type,
	installation_type, subtotal_cents, tax_hundredths, grand_total_cents, advance_payment_cents,
	total_payment_cents, completion_payment_cents, status, created_at, updated_at`

func scanSolar(row interface{ Scan(...any) error }) (core.SolarProject, error) {
	var (
		p                core.SolarProject
		date, validUntil any
		ts               stamps
	)
	err := row.Scan(&p.ID, &p.ProjectID, &p.CustomerName, &p.Address, &date, &validUntil, &p.ProjectType,
		&p.InstallationType, &p.Subtotal.Cents, &p.TaxPercentage.Hundredths, &p.GrandTotal.Cents,
		&p.AdvancePayment.Cents, &p.TotalPayment.Cents, &p.CompletionPayment.Cents, &p.Status,
		&ts.created, &ts.updated)
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

// CreateSolarProject inserts the parent row only. Children and totals are
// written by the caller in the same transaction.
func (q *Queries) CreateSolarProject(ctx context.Context, p *core.SolarProject) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO solar_projects (project_id, customer_name, address, date,
		valid_until, project_type, installation_type, subtotal_cents, tax_hundredths, grand_total_cents,
		advance_payment_cents, total_payment_cents, completion_payment_cents, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProjectID, p.CustomerName, p.Address, dateArg(p.Date), dateArg(p.ValidUntil), string(p.ProjectType),
		string(p.InstallationType), p.Subtotal.Cents, p.TaxPercentage.Hundredths, p.GrandTotal.Cents,
		p.AdvancePayment.Cents, p.TotalPayment.Cents, p.CompletionPayment.Cents, string(p.Status),
		timeArg(now), timeArg(now))
	if err != nil {
		return fmt.Errorf("insert solar project %s: %w", p.ProjectID, err)
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	return nil
}

// GetSolarProject loads a project with its line items, images and checklist.
func (q *Queries) GetSolarProject(ctx context.Context, projectID string) (core.SolarProject, error) {
	p, err := scanSolar(q.queryRow(ctx, `SELECT `+solarColumns+` FROM solar_projects WHERE project_id = ?`, projectID))
	if err != nil {
		return p, fmt.Errorf("get solar project %s: %w", projectID, err)
	}
	if err := q.loadSolarChildren(ctx, &p); err != nil {
		return p, err
	}
	return p, nil
}

func (q *Queries) loadSolarChildren(ctx context.Context, p *core.SolarProject) error {
	var err error
	if p.LineItems, err = q.ListSolarLineItems(ctx, p.ID); err != nil {
		return err
	}
	if p.Images, err = q.ListSolarImages(ctx, p.ID); err != nil {
		return err
	}
	if p.Checklist, err = q.ListProjectChecklist(ctx, p.ID); err != nil {
		return err
	}
	return nil
}

func (q *Queries) ListSolarProjects(ctx context.Context, f ProjectFilter, page Page) ([]core.SolarProject, int, error) {
	where, args := " WHERE 1=1", []any{}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.InstallationType != "" {
		where += " AND installation_type = ?"
		args = append(args, string(f.InstallationType))
	}
	if f.Period != nil {
		where += " AND date >= ? AND date < ?"
		args = append(args, dateArg(f.Period.From), dateArg(f.Period.To))
	}

	total, err := q.count(ctx, `SELECT COUNT(*) FROM solar_projects`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count solar projects: %w", err)
	}

	rows, err := q.query(ctx, `SELECT `+solarColumns+` FROM solar_projects`+where+
		` ORDER BY date DESC, id DESC`+page.clause(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list solar projects: %w", err)
	}
	defer rows.Close()

	projects := []core.SolarProject{}
	for rows.Next() {
		p, err := scanSolar(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate solar projects: %w", err)
	}

	for i := range projects {
		if err := q.loadSolarChildren(ctx, &projects[i]); err != nil {
			return nil, 0, err
		}
	}
	return projects, total, nil
}

// UpdateSolarProject rewrites the descriptive columns and the advance
// payment. Totals are written separately by UpdateSolarTotals.
func (q *Queries) UpdateSolarProject(ctx context.Context, p *core.SolarProject) error {
	p.UpdatedAt = time.Now().UTC()
	err := q.execOne(ctx, `UPDATE solar_projects SET customer_name = ?, address = ?, date = ?, valid_until = ?,
		project_type = ?, installation_type = ?, tax_hundredths = ?, advance_payment_cents = ?, status = ?,
		updated_at = ? WHERE id = ?`,
		p.CustomerName, p.Address, dateArg(p.Date), dateArg(p.ValidUntil), string(p.ProjectType),
		string(p.InstallationType), p.TaxPercentage.Hundredths, p.AdvancePayment.Cents, string(p.Status),
		timeArg(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update solar project %s: %w", p.ProjectID, err)
	}
	return nil
}

// UpdateSolarTotals persists the derived monetary fields.
func (q *Queries) UpdateSolarTotals(ctx context.Context, id int64, t core.SolarTotals) error {
	err := q.execOne(ctx, `UPDATE solar_projects SET subtotal_cents = ?, grand_total_cents = ?,
		total_payment_cents = ?, completion_payment_cents = ?, updated_at = ? WHERE id = ?`,
		t.Subtotal.Cents, t.GrandTotal.Cents, t.TotalPayment.Cents, t.CompletionPayment.Cents,
		timeArg(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("update solar totals %d: %w", id, err)
	}
	return nil
}

func (q *Queries) DeleteSolarProject(ctx context.Context, projectID string) error {
	if err := q.execOne(ctx, `DELETE FROM solar_projects WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("delete solar project %s: %w", projectID, err)
	}
	return nil
}

// Line items

func (q *Queries) ListSolarLineItems(ctx context.Context, projectID int64) ([]core.SolarLineItem, error) {
	rows, err := q.query(ctx, `SELECT id, product_type, specify_product, quantity, unit_price_cents,
		line_total_cents, sort_order, created_at FROM solar_line_items WHERE project_id = ? ORDER BY sort_order, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list solar line items: %w", err)
	}
	defer rows.Close()

	items := []core.SolarLineItem{}
	for rows.Next() {
		var (
			it      core.SolarLineItem
			created any
		)
		if err := rows.Scan(&it.ID, &it.ProductType, &it.SpecifyProduct, &it.Quantity, &it.UnitPrice.Cents,
			&it.LineTotal.Cents, &it.Order, &created); err != nil {
			return nil, mapError(err)
		}
		if it.CreatedAt, err = timeFromDB(created); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (q *Queries) AddSolarLineItem(ctx context.Context, projectID int64, it *core.SolarLineItem) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO solar_line_items (project_id, product_type, specify_product,
		quantity, unit_price_cents, line_total_cents, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		projectID, string(it.ProductType), it.SpecifyProduct, it.Quantity, it.UnitPrice.Cents,
		it.LineTotal.Cents, it.Order, timeArg(now))
	if err != nil {
		return fmt.Errorf("insert solar line item: %w", err)
	}
	it.ID, it.CreatedAt = id, now
	return nil
}

func (q *Queries) UpdateSolarLineItem(ctx context.Context, projectID int64, it *core.SolarLineItem) error {
	err := q.execOne(ctx, `UPDATE solar_line_items SET product_type = ?, specify_product = ?, quantity = ?,
		unit_price_cents = ?, line_total_cents = ?, sort_order = ? WHERE id = ? AND project_id = ?`,
		string(it.ProductType), it.SpecifyProduct, it.Quantity, it.UnitPrice.Cents, it.LineTotal.Cents,
		it.Order, it.ID, projectID)
	if err != nil {
		return fmt.Errorf("update solar line item %d: %w", it.ID, err)
	}
	return nil
}

func (q *Queries) DeleteSolarLineItem(ctx context.Context, projectID, itemID int64) error {
	if err := q.execOne(ctx, `DELETE FROM solar_line_items WHERE id = ? AND project_id = ?`, itemID, projectID); err != nil {
		return fmt.Errorf("delete solar line item %d: %w", itemID, err)
	}
	return nil
}

// Images

func (q *Queries) ListSolarImages(ctx context.Context, projectID int64) ([]core.SolarImage, error) {
	rows, err := q.query(ctx, `SELECT id, image, caption, sort_order, created_at
		FROM solar_images WHERE project_id = ? ORDER BY sort_order`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list solar images: %w", err)
	}
	defer rows.Close()

	images := []core.SolarImage{}
	for rows.Next() {
		var (
			img     core.SolarImage
			created any
		)
		if err := rows.Scan(&img.ID, &img.Image, &img.Caption, &img.Order, &created); err != nil {
			return nil, mapError(err)
		}
		if img.CreatedAt, err = timeFromDB(created); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (q *Queries) CountSolarImages(ctx context.Context, projectID int64) (int, error) {
	return q.count(ctx, `SELECT COUNT(*) FROM solar_images WHERE project_id = ?`, projectID)
}

func (q *Queries) AddSolarImage(ctx context.Context, projectID int64, img *core.SolarImage) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO solar_images (project_id, image, caption, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?)`, projectID, img.Image, img.Caption, img.Order, timeArg(now))
	if err != nil {
		return fmt.Errorf("insert solar image: %w", err)
	}
	img.ID, img.CreatedAt = id, now
	return nil
}

// Checklist

func (q *Queries) CreateChecklistItem(ctx context.Context, c *core.ChecklistItem) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO checklist_items (item_name, is_active, created_at) VALUES (?, ?, ?)`,
		c.ItemName, c.IsActive, timeArg(now))
	if err != nil {
		return fmt.Errorf("insert checklist item: %w", err)
	}
	c.ID, c.CreatedAt = id, now
	return nil
}

func (q *Queries) ListChecklistItems(ctx context.Context, activeOnly bool) ([]core.ChecklistItem, error) {
	query := `SELECT id, item_name, is_active, created_at FROM checklist_items`
	var args []any
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	return q.selectChecklist(ctx, query+` ORDER BY item_name, id`, args...)
}

func (q *Queries) GetChecklistItem(ctx context.Context, id int64) (core.ChecklistItem, error) {
	items, err := q.selectChecklist(ctx, `SELECT id, item_name, is_active, created_at FROM checklist_items WHERE id = ?`, id)
	if err != nil {
		return core.ChecklistItem{}, err
	}
	if len(items) == 0 {
		return core.ChecklistItem{}, fmt.Errorf("checklist item %d: %w", id, core.ErrNotFound)
	}
	return items[0], nil
}

func (q *Queries) ListProjectChecklist(ctx context.Context, projectID int64) ([]core.ChecklistItem, error) {
	return q.selectChecklist(ctx, `SELECT c.id, c.item_name, c.is_active, c.created_at
		FROM checklist_items c JOIN solar_project_checklist pc ON pc.checklist_item_id = c.id
		WHERE pc.project_id = ? ORDER BY c.item_name, c.id`, projectID)
}

// AddProjectChecklist ticks item for the project. Ticking it twice is a
// conflict.
func (q *Queries) AddProjectChecklist(ctx context.Context, projectID, itemID int64) error {
	_, err := q.exec(ctx, `INSERT INTO solar_project_checklist (project_id, checklist_item_id, created_at)
		VALUES (?, ?, ?)`, projectID, itemID, timeArg(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("add checklist item %d: %w", itemID, err)
	}
	return nil
}

func (q *Queries) RemoveProjectChecklist(ctx context.Context, projectID, itemID int64) error {
	if err := q.execOne(ctx, `DELETE FROM solar_project_checklist WHERE project_id = ? AND checklist_item_id = ?`,
		projectID, itemID); err != nil {
		return fmt.Errorf("remove checklist item %d: %w", itemID, err)
	}
	return nil
}

func (q *Queries) selectChecklist(ctx context.Context, query string, args ...any) ([]core.ChecklistItem, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	items := []core.ChecklistItem{}
	for rows.Next() {
		var (
			c       core.ChecklistItem
			created any
		)
		if err := rows.Scan(&c.ID, &c.ItemName, &c.IsActive, &created); err != nil {
			return nil, mapError(err)
		}
		if c.CreatedAt, err = timeFromDB(created); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Catalog

func (q *Queries) CreateSolarCatalogProduct(ctx context.Context, c *core.SolarCatalogProduct) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO solar_catalog_products (product_type, quantity, unit_price_cents,
		line_total_cents, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(c.ProductType), c.Quantity, c.UnitPrice.Cents, c.LineTotal.Cents, c.IsActive, timeArg(now), timeArg(now))
	if err != nil {
		return fmt.Errorf("insert solar catalog product: %w", err)
	}
	c.ID, c.CreatedAt, c.UpdatedAt = id, now, now
	return nil
}

func (q *Queries) ListSolarCatalogProducts(ctx context.Context, activeOnly bool) ([]core.SolarCatalogProduct, error) {
	query := `SELECT id, product_type, quantity, unit_price_cents, line_total_cents, is_active, created_at, updated_at
		FROM solar_catalog_products`
	var args []any
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	rows, err := q.query(ctx, query+` ORDER BY product_type, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list solar catalog: %w", err)
	}
	defer rows.Close()

	products := []core.SolarCatalogProduct{}
	for rows.Next() {
		var (
			c  core.SolarCatalogProduct
			ts stamps
		)
		if err := rows.Scan(&c.ID, &c.ProductType, &c.Quantity, &c.UnitPrice.Cents, &c.LineTotal.Cents,
			&c.IsActive, &ts.created, &ts.updated); err != nil {
			return nil, mapError(err)
		}
		if c.CreatedAt, c.UpdatedAt, err = ts.decode(); err != nil {
			return nil, err
		}
		products = append(products, c)
	}
	return products, rows.Err()
}
