package services

import (
	"context"
	"fmt"

	"backoffice/internal/core"
	"backoffice/internal/log"
	"backoffice/internal/storage"
)

const entitySolarProject = "solar_project"

// SolarService owns solar projects and everything hanging off them. Every
// write that touches line items or pricing recomputes the stored totals in
// the same transaction.
type SolarService struct {
	db       *storage.DB
	ids      *IDAllocator
	notifier Notifier
	logger   *log.Logger
}

func NewSolarService(db *storage.DB, ids *IDAllocator, notifier Notifier, logger *log.Logger) *SolarService {
	if logger == nil {
		logger = log.Discard()
	}
	return &SolarService{db: db, ids: ids, notifier: notifierOrNop(notifier), logger: logger.WithComponent(log.ComponentProject)}
}

// recompute derives the totals from the line items as stored in q and
// persists them.
func recompute(ctx context.Context, q *storage.Queries, p *core.SolarProject) error {
	items, err := q.ListSolarLineItems(ctx, p.ID)
	if err != nil {
		return err
	}
	t := core.RecalculateSolarTotals(items, p.TaxPercentage, p.AdvancePayment)
	if err := q.UpdateSolarTotals(ctx, p.ID, t); err != nil {
		return err
	}
	p.LineItems = items
	p.Subtotal, p.GrandTotal, p.TotalPayment, p.CompletionPayment = t.Subtotal, t.GrandTotal, t.TotalPayment, t.CompletionPayment
	return nil
}

// Create stores p with its line items, images and checklist ticks. The
// parent is inserted first to get an identity, children follow, then the
// totals are derived and written back. Any failure leaves nothing behind.
func (s *SolarService) Create(ctx context.Context, p *core.SolarProject) (core.SolarProject, error) {
	if p.Status == "" {
		p.Status = core.StatusPending
	}
	for i := range p.LineItems {
		p.LineItems[i].Normalize()
	}
	core.AssignLineOrder(p.LineItems)
	if err := p.Validate(); err != nil {
		return core.SolarProject{}, err
	}

	var created core.SolarProject
	err := s.ids.createProject(ctx, s.db, core.FamilySolar, func(q *storage.Queries, projectID string) error {
		row := *p
		row.ProjectID = projectID
		row.Subtotal, row.GrandTotal, row.TotalPayment, row.CompletionPayment = core.Money{}, core.Money{}, core.Money{}, core.Money{}
		if err := q.CreateSolarProject(ctx, &row); err != nil {
			return err
		}
		for i := range p.LineItems {
			it := p.LineItems[i]
			if err := q.AddSolarLineItem(ctx, row.ID, &it); err != nil {
				return err
			}
		}
		if err := recompute(ctx, q, &row); err != nil {
			return err
		}
		for i, img := range p.Images {
			img.Order = i
			if err := q.AddSolarImage(ctx, row.ID, &img); err != nil {
				return err
			}
		}
		for _, c := range p.Checklist {
			if err := q.AddProjectChecklist(ctx, row.ID, c.ID); err != nil {
				return err
			}
		}
		var err error
		created, err = q.GetSolarProject(ctx, projectID)
		return err
	})
	if err != nil {
		return core.SolarProject{}, fmt.Errorf("create solar project: %w", err)
	}

	s.logger.InfoContext(ctx, "Solar project created",
		log.FieldProjectID, created.ProjectID,
		"grand_total", created.GrandTotal.String())
	s.notifier.LedgerChanged(ctx, entitySolarProject, created.ProjectID, log.OpCreate, created.Date.Year())
	return created, nil
}

func (s *SolarService) Get(ctx context.Context, projectID string) (core.SolarProject, error) {
	return s.db.GetSolarProject(ctx, projectID)
}

func (s *SolarService) List(ctx context.Context, f storage.ProjectFilter, page storage.Page) ([]core.SolarProject, int, error) {
	return s.db.ListSolarProjects(ctx, f, page)
}

// Update writes the descriptive fields and pricing inputs of p and
// recomputes the totals. Children are changed through their own calls.
func (s *SolarService) Update(ctx context.Context, p *core.SolarProject) (core.SolarProject, error) {
	if err := p.Validate(); err != nil {
		return core.SolarProject{}, err
	}
	var current, updated core.SolarProject
	err := s.db.InTx(ctx, func(q *storage.Queries) error {
		var err error
		if current, err = q.GetSolarProject(ctx, p.ProjectID); err != nil {
			return err
		}
		p.ID = current.ID
		if err := q.UpdateSolarProject(ctx, p); err != nil {
			return err
		}
		if err := recompute(ctx, q, p); err != nil {
			return err
		}
		updated, err = q.GetSolarProject(ctx, p.ProjectID)
		return err
	})
	if err != nil {
		return core.SolarProject{}, fmt.Errorf("update solar project %s: %w", p.ProjectID, err)
	}
	notifyYears(ctx, s.notifier, entitySolarProject, updated.ProjectID, log.OpUpdate, current.Date.Year(), updated.Date.Year())
	return updated, nil
}

func (s *SolarService) Delete(ctx context.Context, projectID string) error {
	p, err := s.db.GetSolarProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.db.DeleteSolarProject(ctx, projectID); err != nil {
		return err
	}
	s.notifier.LedgerChanged(ctx, entitySolarProject, projectID, log.OpDelete, p.Date.Year())
	return nil
}

// withProject loads the project inside a transaction, runs fn and then
// recomputes the totals so they always match the line items.
func (s *SolarService) withProject(ctx context.Context, projectID string, fn func(q *storage.Queries, p *core.SolarProject) error) (core.SolarProject, error) {
	var out core.SolarProject
	err := s.db.InTx(ctx, func(q *storage.Queries) error {
		p, err := q.GetSolarProject(ctx, projectID)
		if err != nil {
			return err
		}
		if err := fn(q, &p); err != nil {
			return err
		}
		if err := recompute(ctx, q, &p); err != nil {
			return err
		}
		out, err = q.GetSolarProject(ctx, projectID)
		return err
	})
	if err != nil {
		return core.SolarProject{}, err
	}
	s.notifier.LedgerChanged(ctx, entitySolarProject, out.ProjectID, log.OpUpdate, out.Date.Year())
	return out, nil
}

// AddLineItem appends it to the project. A zero order places it after the
// current last item.
func (s *SolarService) AddLineItem(ctx context.Context, projectID string, it core.SolarLineItem) (core.SolarProject, error) {
	it.Normalize()
	if err := it.Validate(); err != nil {
		return core.SolarProject{}, err
	}
	return s.withProject(ctx, projectID, func(q *storage.Queries, p *core.SolarProject) error {
		if it.Order == 0 && len(p.LineItems) > 0 {
			it.Order = p.LineItems[len(p.LineItems)-1].Order + 1
		}
		return q.AddSolarLineItem(ctx, p.ID, &it)
	})
}

func (s *SolarService) UpdateLineItem(ctx context.Context, projectID string, it core.SolarLineItem) (core.SolarProject, error) {
	it.Normalize()
	if err := it.Validate(); err != nil {
		return core.SolarProject{}, err
	}
	return s.withProject(ctx, projectID, func(q *storage.Queries, p *core.SolarProject) error {
		return q.UpdateSolarLineItem(ctx, p.ID, &it)
	})
}

func (s *SolarService) DeleteLineItem(ctx context.Context, projectID string, itemID int64) (core.SolarProject, error) {
	return s.withProject(ctx, projectID, func(q *storage.Queries, p *core.SolarProject) error {
		return q.DeleteSolarLineItem(ctx, p.ID, itemID)
	})
}

// AddImage appends an image; its order is the number of images already
// attached. An eighth image is rejected and the existing seven stay.
func (s *SolarService) AddImage(ctx context.Context, projectID string, img core.SolarImage) (core.SolarImage, error) {
	if err := img.Validate(); err != nil {
		return core.SolarImage{}, err
	}
	err := s.db.InTx(ctx, func(q *storage.Queries) error {
		p, err := q.GetSolarProject(ctx, projectID)
		if err != nil {
			return err
		}
		n, err := q.CountSolarImages(ctx, p.ID)
		if err != nil {
			return err
		}
		if n >= core.MaxImages {
			return core.FieldError("images", fmt.Sprintf("a project can have at most %d images", core.MaxImages))
		}
		img.Order = n
		return q.AddSolarImage(ctx, p.ID, &img)
	})
	if err != nil {
		return core.SolarImage{}, err
	}
	return img, nil
}

func (s *SolarService) ListImages(ctx context.Context, projectID string) ([]core.SolarImage, error) {
	p, err := s.db.GetSolarProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return p.Images, nil
}

// Checklist

func (s *SolarService) ListChecklist(ctx context.Context, projectID string) ([]core.ChecklistItem, error) {
	p, err := s.db.GetSolarProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return p.Checklist, nil
}

// TickChecklist associates a catalog item with the project. Ticking the
// same item twice is a conflict.
func (s *SolarService) TickChecklist(ctx context.Context, projectID string, itemID int64) ([]core.ChecklistItem, error) {
	var out []core.ChecklistItem
	err := s.db.InTx(ctx, func(q *storage.Queries) error {
		p, err := q.GetSolarProject(ctx, projectID)
		if err != nil {
			return err
		}
		if _, err := q.GetChecklistItem(ctx, itemID); err != nil {
			return err
		}
		if err := q.AddProjectChecklist(ctx, p.ID, itemID); err != nil {
			return err
		}
		out, err = q.ListProjectChecklist(ctx, p.ID)
		return err
	})
	return out, err
}

func (s *SolarService) UntickChecklist(ctx context.Context, projectID string, itemID int64) error {
	return s.db.InTx(ctx, func(q *storage.Queries) error {
		p, err := q.GetSolarProject(ctx, projectID)
		if err != nil {
			return err
		}
		return q.RemoveProjectChecklist(ctx, p.ID, itemID)
	})
}

func (s *SolarService) CreateChecklistItem(ctx context.Context, c core.ChecklistItem) (core.ChecklistItem, error) {
	if err := c.Validate(); err != nil {
		return core.ChecklistItem{}, err
	}
	if err := s.db.CreateChecklistItem(ctx, &c); err != nil {
		return core.ChecklistItem{}, err
	}
	return c, nil
}

func (s *SolarService) ListChecklistItems(ctx context.Context, activeOnly bool) ([]core.ChecklistItem, error) {
	return s.db.ListChecklistItems(ctx, activeOnly)
}

// Catalog

func (s *SolarService) CreateCatalogProduct(ctx context.Context, c core.SolarCatalogProduct) (core.SolarCatalogProduct, error) {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return core.SolarCatalogProduct{}, err
	}
	if err := s.db.CreateSolarCatalogProduct(ctx, &c); err != nil {
		return core.SolarCatalogProduct{}, err
	}
	return c, nil
}

func (s *SolarService) ListCatalog(ctx context.Context, activeOnly bool) ([]core.SolarCatalogProduct, error) {
	return s.db.ListSolarCatalogProducts(ctx, activeOnly)
}
