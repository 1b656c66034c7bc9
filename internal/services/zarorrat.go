package services

import (
	"context"
	"fmt"

	"backoffice/internal/core"
	"backoffice/internal/log"
	"backoffice/internal/storage"
)

const entityZarorratProject = "zarorrat_project"

type ZarorratProjectService struct {
	db       *storage.DB
	ids      *IDAllocator
	notifier Notifier
	logger   *log.Logger
}

func NewZarorratProjectService(db *storage.DB, ids *IDAllocator, notifier Notifier, logger *log.Logger) *ZarorratProjectService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ZarorratProjectService{db: db, ids: ids, notifier: notifierOrNop(notifier), logger: logger.WithComponent(log.ComponentProject)}
}

// resolveServices maps ids onto catalog entries. Duplicates collapse and
// ids with no catalog entry are skipped with a warning.
func (s *ZarorratProjectService) resolveServices(ctx context.Context, q *storage.Queries, ids []int64) ([]core.ZarorratService, error) {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	found, err := q.ZarorratServicesByID(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(found) != len(unique) {
		known := make(map[int64]bool, len(found))
		for _, f := range found {
			known[f.ID] = true
		}
		for _, id := range unique {
			if !known[id] {
				s.logger.WarnContext(ctx, "Unknown zarorrat service skipped", log.FieldEntityID, id)
			}
		}
	}
	return found, nil
}

// Create allocates the project id and stores p with the services in
// serviceIDs.
func (s *ZarorratProjectService) Create(ctx context.Context, p *core.ZarorratProject, serviceIDs []int64) (core.ZarorratProject, error) {
	if p.Status == "" {
		p.Status = core.StatusPending
	}
	if err := p.Validate(); err != nil {
		return core.ZarorratProject{}, err
	}

	var created core.ZarorratProject
	err := s.ids.createProject(ctx, s.db, core.FamilyZarorrat, func(q *storage.Queries, projectID string) error {
		services, err := s.resolveServices(ctx, q, serviceIDs)
		if err != nil {
			return err
		}
		row := *p
		row.ProjectID = projectID
		row.Services = services
		if err := q.CreateZarorratProject(ctx, &row); err != nil {
			return err
		}
		created = row
		return nil
	})
	if err != nil {
		return core.ZarorratProject{}, fmt.Errorf("create zarorrat project: %w", err)
	}

	s.logger.InfoContext(ctx, "Zarorrat project created", log.FieldProjectID, created.ProjectID)
	s.notifier.LedgerChanged(ctx, entityZarorratProject, created.ProjectID, log.OpCreate, created.Date.Year())
	return created, nil
}

func (s *ZarorratProjectService) Get(ctx context.Context, projectID string) (core.ZarorratProject, error) {
	return s.db.GetZarorratProject(ctx, projectID)
}

func (s *ZarorratProjectService) List(ctx context.Context, f storage.ProjectFilter, page storage.Page) ([]core.ZarorratProject, int, error) {
	return s.db.ListZarorratProjects(ctx, f, page)
}

// Update stores p. A nil serviceIDs keeps the current links.
func (s *ZarorratProjectService) Update(ctx context.Context, p *core.ZarorratProject, serviceIDs []int64) (core.ZarorratProject, error) {
	if err := p.Validate(); err != nil {
		return core.ZarorratProject{}, err
	}
	var current core.ZarorratProject
	err := s.db.InTx(ctx, func(q *storage.Queries) error {
		var err error
		if current, err = q.GetZarorratProject(ctx, p.ProjectID); err != nil {
			return err
		}
		p.ID = current.ID
		p.Services = current.Services
		if serviceIDs != nil {
			if p.Services, err = s.resolveServices(ctx, q, serviceIDs); err != nil {
				return err
			}
		}
		return q.UpdateZarorratProject(ctx, p)
	})
	if err != nil {
		return core.ZarorratProject{}, fmt.Errorf("update zarorrat project %s: %w", p.ProjectID, err)
	}
	notifyYears(ctx, s.notifier, entityZarorratProject, p.ProjectID, log.OpUpdate, current.Date.Year(), p.Date.Year())
	return *p, nil
}

func (s *ZarorratProjectService) Delete(ctx context.Context, projectID string) error {
	p, err := s.db.GetZarorratProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.db.DeleteZarorratProject(ctx, projectID); err != nil {
		return err
	}
	s.notifier.LedgerChanged(ctx, entityZarorratProject, projectID, log.OpDelete, p.Date.Year())
	return nil
}

func (s *ZarorratProjectService) CreateService(ctx context.Context, svc core.ZarorratService) (core.ZarorratService, error) {
	if err := svc.Validate(); err != nil {
		return core.ZarorratService{}, err
	}
	if err := s.db.CreateZarorratService(ctx, &svc); err != nil {
		return core.ZarorratService{}, err
	}
	return svc, nil
}

func (s *ZarorratProjectService) ListServices(ctx context.Context, activeOnly bool) ([]core.ZarorratService, error) {
	return s.db.ListZarorratServices(ctx, activeOnly)
}
