package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"backoffice/internal/core"
	"backoffice/internal/log"
	"backoffice/internal/storage"
)

const entityProduct = "product"

type ProductService struct {
	db       *storage.DB
	notifier Notifier
	logger   *log.Logger
}

func NewProductService(db *storage.DB, notifier Notifier, logger *log.Logger) *ProductService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ProductService{db: db, notifier: notifierOrNop(notifier), logger: logger.WithComponent(log.ComponentProducts)}
}

func (s *ProductService) Create(ctx context.Context, p *core.Product) (core.Product, error) {
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}
	p.Images = core.AssignImageOrder(p.Images)
	if err := s.db.InTx(ctx, func(q *storage.Queries) error {
		return q.CreateProduct(ctx, p)
	}); err != nil {
		return core.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.logger.InfoContext(ctx, "Product created", log.FieldEntityID, p.ID, log.FieldYear, p.Date.Year())
	s.notifier.LedgerChanged(ctx, entityProduct, strconv.FormatInt(p.ID, 10), log.OpCreate, p.Date.Year())
	return *p, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (core.Product, error) {
	return s.db.GetProduct(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f storage.ProductFilter, page storage.Page) ([]core.Product, int, error) {
	return s.db.ListProducts(ctx, f, page)
}

// Update stores the product fields of p. Images are managed separately.
func (s *ProductService) Update(ctx context.Context, p *core.Product) (core.Product, error) {
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}
	var before core.Product
	err := s.db.InTx(ctx, func(q *storage.Queries) error {
		var err error
		if before, err = q.GetProduct(ctx, p.ID); err != nil {
			return err
		}
		if err := q.UpdateProduct(ctx, p); err != nil {
			return err
		}
		p.Images, err = q.ListProductImages(ctx, p.ID)
		return err
	})
	if err != nil {
		return core.Product{}, err
	}
	notifyYears(ctx, s.notifier, entityProduct, strconv.FormatInt(p.ID, 10), log.OpUpdate, before.Date.Year(), p.Date.Year())
	return *p, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	p, err := s.db.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Product deleted", log.FieldEntityID, id)
	s.notifier.LedgerChanged(ctx, entityProduct, strconv.FormatInt(id, 10), log.OpDelete, p.Date.Year())
	return nil
}

// AddImage attaches image in the lowest free slot. With seven images
// already attached it fails and changes nothing.
func (s *ProductService) AddImage(ctx context.Context, productID int64, image string) (core.ProductImage, error) {
	if strings.TrimSpace(image) == "" {
		return core.ProductImage{}, core.FieldError("image", "this field is required")
	}
	img := core.ProductImage{ProductID: productID, Image: image}
	err := s.db.InTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetProduct(ctx, productID); err != nil {
			return err
		}
		existing, err := q.ListProductImages(ctx, productID)
		if err != nil {
			return err
		}
		if img.Order, err = core.NextImageOrder(existing); err != nil {
			return err
		}
		return q.AddProductImage(ctx, &img)
	})
	if err != nil {
		return core.ProductImage{}, err
	}
	return img, nil
}

func (s *ProductService) DeleteImage(ctx context.Context, productID, imageID int64) error {
	return s.db.DeleteProductImage(ctx, productID, imageID)
}
