package storage

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category string
	Period   *core.Period
}

const productColumns = `id, name, brand, customer_name, date, purchase_price_cents, sale_price_cents,
	category, quantity, description, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (core.Product, error) {
	var (
		p    core.Product
		date any
		ts   stamps
	)
	err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.CustomerName, &date, &p.PurchasePrice.Cents,
		&p.SalePrice.Cents, &p.Category, &p.Quantity, &p.Description, &ts.created, &ts.updated)
	if err != nil {
		return p, mapError(err)
	}
	if p.Date, err = dateFromDB(date); err != nil {
		return p, fmt.Errorf("product %d date: %w", p.ID, err)
	}
	if p.CreatedAt, p.UpdatedAt, err = ts.decode(); err != nil {
		return p, fmt.Errorf("product %d timestamps: %w", p.ID, err)
	}
	return p, nil
}

func (q *Queries) CreateProduct(ctx context.Context, p *core.Product) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO products (name, brand, customer_name, date, purchase_price_cents,
		sale_price_cents, category, quantity, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Brand, p.CustomerName, dateArg(p.Date), p.PurchasePrice.Cents, p.SalePrice.Cents,
		p.Category, p.Quantity, p.Description, timeArg(now), timeArg(now))
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now

	for i := range p.Images {
		p.Images[i].ProductID = id
		if err := q.AddProductImage(ctx, &p.Images[i]); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queries) GetProduct(ctx context.Context, id int64) (core.Product, error) {
	p, err := scanProduct(q.queryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if err != nil {
		return p, fmt.Errorf("get product %d: %w", id, err)
	}
	if p.Images, err = q.ListProductImages(ctx, id); err != nil {
		return p, err
	}
	return p, nil
}

func (q *Queries) ListProducts(ctx context.Context, f ProductFilter, page Page) ([]core.Product, int, error) {
	where, args := " WHERE 1=1", []any{}
	if f.Category != "" {
		where += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.Period != nil {
		where += " AND date >= ? AND date < ?"
		args = append(args, dateArg(f.Period.From), dateArg(f.Period.To))
	}

	total, err := q.count(ctx, `SELECT COUNT(*) FROM products`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := q.query(ctx, `SELECT `+productColumns+` FROM products`+where+` ORDER BY date DESC, id DESC`+page.clause(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []core.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	for i := range products {
		if products[i].Images, err = q.ListProductImages(ctx, products[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return products, total, nil
}

func (q *Queries) UpdateProduct(ctx context.Context, p *core.Product) error {
	p.UpdatedAt = time.Now().UTC()
	err := q.execOne(ctx, `UPDATE products SET name = ?, brand = ?, customer_name = ?, date = ?,
		purchase_price_cents = ?, sale_price_cents = ?, category = ?, quantity = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Brand, p.CustomerName, dateArg(p.Date), p.PurchasePrice.Cents, p.SalePrice.Cents,
		p.Category, p.Quantity, p.Description, timeArg(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return nil
}

func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	if err := q.execOne(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

func (q *Queries) ListProductImages(ctx context.Context, productID int64) ([]core.ProductImage, error) {
	rows, err := q.query(ctx, `SELECT id, product_id, image, sort_order, created_at
		FROM product_images WHERE product_id = ? ORDER BY sort_order`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	images := []core.ProductImage{}
	for rows.Next() {
		var (
			img     core.ProductImage
			created any
		)
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image, &img.Order, &created); err != nil {
			return nil, mapError(err)
		}
		if img.CreatedAt, err = timeFromDB(created); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (q *Queries) AddProductImage(ctx context.Context, img *core.ProductImage) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO product_images (product_id, image, sort_order, created_at)
		VALUES (?, ?, ?, ?)`, img.ProductID, img.Image, img.Order, timeArg(now))
	if err != nil {
		return fmt.Errorf("insert product image: %w", err)
	}
	img.ID, img.CreatedAt = id, now
	return nil
}

func (q *Queries) DeleteProductImage(ctx context.Context, productID, imageID int64) error {
	if err := q.execOne(ctx, `DELETE FROM product_images WHERE id = ? AND product_id = ?`, imageID, productID); err != nil {
		return fmt.Errorf("delete product image %d: %w", imageID, err)
	}
	return nil
}
