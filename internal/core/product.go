package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxImages bounds the images attached to a product, an expense or a solar project.
const MaxImages = 7

type (
	Product struct {
		ID            int64          `json:"id"`
		Name          string         `json:"name"`
		Brand         string         `json:"brand"`
		CustomerName  string         `json:"customer_name"`
		Date          Date           `json:"date"`
		PurchasePrice Money          `json:"purchase_price"`
		SalePrice     Money          `json:"sale_price"`
		Category      string         `json:"category"`
		Quantity      int            `json:"quantity"`
		Description   string         `json:"description,omitempty"`
		Images        []ProductImage `json:"images"`
		CreatedAt     time.Time      `json:"created_at"`
		UpdatedAt     time.Time      `json:"updated_at"`
	}

	// ProductImage references a stored file. Order runs 1..MaxImages.
	ProductImage struct {
		ID        int64     `json:"id"`
		ProductID int64     `json:"product_id"`
		Image     string    `json:"image"`
		Order     int       `json:"order"`
		CreatedAt time.Time `json:"created_at"`
	}

	// ProductFigures are derived on read and never stored.
	ProductFigures struct {
		TotalPurchaseCost Money   `json:"total_purchase_cost"`
		TotalSaleValue    Money   `json:"total_sale_value"`
		ProfitPerUnit     Money   `json:"profit_per_unit"`
		TotalProfit       Money   `json:"total_profit"`
		ProfitMarginPct   Percent `json:"profit_margin_percentage"`
	}
)

// Figures computes the derived money values for p.
func (p Product) Figures() ProductFigures {
	perUnit := p.SalePrice.Sub(p.PurchasePrice)
	f := ProductFigures{
		TotalPurchaseCost: p.PurchasePrice.Mul(p.Quantity),
		TotalSaleValue:    p.SalePrice.Mul(p.Quantity),
		ProfitPerUnit:     perUnit,
		TotalProfit:       perUnit.Mul(p.Quantity),
	}
	if p.PurchasePrice.Cents != 0 {
		margin := decimal.NewFromInt(perUnit.Cents).
			Div(decimal.NewFromInt(p.PurchasePrice.Cents)).
			Shift(4).
			Round(0)
		f.ProfitMarginPct = Percent{Hundredths: margin.IntPart()}
	}
	return f
}

func (p Product) Validate() error {
	v := NewValidationError()
	v.Check(strings.TrimSpace(p.Name) != "", "name", "this field is required")
	v.Check(len(p.Name) <= 200, "name", "ensure this field has no more than 200 characters")
	v.Check(strings.TrimSpace(p.Brand) != "", "brand", "this field is required")
	v.Check(strings.TrimSpace(p.CustomerName) != "", "customer_name", "this field is required")
	v.Check(strings.TrimSpace(p.Category) != "", "category", "this field is required")
	v.Check(!p.Date.IsZero(), "date", "this field is required")
	v.Check(p.PurchasePrice.Validate() == nil, "purchase_price", "ensure this value is greater than or equal to 0.01")
	v.Check(p.SalePrice.Validate() == nil, "sale_price", "ensure this value is greater than or equal to 0.01")
	v.Check(p.Quantity >= 1, "quantity", "ensure this value is greater than or equal to 1")
	v.Check(len(p.Images) <= MaxImages, "images", "a product can have at most 7 images")
	return v.Err()
}

// AssignImageOrder numbers images 1..n in the given order, dropping anything past MaxImages.
func AssignImageOrder(images []ProductImage) []ProductImage {
	if len(images) > MaxImages {
		images = images[:MaxImages]
	}
	for i := range images {
		images[i].Order = i + 1
	}
	return images
}

// NextImageOrder returns the lowest free order in 1..MaxImages, or an error
// when all slots are taken.
func NextImageOrder(existing []ProductImage) (int, error) {
	used := make(map[int]bool, len(existing))
	for _, img := range existing {
		used[img.Order] = true
	}
	if len(existing) >= MaxImages {
		return 0, FieldError("images", "a product can have at most 7 images")
	}
	for o := 1; o <= MaxImages; o++ {
		if !used[o] {
			return o, nil
		}
	}
	return 0, FieldError("images", "a product can have at most 7 images")
}
