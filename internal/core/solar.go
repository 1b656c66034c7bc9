package core

import (
	"slices"
	"strings"
	"time"
)

type (
	ProjectType      string
	InstallationType string
	SolarProductType string
)

const (
	OnGrid  ProjectType = "on_grid"
	OffGrid ProjectType = "off_grid"
	Hybrid  ProjectType = "hybrid"

	NoInstallation       InstallationType = "no_installation"
	StandardInstallation InstallationType = "standard"
	ElevatedInstallation InstallationType = "elevated"

	SolarPanel   SolarProductType = "solar_panel"
	Inverter     SolarProductType = "inverter"
	OtherProduct SolarProductType = "others"
)

var (
	projectTypes      = []ProjectType{OnGrid, OffGrid, Hybrid}
	installationTypes = []InstallationType{NoInstallation, StandardInstallation, ElevatedInstallation}
	solarProductTypes = []SolarProductType{SolarPanel, Inverter, OtherProduct}
)

func (t InstallationType) Valid() bool { return slices.Contains(installationTypes, t) }

type (
	SolarProject struct {
		ID                int64            `json:"-"`
		ProjectID         string           `json:"project_id"`
		CustomerName      string           `json:"customer_name"`
		Address           string           `json:"address"`
		Date              Date             `json:"date"`
		ValidUntil        Date             `json:"valid_until"`
		ProjectType       ProjectType      `json:"project_type"`
		InstallationType  InstallationType `json:"installation_type"`
		Subtotal          Money            `json:"subtotal"`
		TaxPercentage     Percent          `json:"tax_percentage"`
		GrandTotal        Money            `json:"grand_total"`
		AdvancePayment    Money            `json:"advance_payment"`
		TotalPayment      Money            `json:"total_payment"`
		CompletionPayment Money            `json:"completion_payment"`
		Status            ProjectStatus    `json:"status"`
		LineItems         []SolarLineItem  `json:"products"`
		Images            []SolarImage     `json:"images"`
		Checklist         []ChecklistItem  `json:"checklist"`
		CreatedAt         time.Time        `json:"created_at"`
		UpdatedAt         time.Time        `json:"updated_at"`
	}

	// SolarLineItem is a priced product on a solar project. LineTotal is
	// always Quantity x UnitPrice.
	SolarLineItem struct {
		ID             int64            `json:"id"`
		ProductType    SolarProductType `json:"product_type"`
		SpecifyProduct string           `json:"specify_product"`
		Quantity       int              `json:"quantity"`
		UnitPrice      Money            `json:"unit_price"`
		LineTotal      Money            `json:"line_total"`
		Order          int              `json:"order"`
		CreatedAt      time.Time        `json:"created_at"`
	}

	SolarImage struct {
		ID        int64     `json:"id"`
		Image     string    `json:"image"`
		Caption   string    `json:"caption,omitempty"`
		Order     int       `json:"order"`
		CreatedAt time.Time `json:"created_at"`
	}

	// ChecklistItem is a catalog entry that solar projects can be ticked against.
	ChecklistItem struct {
		ID        int64     `json:"id"`
		ItemName  string    `json:"item_name"`
		IsActive  bool      `json:"is_active"`
		CreatedAt time.Time `json:"created_at"`
	}

	// SolarCatalogProduct is a reusable priced product template.
	SolarCatalogProduct struct {
		ID          int64            `json:"id"`
		ProductType SolarProductType `json:"product_type"`
		Quantity    int              `json:"quantity"`
		UnitPrice   Money            `json:"unit_price"`
		LineTotal   Money            `json:"line_total"`
		IsActive    bool             `json:"is_active"`
		CreatedAt   time.Time        `json:"created_at"`
		UpdatedAt   time.Time        `json:"updated_at"`
	}

	// SolarTotals are the four stored monetary fields derived from line items.
	SolarTotals struct {
		Subtotal          Money `json:"subtotal"`
		GrandTotal        Money `json:"grand_total"`
		TotalPayment      Money `json:"total_payment"`
		CompletionPayment Money `json:"completion_payment"`
	}
)

// RecalculateSolarTotals derives the project totals from its line items.
// tax is a percentage, not a fraction. CompletionPayment goes negative when
// the advance exceeds the total.
func RecalculateSolarTotals(items []SolarLineItem, tax Percent, advance Money) SolarTotals {
	var t SolarTotals
	for _, it := range items {
		t.Subtotal = t.Subtotal.Add(it.LineTotal)
	}
	t.GrandTotal = t.Subtotal.Add(tax.Of(t.Subtotal))
	t.TotalPayment = t.GrandTotal
	t.CompletionPayment = t.TotalPayment.Sub(advance)
	return t
}

// ApplyTotals recomputes and stores the derived fields on p from p.LineItems.
func (p *SolarProject) ApplyTotals() {
	for i := range p.LineItems {
		p.LineItems[i].Normalize()
	}
	t := RecalculateSolarTotals(p.LineItems, p.TaxPercentage, p.AdvancePayment)
	p.Subtotal = t.Subtotal
	p.GrandTotal = t.GrandTotal
	p.TotalPayment = t.TotalPayment
	p.CompletionPayment = t.CompletionPayment
}

// Totals returns the stored derived fields.
func (p SolarProject) Totals() SolarTotals {
	return SolarTotals{
		Subtotal:          p.Subtotal,
		GrandTotal:        p.GrandTotal,
		TotalPayment:      p.TotalPayment,
		CompletionPayment: p.CompletionPayment,
	}
}

func (p SolarProject) Validate() error {
	v := NewValidationError()
	validateProjectCommon(v, p.CustomerName, p.Address, p.Date, p.ValidUntil, p.Status)
	v.Check(slices.Contains(projectTypes, p.ProjectType), "project_type", "\""+string(p.ProjectType)+"\" is not a valid choice")
	v.Check(p.InstallationType.Valid(), "installation_type", "\""+string(p.InstallationType)+"\" is not a valid choice")
	v.Check(p.TaxPercentage.Hundredths >= 0, "tax_percentage", "ensure this value is greater than or equal to 0")
	v.Check(p.TaxPercentage.Hundredths <= 100_00, "tax_percentage", "ensure this value is less than or equal to 100")
	v.Check(!p.AdvancePayment.IsNegative(), "advance_payment", "ensure this value is greater than or equal to 0")
	v.Check(len(p.Images) <= MaxImages, "images", "a project can have at most 7 images")

	orders := make(map[int]bool, len(p.LineItems))
	for _, it := range p.LineItems {
		if err := it.Validate(); err != nil {
			v.Add("products", err.Error())
			break
		}
		if orders[it.Order] {
			v.Add("products", "line item order must be unique per project")
			break
		}
		orders[it.Order] = true
	}
	return v.Err()
}

// Normalize recomputes LineTotal.
func (it *SolarLineItem) Normalize() {
	it.LineTotal = it.UnitPrice.Mul(it.Quantity)
}

func (it SolarLineItem) Validate() error {
	v := NewValidationError()
	v.Check(slices.Contains(solarProductTypes, it.ProductType), "product_type", "\""+string(it.ProductType)+"\" is not a valid choice")
	v.Check(strings.TrimSpace(it.SpecifyProduct) != "", "specify_product", "this field is required")
	v.Check(len(it.SpecifyProduct) <= 200, "specify_product", "ensure this field has no more than 200 characters")
	v.Check(it.Quantity >= 0, "quantity", "ensure this value is greater than or equal to 0")
	v.Check(!it.UnitPrice.IsNegative(), "unit_price", "ensure this value is greater than or equal to 0")
	v.Check(it.Order >= 0, "order", "ensure this value is greater than or equal to 0")
	return v.Err()
}

func (i SolarImage) Validate() error {
	v := NewValidationError()
	v.Check(strings.TrimSpace(i.Image) != "", "image", "this field is required")
	v.Check(len(i.Caption) <= 200, "caption", "ensure this field has no more than 200 characters")
	return v.Err()
}

func (c ChecklistItem) Validate() error {
	v := NewValidationError()
	v.Check(strings.TrimSpace(c.ItemName) != "", "item_name", "this field is required")
	v.Check(len(c.ItemName) <= 100, "item_name", "ensure this field has no more than 100 characters")
	return v.Err()
}

func (c *SolarCatalogProduct) Normalize() {
	c.LineTotal = c.UnitPrice.Mul(c.Quantity)
}

func (c SolarCatalogProduct) Validate() error {
	v := NewValidationError()
	v.Check(slices.Contains(solarProductTypes, c.ProductType), "product_type", "\""+string(c.ProductType)+"\" is not a valid choice")
	v.Check(c.Quantity >= 0, "quantity", "ensure this value is greater than or equal to 0")
	v.Check(!c.UnitPrice.IsNegative(), "unit_price", "ensure this value is greater than or equal to 0")
	return v.Err()
}

// AssignLineOrder numbers line items 0..n-1 when none carries an explicit order.
func AssignLineOrder(items []SolarLineItem) {
	for _, it := range items {
		if it.Order != 0 {
			return
		}
	}
	for i := range items {
		items[i].Order = i
	}
}
