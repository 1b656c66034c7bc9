package core

import "testing"

func lineItem(qty int, unitCents int64, order int) SolarLineItem {
	it := SolarLineItem{ProductType: SolarPanel, SpecifyProduct: "panel", Quantity: qty, UnitPrice: Cents(unitCents), Order: order}
	it.Normalize()
	return it
}

func TestRecalculateSolarTotals(t *testing.T) {
	t.Run("no line items", func(t *testing.T) {
		got := RecalculateSolarTotals(nil, Percent{Hundredths: 1000}, Cents(50000))
		want := SolarTotals{CompletionPayment: Cents(-50000)}
		if got != want {
			t.Fatalf("got %+v want %+v", got, want)
		}
	})

	t.Run("tax is a percentage", func(t *testing.T) {
		items := []SolarLineItem{lineItem(2, 25000, 0), lineItem(1, 50000, 1)}
		got := RecalculateSolarTotals(items, Percent{Hundredths: 1000}, Cents(20000))
		if got.Subtotal.Cents != 100000 {
			t.Errorf("subtotal = %d", got.Subtotal.Cents)
		}
		if got.GrandTotal.Cents != 110000 {
			t.Errorf("grand total = %d, want 110000", got.GrandTotal.Cents)
		}
		if got.TotalPayment != got.GrandTotal {
			t.Errorf("total payment %v != grand total %v", got.TotalPayment, got.GrandTotal)
		}
		if got.CompletionPayment.Cents != 90000 {
			t.Errorf("completion payment = %d, want 90000", got.CompletionPayment.Cents)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		p := SolarProject{
			LineItems:      []SolarLineItem{lineItem(3, 3333, 0), lineItem(7, 1999, 1)},
			TaxPercentage:  Percent{Hundredths: 1725},
			AdvancePayment: Cents(1000),
		}
		p.ApplyTotals()
		first := p.Totals()
		p.ApplyTotals()
		if p.Totals() != first {
			t.Fatalf("totals drifted: %+v then %+v", first, p.Totals())
		}
	})

	t.Run("advance above total goes negative", func(t *testing.T) {
		got := RecalculateSolarTotals([]SolarLineItem{lineItem(1, 1000, 0)}, Percent{}, Cents(5000))
		if got.CompletionPayment.Cents != -4000 {
			t.Fatalf("completion payment = %d", got.CompletionPayment.Cents)
		}
	})
}

func TestSolarProjectValidate(t *testing.T) {
	p := SolarProject{
		CustomerName:     "Bilal",
		Address:          "Street 4",
		Date:             NewDate(2024, 3, 1),
		ValidUntil:       NewDate(2024, 3, 31),
		ProjectType:      Hybrid,
		InstallationType: ElevatedInstallation,
		Status:           StatusComplete,
		LineItems:        []SolarLineItem{lineItem(1, 100, 0), lineItem(1, 100, 1)},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	dup := p
	dup.LineItems = []SolarLineItem{lineItem(1, 100, 2), lineItem(1, 100, 2)}
	if err := dup.Validate(); err == nil {
		t.Fatalf("expected duplicate order to fail")
	}

	neg := p
	neg.AdvancePayment = Cents(-1)
	if err := neg.Validate(); err == nil {
		t.Fatalf("expected negative advance to fail")
	}
}

func TestAssignLineOrder(t *testing.T) {
	items := []SolarLineItem{{}, {}, {}}
	AssignLineOrder(items)
	for i, it := range items {
		if it.Order != i {
			t.Fatalf("item %d order %d", i, it.Order)
		}
	}

	explicit := []SolarLineItem{{Order: 5}, {Order: 2}}
	AssignLineOrder(explicit)
	if explicit[0].Order != 5 || explicit[1].Order != 2 {
		t.Fatalf("explicit orders were overwritten: %+v", explicit)
	}
}
