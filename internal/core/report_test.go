package core

import "testing"

func TestMonthlyReport(t *testing.T) {
	r := NewMonthlyReport(2024)
	r.AddProductProfit([]Contribution{
		{Source: SourceProductProfit, RowID: "1", Date: NewDate(2024, 3, 15), Amount: Cents(15000)},
		{Date: NewDate(2023, 3, 15), Amount: Cents(99999)}, // other year
	})
	r.AddProjectProfit([]Contribution{
		{Source: SourceSolar, RowID: "US-2024-0001", Date: NewDate(2024, 3, 1), Amount: Cents(110000)},
		{Source: SourceZarorrat, RowID: "ZR-2024-0001", Date: NewDate(2024, 3, 9), Amount: Cents(2500)},
		{Date: NewDate(2024, 12, 31), Amount: Cents(100)},
	})
	r.Finalize(3)

	if len(r.Buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(r.Buckets))
	}
	mar := r.Buckets[2]
	if mar.Month != "Mar" {
		t.Fatalf("bucket 2 is %s", mar.Month)
	}
	if mar.ProductProfit.Cents != 15000 {
		t.Errorf("march product profit = %d, want 15000", mar.ProductProfit.Cents)
	}
	if mar.ProjectProfit.Cents != 112500 {
		t.Errorf("march project profit = %d, want 112500", mar.ProjectProfit.Cents)
	}
	if mar.TotalProfit.Cents != 127500 {
		t.Errorf("march total = %d", mar.TotalProfit.Cents)
	}

	var sum Money
	for _, b := range r.Buckets {
		sum = sum.Add(b.TotalProfit)
	}
	if sum != r.Summary.TotalProfit {
		t.Errorf("bucket totals %v != summary total %v", sum, r.Summary.TotalProfit)
	}
	if r.Summary.TotalProfit != r.Summary.TotalProductProfit.Add(r.Summary.TotalProjectProfit) {
		t.Errorf("summary total is not product + project")
	}
	if r.Summary.CurrentMonth != "Mar" || r.Summary.CurrentMonthProfit.Cents != 127500 {
		t.Errorf("current month = %s %v", r.Summary.CurrentMonth, r.Summary.CurrentMonthProfit)
	}
}

func TestMonthlyReportEmptyYear(t *testing.T) {
	r := NewMonthlyReport(1999)
	r.Finalize(7)
	if r.Summary.CurrentMonth != "Jul" || !r.Summary.CurrentMonthProfit.IsZero() || !r.Summary.TotalProfit.IsZero() {
		t.Fatalf("unexpected summary %+v", r.Summary)
	}
}

func TestDailyReport(t *testing.T) {
	r := NewDailyReport(2024, 2)
	r.Add([]Contribution{
		{Date: NewDate(2024, 2, 1), Amount: Cents(100)},
		{Date: NewDate(2024, 2, 1), Amount: Cents(50)},
		{Date: NewDate(2024, 2, 29), Amount: Cents(7)},
		{Date: NewDate(2024, 3, 1), Amount: Cents(1000)},
	})
	if len(r.Days) != 31 {
		t.Fatalf("expected 31 days, got %d", len(r.Days))
	}
	if r.Days[0].Day != 1 || r.Days[0].Profit.Cents != 150 {
		t.Errorf("day 1 = %+v", r.Days[0])
	}
	if r.Days[28].Profit.Cents != 7 {
		t.Errorf("day 29 = %+v", r.Days[28])
	}
	if !r.Days[30].Profit.IsZero() {
		t.Errorf("day 31 should be zero")
	}
}

func TestFinancialSummaryFinalize(t *testing.T) {
	f := FinancialSummary{
		TotalSales:    Cents(10000),
		ProductProfit: Cents(4000),
		ProjectAmount: Cents(6000),
		TotalExpenses: Cents(2500),
	}
	f.Finalize()
	if f.TotalRevenue.Cents != 16000 {
		t.Errorf("revenue = %d", f.TotalRevenue.Cents)
	}
	if f.TotalProfit.Cents != 7500 {
		t.Errorf("profit = %d", f.TotalProfit.Cents)
	}
}
