package core

import (
	"fmt"
	"time"
)

// Report sources. Each names the rows one query feeds into a report.
const (
	SourceProductProfit = "product_profit"
	SourceProductSales  = "product_sales"
	SourceZarorrat      = "zarorrat_project"
	SourceSolar         = "solar_project"
	SourceExpense       = "expense"
	SourceSalary        = "salary"
)

// RowError describes a stored row that could not be read and was left out.
type RowError struct {
	Source string
	RowID  string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %s: %v", e.Source, e.RowID, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

type (
	MonthBucket struct {
		Month         string `json:"month"`
		ProductProfit Money  `json:"product_profit"`
		ProjectProfit Money  `json:"project_profit"`
		TotalProfit   Money  `json:"total_profit"`
	}

	MonthlySummary struct {
		TotalProductProfit Money  `json:"total_product_profit"`
		TotalProjectProfit Money  `json:"total_project_profit"`
		TotalProfit        Money  `json:"total_profit"`
		CurrentMonthProfit Money  `json:"current_month_profit"`
		CurrentMonth       string `json:"current_month"`
	}

	MonthlyReport struct {
		Year    int            `json:"year"`
		Buckets []MonthBucket  `json:"chart_data"`
		Summary MonthlySummary `json:"summary"`
	}

	DayBucket struct {
		Day    int   `json:"day"`
		Profit Money `json:"profit"`
	}

	DailyReport struct {
		Year  int         `json:"year"`
		Month int         `json:"month"`
		Days  []DayBucket `json:"data"`
	}

	// Summary holds point-in-time counts and sums for a year.
	Summary struct {
		TotalProjects   int   `json:"total_projects"`
		TotalProducts   int   `json:"total_products"`
		TotalExpenses   Money `json:"total_expenses"`
		TotalSalaries   Money `json:"total_salaries"`
		PendingProjects int   `json:"pending_projects"`
		Year            int   `json:"year"`
	}

	// FinancialSummary is the month-level profit and loss view.
	FinancialSummary struct {
		Year          int   `json:"year"`
		Month         int   `json:"month"`
		TotalSales    Money `json:"total_sales"`
		ProductProfit Money `json:"product_profit"`
		ProjectAmount Money `json:"project_amount"`
		TotalExpenses Money `json:"total_expenses"`
		TotalRevenue  Money `json:"total_revenue"`
		TotalProfit   Money `json:"total_profit"`
	}
)

// MonthAbbrev returns "Jan".."Dec".
func MonthAbbrev(month int) string {
	return time.Month(month).String()[:3]
}

// NewMonthlyReport returns twelve zeroed buckets for year.
func NewMonthlyReport(year int) MonthlyReport {
	r := MonthlyReport{Year: year, Buckets: make([]MonthBucket, 12)}
	for i := range r.Buckets {
		r.Buckets[i].Month = MonthAbbrev(i + 1)
	}
	return r
}

// AddProductProfit folds product contributions into the month buckets.
// Contributions outside the report year are ignored.
func (r *MonthlyReport) AddProductProfit(cs []Contribution) {
	for _, c := range cs {
		if c.Date.Year() != r.Year {
			continue
		}
		b := &r.Buckets[c.Date.Month()-1]
		b.ProductProfit = b.ProductProfit.Add(c.Amount)
	}
}

// AddProjectProfit folds project contributions of any family into the month buckets.
func (r *MonthlyReport) AddProjectProfit(cs []Contribution) {
	for _, c := range cs {
		if c.Date.Year() != r.Year {
			continue
		}
		b := &r.Buckets[c.Date.Month()-1]
		b.ProjectProfit = b.ProjectProfit.Add(c.Amount)
	}
}

// Finalize computes bucket totals and the summary. currentMonth is 1..12.
func (r *MonthlyReport) Finalize(currentMonth int) {
	var s MonthlySummary
	for i := range r.Buckets {
		b := &r.Buckets[i]
		b.TotalProfit = b.ProductProfit.Add(b.ProjectProfit)
		s.TotalProductProfit = s.TotalProductProfit.Add(b.ProductProfit)
		s.TotalProjectProfit = s.TotalProjectProfit.Add(b.ProjectProfit)
	}
	s.TotalProfit = s.TotalProductProfit.Add(s.TotalProjectProfit)
	s.CurrentMonth = MonthAbbrev(currentMonth)
	s.CurrentMonthProfit = r.Buckets[currentMonth-1].TotalProfit
	r.Summary = s
}

// NewDailyReport returns 31 zeroed day buckets regardless of month length.
func NewDailyReport(year, month int) DailyReport {
	r := DailyReport{Year: year, Month: month, Days: make([]DayBucket, 31)}
	for i := range r.Days {
		r.Days[i].Day = i + 1
	}
	return r
}

// Add folds contributions dated in the report month into day buckets.
func (r *DailyReport) Add(cs []Contribution) {
	for _, c := range cs {
		if c.Date.Year() != r.Year || c.Date.Month() != r.Month {
			continue
		}
		d := &r.Days[c.Date.Day()-1]
		d.Profit = d.Profit.Add(c.Amount)
	}
}

// SumContributions adds up the amounts.
func SumContributions(cs []Contribution) Money {
	var total Money
	for _, c := range cs {
		total = total.Add(c.Amount)
	}
	return total
}

// Finalize derives revenue and profit from the collected parts.
func (f *FinancialSummary) Finalize() {
	f.TotalRevenue = f.TotalSales.Add(f.ProjectAmount)
	f.TotalProfit = f.ProductProfit.Add(f.ProjectAmount).Sub(f.TotalExpenses)
}
