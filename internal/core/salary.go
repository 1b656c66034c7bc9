package core

import (
	"strings"
	"time"
)

// WageType tells how a salary record is paid.
type WageType string

const (
	WageMonthly WageType = "Monthly"
	WageDaily   WageType = "Daily"
	WageWage    WageType = "Wage"
)

func (w WageType) Valid() bool {
	switch w {
	case WageMonthly, WageDaily, WageWage:
		return true
	}
	return false
}

type (
	// Salary is a payout record. Employee is free text and is not unique.
	Salary struct {
		ID           int64     `json:"id"`
		WageType     WageType  `json:"wage_type"`
		Employee     string    `json:"employee"`
		Month        Date      `json:"month"`
		Date         Date      `json:"date"`
		Amount       Money     `json:"amount"`
		TotalPaid    Money     `json:"total_paid"`
		SalaryAmount Money     `json:"salary_amount"`
		Status       string    `json:"status,omitempty"`
		Description  string    `json:"description,omitempty"`
		UpdatedBy    *int64    `json:"updated_by"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	// AdvanceHistory is cash taken against a future salary. It links to
	// Salary only through the employee name and the calendar month.
	AdvanceHistory struct {
		ID           int64     `json:"id"`
		Employee     string    `json:"employee"`
		Date         Date      `json:"date"`
		AdvanceTaken Money     `json:"advance_taken"`
		Purpose      string    `json:"purpose"`
		UpdatedBy    *int64    `json:"updated_by"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	// Reconciliation is what an employee is still owed for a month.
	Reconciliation struct {
		Employee          string           `json:"employee"`
		Month             int              `json:"month"`
		Year              int              `json:"year"`
		BaseSalary        Money            `json:"base_salary"`
		TotalAdvanceTaken Money            `json:"total_advance_taken"`
		RemainingSalary   Money            `json:"remaining_salary"`
		AdvanceHistory    []AdvanceHistory `json:"advance_history"`
	}
)

// Normalize applies the wage-type rules: daily records carry no money,
// monthly records keep amount, total paid and salary amount equal, and the
// month is always the first day of the month.
func (s *Salary) Normalize() {
	s.Employee = strings.TrimSpace(s.Employee)
	if s.WageType == "" {
		s.WageType = WageWage
	}
	if s.Month.IsZero() {
		s.Month = s.Date
	}
	if !s.Month.IsZero() {
		s.Month = s.Month.FirstOfMonth()
	}
	switch s.WageType {
	case WageDaily:
		s.Amount, s.TotalPaid, s.SalaryAmount = Money{}, Money{}, Money{}
	case WageMonthly:
		base := s.SalaryAmount
		if base.IsZero() {
			base = s.Amount
		}
		s.Amount, s.TotalPaid, s.SalaryAmount = base, base, base
	}
}

func (s Salary) Validate() error {
	v := NewValidationError()
	v.Check(s.WageType.Valid(), "wage_type", "\""+string(s.WageType)+"\" is not a valid choice")
	v.Check(strings.TrimSpace(s.Employee) != "", "employee", "this field is required")
	v.Check(len(s.Employee) <= 100, "employee", "ensure this field has no more than 100 characters")
	v.Check(!s.Date.IsZero(), "date", "this field is required")
	v.Check(!s.Amount.IsNegative(), "amount", "ensure this value is greater than or equal to 0")
	v.Check(!s.TotalPaid.IsNegative(), "total_paid", "ensure this value is greater than or equal to 0")
	v.Check(!s.SalaryAmount.IsNegative(), "salary_amount", "ensure this value is greater than or equal to 0")
	if s.WageType == WageMonthly {
		v.Check(s.SalaryAmount.Cents > 0, "salary_amount", "monthly salary requires a positive amount")
	}
	return v.Err()
}

func (a AdvanceHistory) Validate() error {
	v := NewValidationError()
	v.Check(strings.TrimSpace(a.Employee) != "", "employee", "this field is required")
	v.Check(len(a.Employee) <= 100, "employee", "ensure this field has no more than 100 characters")
	v.Check(!a.Date.IsZero(), "date", "this field is required")
	v.Check(!a.AdvanceTaken.IsNegative(), "advance_taken", "ensure this value is greater than or equal to 0")
	return v.Err()
}

// Reconcile folds the advances taken in a month against the base salary.
// Advances are expected newest first; the remaining amount may go negative.
func Reconcile(salary Salary, advances []AdvanceHistory, month, year int) Reconciliation {
	r := Reconciliation{
		Employee:       salary.Employee,
		Month:          month,
		Year:           year,
		BaseSalary:     salary.Amount,
		AdvanceHistory: advances,
	}
	if r.AdvanceHistory == nil {
		r.AdvanceHistory = []AdvanceHistory{}
	}
	for _, a := range advances {
		r.TotalAdvanceTaken = r.TotalAdvanceTaken.Add(a.AdvanceTaken)
	}
	r.RemainingSalary = r.BaseSalary.Sub(r.TotalAdvanceTaken)
	return r
}
