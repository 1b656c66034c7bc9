package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Family is a project line with its own identifier sequence.
type Family string

const (
	FamilyZarorrat Family = "ZARORRAT"
	FamilySolar    Family = "SOLAR"
)

// Prefix returns the identifier prefix for the family.
func (f Family) Prefix() string {
	switch f {
	case FamilyZarorrat:
		return "ZR"
	case FamilySolar:
		return "US"
	}
	return ""
}

// IDPrefix is the "PREFIX-YEAR-" stem shared by all ids of a family in a year.
func (f Family) IDPrefix(year int) string {
	return fmt.Sprintf("%s-%d-", f.Prefix(), year)
}

// FormatProjectID renders PREFIX-YEAR-NNNN.
func FormatProjectID(f Family, year, seq int) string {
	return fmt.Sprintf("%s%04d", f.IDPrefix(year), seq)
}

// NextProjectID derives the id that follows lastID, the highest id already
// allocated for (f, year). An empty lastID starts the sequence at 1, and so
// does a suffix that is not an integer.
func NextProjectID(f Family, year int, lastID string) string {
	seq := 1
	if lastID != "" {
		i := strings.LastIndex(lastID, "-")
		if n, err := strconv.Atoi(lastID[i+1:]); err == nil && n >= 0 {
			seq = n + 1
		}
	}
	return FormatProjectID(f, year, seq)
}

// ProjectStatus is shared by both project families.
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusInProgress ProjectStatus = "in_progress"
	StatusComplete   ProjectStatus = "complete"
	StatusCancelled  ProjectStatus = "cancelled"
)

// EarningStatuses are the statuses whose projects count towards monthly profit.
var EarningStatuses = []ProjectStatus{StatusComplete, StatusInProgress}

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusComplete, StatusCancelled:
		return true
	}
	return false
}

type (
	// ZarorratService is a catalog entry a Zarorrat project can be linked to.
	ZarorratService struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		IsActive  bool      `json:"is_active"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	ZarorratProject struct {
		ID           int64             `json:"-"`
		ProjectID    string            `json:"project_id"`
		CustomerName string            `json:"customer_name"`
		Address      string            `json:"address"`
		Date         Date              `json:"date"`
		ValidUntil   Date              `json:"valid_until"`
		Notes        string            `json:"notes,omitempty"`
		Amount       Money             `json:"amount"`
		Status       ProjectStatus     `json:"status"`
		Services     []ZarorratService `json:"services"`
		CreatedAt    time.Time         `json:"created_at"`
		UpdatedAt    time.Time         `json:"updated_at"`
	}
)

func (s ZarorratService) Validate() error {
	v := NewValidationError()
	v.Check(strings.TrimSpace(s.Name) != "", "name", "this field is required")
	v.Check(len(s.Name) <= 100, "name", "ensure this field has no more than 100 characters")
	return v.Err()
}

func (p ZarorratProject) Validate() error {
	v := NewValidationError()
	validateProjectCommon(v, p.CustomerName, p.Address, p.Date, p.ValidUntil, p.Status)
	v.Check(p.Amount.Validate() == nil, "amount", "ensure this value is greater than or equal to 0.01")
	return v.Err()
}

func validateProjectCommon(v *ValidationError, customer, address string, date, validUntil Date, status ProjectStatus) {
	v.Check(strings.TrimSpace(customer) != "", "customer_name", "this field is required")
	v.Check(len(customer) <= 200, "customer_name", "ensure this field has no more than 200 characters")
	v.Check(strings.TrimSpace(address) != "", "address", "this field is required")
	v.Check(!date.IsZero(), "date", "this field is required")
	v.Check(!validUntil.IsZero(), "valid_until", "this field is required")
	v.Check(status.Valid(), "status", "\""+string(status)+"\" is not a valid choice")
}

// Contribution is one dated amount feeding a profit bucket. Products,
// Zarorrat projects and solar projects all reduce to it.
type Contribution struct {
	Source string
	RowID  string
	Date   Date
	Amount Money
}
