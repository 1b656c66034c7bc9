package core

import (
	"slices"
	"strings"
	"time"
)

// Utilizers are the people an expense can be charged to.
var Utilizers = []string{"Tariq", "Sajid", "Wajid"}

type Expense struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Utilizer    string    `json:"utilizer"`
	Category    string    `json:"category,omitempty"`
	Amount      Money     `json:"amount"`
	Date        Date      `json:"date"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images"`
	UpdatedBy   *int64    `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e Expense) Validate() error {
	v := NewValidationError()
	v.Check(strings.TrimSpace(e.Title) != "", "title", "this field is required")
	v.Check(len(e.Title) <= 200, "title", "ensure this field has no more than 200 characters")
	v.Check(slices.Contains(Utilizers, e.Utilizer), "utilizer", "\""+e.Utilizer+"\" is not a valid choice")
	v.Check(!e.Amount.IsNegative(), "amount", "ensure this value is greater than or equal to 0")
	v.Check(!e.Date.IsZero(), "date", "this field is required")
	v.Check(len(e.Images) <= MaxImages, "images", "an expense can have at most 7 images")
	for _, img := range e.Images {
		if strings.TrimSpace(img) == "" {
			v.Add("images", "image reference cannot be empty")
			break
		}
	}
	return v.Err()
}
