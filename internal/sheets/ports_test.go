package sheets

import (
	"testing"

	"backoffice/internal/core"
)

func TestRows(t *testing.T) {
	r := core.NewMonthlyReport(2024)
	r.AddProductProfit([]core.Contribution{{Date: core.NewDate(2024, 3, 5), Amount: core.Cents(1250)}})
	r.AddProjectProfit([]core.Contribution{{Date: core.NewDate(2024, 3, 9), Amount: core.Cents(10000)}})
	r.Finalize(3)

	rows := Rows(r)
	if len(rows) != 13 {
		t.Fatalf("rows = %d, want 13", len(rows))
	}
	if got := rows[2]; got[0] != "Mar" || got[1] != "12.50" || got[2] != "100.00" || got[3] != "112.50" {
		t.Errorf("march row = %v", got)
	}
	if got := rows[0]; got[3] != "0.00" {
		t.Errorf("january total = %q, want 0.00", got[3])
	}
	if got := rows[12]; got[0] != "Total" || got[3] != "112.50" {
		t.Errorf("totals row = %v", got)
	}
}
