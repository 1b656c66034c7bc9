package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"backoffice/internal/core"
	"backoffice/internal/log"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{ServiceAccountJSON: "{}"}, log.Discard())
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing spreadsheet id" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := New(context.Background(), Options{SpreadsheetID: "sheet"}, log.Discard())
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestCredentialsJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sa.json")
	if err := os.WriteFile(file, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name    string
		opts    Options
		env     string
		want    string
		wantErr bool
	}{
		{name: "inline wins", opts: Options{ServiceAccountJSON: `{"from":"inline"}`, ServiceAccountFile: file}, want: `{"from":"inline"}`},
		{name: "file", opts: Options{ServiceAccountFile: file}, want: `{"from":"file"}`},
		{name: "application default path", env: file, want: `{"from":"file"}`},
		{name: "missing file", opts: Options{ServiceAccountFile: filepath.Join(dir, "nope.json")}, wantErr: true},
		{name: "nothing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", tt.env)
			got, err := credentialsJSON(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("credentialsJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("credentialsJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWriteMonthlyReport_Uninitialized(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetBase: "Profit", logger: log.Discard()}
	if _, err := c.WriteMonthlyReport(context.Background(), core.NewMonthlyReport(2024)); err == nil {
		t.Fatal("expected error when service is nil")
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Profit", 2024, "2024 Profit"},
		{"  Profit ", 2025, "2025 Profit"},
		{"2023 Profit", 2024, "2023 Profit"},
		{"", 2024, ""},
		{"12345 Profit", 2024, "2024 12345 Profit"},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestCellValues(t *testing.T) {
	r := core.NewMonthlyReport(2024)
	r.AddProductProfit([]core.Contribution{{Date: core.NewDate(2024, 12, 31), Amount: core.Cents(999)}})
	r.Finalize(12)

	values := cellValues(r)
	if len(values) != 14 {
		t.Fatalf("rows = %d, want 14", len(values))
	}
	if values[0][0] != "Month" {
		t.Errorf("header = %v", values[0])
	}
	if values[12][0] != "Dec" || values[12][1] != "9.99" {
		t.Errorf("december row = %v", values[12])
	}
	if got := reportRange("2024 Profit", len(values)); got != "'2024 Profit'!A1:D14" {
		t.Errorf("reportRange = %q", got)
	}
}
