package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestNextProjectID(t *testing.T) {
	cases := []struct {
		name   string
		family Family
		year   int
		last   string
		want   string
	}{
		{"first zarorrat", FamilyZarorrat, 2024, "", "ZR-2024-0001"},
		{"first solar", FamilySolar, 2024, "", "US-2024-0001"},
		{"increments", FamilyZarorrat, 2024, "ZR-2024-0041", "ZR-2024-0042"},
		{"past four digits", FamilySolar, 2024, "US-2024-9999", "US-2024-10000"},
		{"unparseable suffix", FamilyZarorrat, 2024, "ZR-2024-ABCD", "ZR-2024-0001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextProjectID(tc.family, tc.year, tc.last); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
}

func TestNextProjectIDSequential(t *testing.T) {
	last := ""
	for i := 1; i <= 12; i++ {
		id := NextProjectID(FamilySolar, 2025, last)
		want := fmt.Sprintf("US-2025-%04d", i)
		if id != want {
			t.Fatalf("allocation %d: got %s want %s", i, id, want)
		}
		if last != "" && id <= last {
			t.Fatalf("ids not strictly increasing: %s after %s", id, last)
		}
		last = id
	}
}

func TestZarorratProjectValidate(t *testing.T) {
	good := ZarorratProject{
		CustomerName: "Acme",
		Address:      "Main road",
		Date:         NewDate(2024, 3, 1),
		ValidUntil:   NewDate(2024, 4, 1),
		Amount:       Cents(1),
		Status:       StatusPending,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Amount = Cents(0)
	bad.Status = "done"
	err := bad.Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError")
	}
	if _, ok := ve.Fields["amount"]; !ok {
		t.Errorf("missing amount field error: %v", ve.Fields)
	}
	if _, ok := ve.Fields["status"]; !ok {
		t.Errorf("missing status field error: %v", ve.Fields)
	}
}
