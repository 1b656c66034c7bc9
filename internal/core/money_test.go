package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := Cents(1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Cents(0).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}{Cents(15000), Cents(-5)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"a":150.00,"b":-0.05}` {
		t.Fatalf("unexpected json %s", b)
	}

	var in struct {
		A Money   `json:"a"`
		B Money   `json:"b"`
		P Percent `json:"p"`
	}
	if err := json.Unmarshal([]byte(`{"a":"12.345","b":7,"p":"7.5"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.A.Cents != 1235 || in.B.Cents != 700 || in.P.Hundredths != 750 {
		t.Fatalf("unexpected decode %+v", in)
	}

	if err := json.Unmarshal([]byte(`{"a":"ten"}`), &in); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func TestPercentOf(t *testing.T) {
	cases := []struct {
		pct   int64
		cents int64
		want  int64
	}{
		{1000, 100000, 10000}, // 10% of 1000.00
		{0, 12345, 0},
		{1750, 999, 175},  // 17.5% of 9.99 = 1.74825
		{50, 101, 1},      // 0.5% of 1.01 = 0.00505
		{10000, 4321, 4321},
	}
	for _, tc := range cases {
		got := Percent{Hundredths: tc.pct}.Of(Cents(tc.cents))
		if got.Cents != tc.want {
			t.Errorf("%d%% of %d: got %d want %d", tc.pct, tc.cents, got.Cents, tc.want)
		}
	}
}
