package statement

import (
	"testing"
	"time"
)

func TestCleanModelJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"plain fence", "```\n[]\n```", `[]`},
		{"surrounding prose", "Here you go:\n[1, 2]\nHope that helps!", `[1, 2]`},
		{"leading whitespace", "  \n[]\n", `[]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanModelJSON(tc.in); got != tc.want {
				t.Fatalf("cleanModelJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeDrafts(t *testing.T) {
	raw := `[
		{"description": "Padaria", "amount": 25.5, "date": "2026-03-04", "category": "Mercado"},
		{"description": "Uber", "amount": "18.90", "date": "2026-03-05", "category": ""}
	]`
	drafts, err := decodeDrafts(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[0].Amount.Cents != 2550 {
		t.Fatalf("amount = %d", drafts[0].Amount.Cents)
	}
	if !drafts[0].Date.Equal(time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", drafts[0].Date)
	}
	if drafts[1].Category != "Outros" {
		t.Fatalf("empty category should default, got %q", drafts[1].Category)
	}
}

func TestDecodeDraftsRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"bad amount", `[{"description": "x", "amount": "abc", "date": "2026-03-04"}]`},
		{"bad date", `[{"description": "x", "amount": 1, "date": "04/03/2026"}]`},
		{"not an array", `{"description": "x"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeDrafts(tc.raw); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
