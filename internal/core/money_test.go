package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"150.5", 15050, true},
		{"0", 0, true}, // zero is allowed; coerced inputs default to it
		{"0.005", 1, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	got := FormatBRL(Money{Cents: 123456})
	if got != "R$1.234,56" {
		t.Fatalf("unexpected BRL format: %q", got)
	}
}

func TestSplitEven(t *testing.T) {
	cases := []struct {
		total int64
		n     int
		part  int64
	}{
		{1000, 4, 250},
		{1000, 3, 333}, // sum 999, one cent short by design
		{100, 3, 33},
		{101, 2, 51}, // half-up
		{500, 1, 500},
	}
	for _, tc := range cases {
		got := SplitEven(Money{Cents: tc.total}, tc.n)
		if got.Cents != tc.part {
			t.Fatalf("SplitEven(%d, %d) = %d, want %d", tc.total, tc.n, got.Cents, tc.part)
		}
	}
}

func TestSplitEvenDriftBound(t *testing.T) {
	for n := 2; n <= 12; n++ {
		for _, total := range []int64{999, 1000, 12345, 1} {
			part := SplitEven(Money{Cents: total}, n)
			sum := part.Cents * int64(n)
			drift := sum - total
			if drift < 0 {
				drift = -drift
			}
			if drift >= int64(n) {
				t.Fatalf("total=%d n=%d: drift %d exceeds %d cents", total, n, drift, n)
			}
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := Money{Cents: 15050}
	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "150.50" {
		t.Fatalf("unexpected encoding: %s", data)
	}
	var back Money
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != m {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	// Quoted amounts from older clients are tolerated.
	if err := back.UnmarshalJSON([]byte(`"12.34"`)); err != nil || back.Cents != 1234 {
		t.Fatalf("quoted amount: cents=%d err=%v", back.Cents, err)
	}
}
