package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"1.234,56", 123456, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"0.01", 1, false},
		{" 7 ", 700, false},
		{"", 0, true},
		{"0", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for i, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("case %d (%q): expected error, got %d", i, tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %d (%q): unexpected error %v", i, tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("case %d (%q): got %d, want %d", i, tc.in, got, tc.want)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{-1234, "-12.34"},
		{123456, "1234.56"},
	}
	for i, tc := range cases {
		if got := FormatCents(tc.in); got != tc.want {
			t.Fatalf("case %d: FormatCents(%d) = %q, want %q", i, tc.in, got, tc.want)
		}
	}
}
