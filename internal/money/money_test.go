package money

import "testing"

func TestParseMinor(t *testing.T) {
	cases := []struct {
		input   string
		want    int64
		wantErr error
	}{
		{"30.00", 3000, nil},
		{"0.01", 1, nil},
		{"100", 10000, nil},
		{"99.9", 9990, nil},
		{"-5.00", -500, nil},
		{"1.005", 0, ErrTooManyDecimals},
		{"abc", 0, ErrInvalidAmount},
		{"", 0, ErrInvalidAmount},
		{"92233720368547758.07", 9223372036854775807, nil},
		{"92233720368547758.08", 0, ErrInvalidAmount},
		{"99999999999999999999.00", 0, ErrInvalidAmount},
		{"-92233720368547758.09", 0, ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := ParseMinor(tc.input)
		if err != tc.wantErr {
			t.Fatalf("ParseMinor(%q) error = %v, want %v", tc.input, err, tc.wantErr)
		}
		if err == nil && got != tc.want {
			t.Fatalf("ParseMinor(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestFormatMinor(t *testing.T) {
	cases := []struct {
		input int64
		want  string
	}{
		{3000, "30.00"},
		{1, "0.01"},
		{0, "0.00"},
		{-500, "-5.00"},
		{9990, "99.90"},
	}
	for _, tc := range cases {
		if got := FormatMinor(tc.input); got != tc.want {
			t.Fatalf("FormatMinor(%d) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, raw := range []string{"0.00", "10.50", "12345.67"} {
		minor, err := ParseMinor(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if got := FormatMinor(minor); got != raw {
			t.Fatalf("round trip %q -> %q", raw, got)
		}
	}
}
