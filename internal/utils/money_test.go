package utils

import "testing"

func TestFormatFCFA(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 FCFA"},
		{500, "500 FCFA"},
		{12500, "12 500 FCFA"},
		{1250000, "1 250 000 FCFA"},
		{-7500, "-7 500 FCFA"},
	}
	for _, c := range cases {
		if got := FormatFCFA(c.in); got != c.want {
			t.Fatalf("FormatFCFA(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseFCFA(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12 500 FCFA", 12500, false},
		{"12.500", 12500, false},
		{"12500", 12500, false},
		{"  7 000 fcfa ", 7000, false},
		{"FCFA", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseFCFA(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("ParseFCFA(%q) expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFCFA(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseFCFA(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
