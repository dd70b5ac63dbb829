// internal/iec/address_test.go
package iec

import (
	"errors"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		in     string
		code   string
		linear int
	}{
		{"IX0.0", "IX", 0},
		{"IX1.3", "IX", 11},
		{"QX0.7", "QX", 7},
		{"IW2", "IW", 2},
		{"QW100", "QW", 100},
		{"MW1024", "MW", 1024},
		{"MX3.1", "MX", 25},
	}

	for _, tc := range cases {
		a, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) err=%v", tc.in, err)
		}
		if a.Code() != tc.code {
			t.Fatalf("Parse(%q) code=%s want %s", tc.in, a.Code(), tc.code)
		}
		if a.Linear() != tc.linear {
			t.Fatalf("Parse(%q) linear=%d want %d", tc.in, a.Linear(), tc.linear)
		}
		if a.String() != tc.in {
			t.Fatalf("String()=%q want %q", a.String(), tc.in)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		"", "IX", "%IX0.0", "ZX0.0", "IB0", "IX0", "IX0.8", "IXa.1", "QW", "QW-1", "QW70000", "BAD",
	} {
		if _, err := Parse(in); !errors.Is(err, ErrBadAddress) {
			t.Fatalf("Parse(%q) expected ErrBadAddress, got %v", in, err)
		}
	}
}
