package whatsapp

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain digits", "18095551234", "18095551234", true},
		{"leading plus", "+18095551234", "18095551234", true},
		{"separators", "+1 (809) 555-12.34", "18095551234", true},
		{"ten digit local", "8095551234", "8095551234", true},
		{"sixteen digits", "1234567890123456", "1234567890123456", true},
		{"slash separators", "+1/809/555/1234", "18095551234", true},
		{"uri prefix", "tel:+18095551234", "18095551234", true},
		{"too short", "555123", "", false},
		{"too long", "12345678901234567", "", false},
		{"letters leave too few digits", "1809call-now", "", false},
		{"repeated digits", "11111111111", "", false},
		{"zero after country code", "1 0095551234", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.input)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tc.want {
					t.Fatalf("got %q, want %q", got, tc.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected rejection, got %q", got)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("rejection must be a ValidationError, got %T", err)
			}
		})
	}
}
