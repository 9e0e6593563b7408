package audit

import (
	"strings"
	"testing"
)

func TestMaskNeverExposesFullNumber(t *testing.T) {
	masked := Mask("18095551234")
	if masked == "18095551234" {
		t.Fatalf("mask returned the raw identifier")
	}
	if !strings.HasPrefix(masked, "1809") || !strings.HasSuffix(masked, "34") {
		t.Fatalf("mask = %q", masked)
	}
}

func TestMaskShortInput(t *testing.T) {
	if got := Mask("12345"); got != "…" {
		t.Fatalf("short input should be fully masked, got %q", got)
	}
}

func TestFingerprintStableAndOpaque(t *testing.T) {
	a := Fingerprint("18095551234")
	b := Fingerprint("18095551234")
	c := Fingerprint("18095551235")

	if a != b {
		t.Fatalf("fingerprint not stable: %s vs %s", a, b)
	}
	if a == c {
		t.Fatalf("distinct identifiers collided")
	}
	if len(a) != 16 {
		t.Fatalf("fingerprint length = %d", len(a))
	}
}
