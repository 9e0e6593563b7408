package whatsapp

import "strings"

const (
	minPhoneDigits = 10
	maxPhoneDigits = 16
)

// NormalizePhone reduces a recipient identifier to the digit string the
// channel expects: every non-digit character is stripped (a leading
// plus sign included), then the result is checked against the length
// envelope and the obviously-invalid-number heuristics.
func NormalizePhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "+")

	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", &ValidationError{Field: "phoneNumber", Reason: "must contain 10 to 16 digits"}
	}
	if allSameDigit(digits) {
		return "", &ValidationError{Field: "phoneNumber", Reason: "repeated digit sequence"}
	}
	// For international numbers the leading digits up to the last ten
	// are the country code; a national number starting with zero is a
	// dialing prefix, not a subscriber number.
	if cc := len(digits) - minPhoneDigits; cc > 0 && digits[cc] == '0' {
		return "", &ValidationError{Field: "phoneNumber", Reason: "national number starts with zero"}
	}
	return digits, nil
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
