package validators

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)

// NormalizePhone strips common separators. The result is what gets stored and
// matched for guest bookings.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(strings.TrimSpace(phone))
}

// IsPhoneValid accepts E.164-like numbers of 8 to 15 digits.
func IsPhoneValid(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}
