package helpers

import "strings"

// NormalizePhone strips separators so "010-1234-5678" and "01012345678" compare equal.
func NormalizePhone(phone string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(phone))
}
