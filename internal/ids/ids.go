package ids

import "strings"

// HasTransactionPrefix reports whether s looks like a transaction ID ("T...").
func HasTransactionPrefix(s string) bool { return strings.HasPrefix(s, "T") }

// HasProductPrefix reports whether s looks like a product ID ("P...").
func HasProductPrefix(s string) bool { return strings.HasPrefix(s, "P") }

// HasCustomerPrefix reports whether s looks like a customer ID ("C...").
func HasCustomerPrefix(s string) bool { return strings.HasPrefix(s, "C") }

// ProductNumber extracts the numeric part of a product ID.
// "P101" -> 101, "p5" -> 5. The leading P/p is stripped and any remaining
// non-digit characters are discarded. Returns false if no digits remain.
func ProductNumber(productID string) (int, bool) {
	s := strings.TrimSpace(productID)
	if s == "" {
		return 0, false
	}
	if s[0] == 'P' || s[0] == 'p' {
		s = s[1:]
	}

	n := 0
	found := false
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		n = n*10 + int(r-'0')
		found = true
	}
	if !found {
		return 0, false
	}
	return n, true
}
