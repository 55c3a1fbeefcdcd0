// Package validation checks command-line input before it reaches the
// network. Profile bodies are never validated here; the server owns that.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Input length limits
const (
	MaxEmailLength = 320  // RFC 5321: 64 (local) + 1 (@) + 255 (domain)
	MaxURLLength   = 2048 // Standard browser URL limit
)

// ValidateEmail checks an address used for a profile lookup. The address is
// placed in the request path verbatim, so characters that would end the
// path segment are rejected.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email must not be empty")
	}
	if n := utf8.RuneCountInString(email); n > MaxEmailLength {
		return fmt.Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, n)
	}
	if i := strings.IndexAny(email, "/?#"); i >= 0 {
		return fmt.Errorf("invalid email %q: must not contain %q", email, email[i])
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email %q: %w", email, err)
	}
	if addr.Address != email {
		return fmt.Errorf("invalid email %q: must be a bare address like user@example.com", email)
	}
	return nil
}
