package errors

import (
	"strings"
	"unicode"
)

// ValidateElementID validates a node, container, or connection identifier.
// Identifiers become JSON map keys and cache key components, so the rules
// are intentionally conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No "->" (reserved for derived connection identities)
//   - No ":" (reserved for container endpoint identities)
//   - Maximum length of 128 characters
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "element id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidID, "element id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "element id %q contains whitespace or control characters", id)
		}
	}

	reserved := []string{
		"->", // derived connection identity separator
		":",  // container endpoint identity separator
	}
	for _, seq := range reserved {
		if strings.Contains(id, seq) {
			return New(ErrCodeInvalidID, "element id %q contains reserved sequence %q", id, seq)
		}
	}

	return nil
}

// ValidateFraction validates a reservation fraction (header, footer, step
// indicator). Fractions must lie in [0, 1); the grid invariant that all
// fractions sum below 1 is checked separately by the scene validator.
func ValidateFraction(name string, f float64) error {
	if f < 0 || f >= 1 {
		return New(ErrCodeInvalidGrid, "%s fraction %.3f out of range [0, 1)", name, f)
	}
	return nil
}
