// Package validation holds field-level checks shared by configuration loaders.
package validation

import (
	"fmt"
	"strings"
)

var modifierNames = map[string]bool{
	"ctrl": true, "control": true, "cmd": true, "meta": true,
	"shift": true, "alt": true, "option": true,
}

// ValidateShortcutKey checks the shape of a key combination such as
// "ctrl+plus", "shift+tab" or "ctrl++": any number of modifiers followed by
// exactly one key.
func ValidateShortcutKey(field, value string) []string {
	if value == " " {
		return nil
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{fmt.Sprintf("%s: shortcut key cannot be empty", field)}
	}
	if value == "+" {
		return nil
	}

	keys := 0
	for _, part := range strings.Split(value, "+") {
		part = strings.TrimSpace(part)
		if part == "" || modifierNames[strings.ToLower(part)] {
			continue
		}
		keys++
	}
	if keys == 0 && strings.HasSuffix(value, "++") {
		keys = 1
	}

	switch {
	case keys == 0:
		return []string{fmt.Sprintf("%s: shortcut %q has no key, only modifiers", field, value)}
	case keys > 1:
		return []string{fmt.Sprintf("%s: shortcut %q combines more than one key", field, value)}
	}
	return nil
}

// ValidateRange checks that value lies in [lo, hi].
func ValidateRange(field string, value, lo, hi float64) []string {
	if value < lo || value > hi {
		return []string{fmt.Sprintf("%s must be between %g and %g", field, lo, hi)}
	}
	return nil
}

// ValidateNonNegative checks that value is zero or more.
func ValidateNonNegative(field string, value float64) []string {
	if value < 0 {
		return []string{fmt.Sprintf("%s must be non-negative", field)}
	}
	return nil
}
