package slack

import (
	"strings"
	"unicode"
)

// NormalizeChannelName normalizes a string to be a valid Slack channel name
// Slack allows: lowercase letters, numbers, hyphens, underscores, and Unicode characters
// Slack prohibits: uppercase (Latin), spaces, slashes, periods, commas, and special symbols
// Maximum length: 80 characters
func NormalizeChannelName(name string) string {
	name = strings.ReplaceAll(name, " ", "-")

	var result strings.Builder
	result.Grow(len(name))

	for _, r := range name {
		// Allow: lowercase Latin letters, numbers, hyphens, underscores
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result.WriteRune(r)
		} else if r >= 'A' && r <= 'Z' {
			result.WriteRune(unicode.ToLower(r))
		} else if r > 127 {
			// Allow non-ASCII characters (accented ward names etc.)
			// except for specific prohibited ones
			if !isProhibitedSymbol(r) {
				result.WriteRune(r)
			}
		}
		// Other ASCII symbols are dropped
	}

	normalized := result.String()
	if len(normalized) > 80 {
		normalized = normalized[:80]
	}
	return strings.TrimRight(normalized, "-")
}

// isProhibitedSymbol checks if a Unicode character is prohibited in Slack channel names
func isProhibitedSymbol(r rune) bool {
	prohibitedRunes := []rune{
		'。', '、', '!', '?', '/', '\\', '.', ',', '!', '?',
		'@', '#', '$', '%', '^', '&', '*', '(', ')', '[', ']',
		'{', '}', '<', '>', '|', '~', '`', '\'', '"', ';', ':',
		'+', '=',
	}

	for _, prohibited := range prohibitedRunes {
		if r == prohibited {
			return true
		}
	}
	return false
}
