package types

import "fmt"

// TriageSeverity represents the severity classification set during triage
type TriageSeverity string

const (
	TriageLow    TriageSeverity = "LOW"
	TriageMedium TriageSeverity = "MEDIUM"
	TriageHigh   TriageSeverity = "HIGH"
)

// AllTriageSeverities returns all valid triage severities
func AllTriageSeverities() []TriageSeverity {
	return []TriageSeverity{
		TriageLow,
		TriageMedium,
		TriageHigh,
	}
}

// IsValid checks if the triage severity is valid
func (s TriageSeverity) IsValid() bool {
	switch s {
	case TriageLow,
		TriageMedium,
		TriageHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the triage severity
func (s TriageSeverity) String() string {
	return string(s)
}

// ParseTriageSeverity parses a string into a TriageSeverity
func ParseTriageSeverity(s string) (TriageSeverity, error) {
	severity := TriageSeverity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid triage severity: %s", s)
	}
	return severity, nil
}
