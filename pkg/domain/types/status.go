package types

import "fmt"

// Status represents the workflow status of an occurrence
type Status string

const (
	// StatusRegistered is the initial status of newly reported occurrences
	StatusRegistered Status = "REGISTERED"
	// StatusPending is the initial status of administrative occurrences,
	// which wait for the signature collection step
	StatusPending Status = "PENDING"
	// StatusInAnalysis means the occurrence is under review
	StatusInAnalysis Status = "IN_ANALYSIS"
	// StatusForwarded means an exam review occurrence was sent to an external reviewer
	StatusForwarded Status = "FORWARDED"
	// StatusConcluded is terminal; no further status change is accepted
	StatusConcluded Status = "CONCLUDED"
)

// AllStatuses returns all valid statuses
func AllStatuses() []Status {
	return []Status{
		StatusRegistered,
		StatusPending,
		StatusInAnalysis,
		StatusForwarded,
		StatusConcluded,
	}
}

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusRegistered,
		StatusPending,
		StatusInAnalysis,
		StatusForwarded,
		StatusConcluded:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusConcluded
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a string into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status: %s", s)
	}
	return status, nil
}
