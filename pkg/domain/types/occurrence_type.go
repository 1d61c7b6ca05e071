package types

import "fmt"

// OccurrenceType represents the domain category of an occurrence
type OccurrenceType string

const (
	// TypeAdministrative covers administrative issues resolved by signature collection
	TypeAdministrative OccurrenceType = "ADMINISTRATIVE"
	// TypeExamReview covers exam review requests forwarded to an external reviewer
	TypeExamReview OccurrenceType = "EXAM_REVIEW"
	// TypeNursing covers nursing events finalized directly by the assigned nurse
	TypeNursing OccurrenceType = "NURSING"
	// TypeFacility covers facility inspections concluded through public confirmation
	TypeFacility OccurrenceType = "FACILITY"
)

// AllOccurrenceTypes returns all valid occurrence types
func AllOccurrenceTypes() []OccurrenceType {
	return []OccurrenceType{
		TypeAdministrative,
		TypeExamReview,
		TypeNursing,
		TypeFacility,
	}
}

// IsValid checks if the occurrence type is valid
func (t OccurrenceType) IsValid() bool {
	switch t {
	case TypeAdministrative,
		TypeExamReview,
		TypeNursing,
		TypeFacility:
		return true
	default:
		return false
	}
}

// InitialStatus returns the status assigned at creation for this type.
// Administrative occurrences start in PENDING awaiting signatures.
func (t OccurrenceType) InitialStatus() Status {
	if t == TypeAdministrative {
		return StatusPending
	}
	return StatusRegistered
}

// SupportsPublicConfirmation reports whether consuming the confirmation token
// concludes the record.
func (t OccurrenceType) SupportsPublicConfirmation() bool {
	return t == TypeFacility
}

// HasPublicFlow reports whether records of this type carry a single-use
// confirmation token: facility records for completion confirmation, exam
// reviews for the external reviewer's opinion.
func (t OccurrenceType) HasPublicFlow() bool {
	return t == TypeFacility || t == TypeExamReview
}

// String returns the string representation of the occurrence type
func (t OccurrenceType) String() string {
	return string(t)
}

// ParseOccurrenceType parses a string into an OccurrenceType
func ParseOccurrenceType(s string) (OccurrenceType, error) {
	t := OccurrenceType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid occurrence type: %s", s)
	}
	return t, nil
}
