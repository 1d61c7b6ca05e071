package types

import "fmt"

// OutcomeTag represents an enumerated outcome classification applied at
// finalization. Each tag carries flags that drive which auxiliary sections
// become mandatory before the record can be saved as concluded.
type OutcomeTag string

const (
	OutcomeNoAction         OutcomeTag = "NO_ACTION"
	OutcomeGuidance         OutcomeTag = "GUIDANCE"
	OutcomeProcessFailure   OutcomeTag = "PROCESS_FAILURE"
	OutcomeEquipmentFailure OutcomeTag = "EQUIPMENT_FAILURE"
	OutcomeRegulatoryNotify OutcomeTag = "REGULATORY_NOTIFY"
	OutcomeSentinelEvent    OutcomeTag = "SENTINEL_EVENT"
)

// OutcomeRequirement holds the auxiliary-section flags for a single tag.
type OutcomeRequirement struct {
	RequiresExternalNotification bool
	RequiresCAPA                 bool
}

// outcomeTable is the static lookup of per-tag requirements. A workflow
// configuration file may override entries at startup via SetOutcomeRequirement.
var outcomeTable = map[OutcomeTag]OutcomeRequirement{
	OutcomeNoAction:         {},
	OutcomeGuidance:         {},
	OutcomeProcessFailure:   {RequiresCAPA: true},
	OutcomeEquipmentFailure: {RequiresCAPA: true},
	OutcomeRegulatoryNotify: {RequiresExternalNotification: true},
	OutcomeSentinelEvent:    {RequiresExternalNotification: true, RequiresCAPA: true},
}

// AllOutcomeTags returns all valid outcome tags
func AllOutcomeTags() []OutcomeTag {
	return []OutcomeTag{
		OutcomeNoAction,
		OutcomeGuidance,
		OutcomeProcessFailure,
		OutcomeEquipmentFailure,
		OutcomeRegulatoryNotify,
		OutcomeSentinelEvent,
	}
}

// IsValid checks if the outcome tag is valid
func (t OutcomeTag) IsValid() bool {
	_, ok := outcomeTable[t]
	return ok
}

// Requirement returns the auxiliary-section flags for the tag.
// Unknown tags carry no requirements.
func (t OutcomeTag) Requirement() OutcomeRequirement {
	return outcomeTable[t]
}

// SetOutcomeRequirement overrides the requirement flags for a tag. Intended
// for startup-time configuration loading only; not safe for concurrent use
// with readers.
func SetOutcomeRequirement(tag OutcomeTag, req OutcomeRequirement) {
	outcomeTable[tag] = req
}

// String returns the string representation of the outcome tag
func (t OutcomeTag) String() string {
	return string(t)
}

// ParseOutcomeTag parses a string into an OutcomeTag
func ParseOutcomeTag(s string) (OutcomeTag, error) {
	tag := OutcomeTag(s)
	if !tag.IsValid() {
		return "", fmt.Errorf("invalid outcome tag: %s", s)
	}
	return tag, nil
}

// ResolveOutcomeRequirements computes the union of requirement flags across
// the given tag set.
func ResolveOutcomeRequirements(tags []OutcomeTag) OutcomeRequirement {
	var req OutcomeRequirement
	for _, tag := range tags {
		r := tag.Requirement()
		req.RequiresExternalNotification = req.RequiresExternalNotification || r.RequiresExternalNotification
		req.RequiresCAPA = req.RequiresCAPA || r.RequiresCAPA
	}
	return req
}
