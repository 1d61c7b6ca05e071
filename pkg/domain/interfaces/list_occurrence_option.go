package interfaces

import "github.com/careops-lab/panacea/pkg/domain/types"

// ListOccurrenceFilter holds the resolved filter set for a List call.
type ListOccurrenceFilter struct {
	Type      types.OccurrenceType
	Status    types.Status
	CreatedBy types.UserID
}

// ListOccurrenceOption configures filtering for OccurrenceRepository.List
type ListOccurrenceOption func(*ListOccurrenceFilter)

// WithType filters by occurrence type
func WithType(t types.OccurrenceType) ListOccurrenceOption {
	return func(f *ListOccurrenceFilter) {
		f.Type = t
	}
}

// WithStatus filters by workflow status
func WithStatus(s types.Status) ListOccurrenceOption {
	return func(f *ListOccurrenceFilter) {
		f.Status = s
	}
}

// WithCreatedBy filters by the reporting user
func WithCreatedBy(u types.UserID) ListOccurrenceOption {
	return func(f *ListOccurrenceFilter) {
		f.CreatedBy = u
	}
}

// BuildListOccurrenceFilter resolves options into a filter struct.
func BuildListOccurrenceFilter(opts ...ListOccurrenceOption) ListOccurrenceFilter {
	var f ListOccurrenceFilter
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Match reports whether the occurrence fields satisfy the filter.
func (f ListOccurrenceFilter) Match(t types.OccurrenceType, s types.Status, createdBy types.UserID) bool {
	if f.Type != "" && f.Type != t {
		return false
	}
	if f.Status != "" && f.Status != s {
		return false
	}
	if f.CreatedBy != "" && f.CreatedBy != createdBy {
		return false
	}
	return true
}
