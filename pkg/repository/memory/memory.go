package memory

import (
	"context"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	occurrence *occurrenceRepository
	sequence   *sequenceStore
	tokens     *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		occurrence: newOccurrenceRepository(),
		sequence:   newSequenceStore(),
		tokens:     newTokenStore(),
	}
}

func (m *Memory) Occurrence() interfaces.OccurrenceRepository {
	return m.occurrence
}

func (m *Memory) NextProtocolSeq(ctx context.Context, year int) (int64, error) {
	return m.sequence.next(year), nil
}

func (m *Memory) Close() error {
	return nil
}
