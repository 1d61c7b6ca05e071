package protocol

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/domain/types"
)

// Generator issues a new protocol identifier for an occurrence. Identifiers
// are opaque to callers and never change after assignment.
type Generator interface {
	NewProtocol(ctx context.Context) (types.Protocol, error)
}

const defaultPrefix = "OC"

// Random generates identifiers from the current date plus a random 4-digit
// suffix, e.g. "OC-20260901-4821". Collisions are possible under load; prefer
// Sequence unless creation must work without a backend round-trip.
type Random struct {
	prefix string
	now    func() time.Time
}

type RandomOption func(*Random)

func WithRandomPrefix(prefix string) RandomOption {
	return func(g *Random) {
		g.prefix = prefix
	}
}

func WithRandomNow(now func() time.Time) RandomOption {
	return func(g *Random) {
		g.now = now
	}
}

func NewRandom(opts ...RandomOption) *Random {
	g := &Random{
		prefix: defaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Random) NewProtocol(_ context.Context) (types.Protocol, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate protocol suffix")
	}

	p := fmt.Sprintf("%s-%s-%04d", g.prefix, g.now().Format("20060102"), n.Int64())
	return types.Protocol(p), nil
}

// Sequence generates identifiers from an atomic per-year counter in the
// repository, e.g. "OC-2026-000042". Unique as long as the backend counter is.
type Sequence struct {
	repo   interfaces.Repository
	prefix string
	now    func() time.Time
}

type SequenceOption func(*Sequence)

func WithSequencePrefix(prefix string) SequenceOption {
	return func(g *Sequence) {
		g.prefix = prefix
	}
}

func WithSequenceNow(now func() time.Time) SequenceOption {
	return func(g *Sequence) {
		g.now = now
	}
}

func NewSequence(repo interfaces.Repository, opts ...SequenceOption) *Sequence {
	g := &Sequence{
		repo:   repo,
		prefix: defaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Sequence) NewProtocol(ctx context.Context) (types.Protocol, error) {
	year := g.now().Year()
	seq, err := g.repo.NextProtocolSeq(ctx, year)
	if err != nil {
		return "", goerr.Wrap(err, "failed to take protocol sequence", goerr.V("year", year))
	}

	return types.Protocol(fmt.Sprintf("%s-%d-%06d", g.prefix, year, seq)), nil
}

var (
	_ Generator = (*Random)(nil)
	_ Generator = (*Sequence)(nil)
)
