package usecase

import (
	"time"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/service/notify"
	"github.com/careops-lab/panacea/pkg/service/protocol"
)

type UseCases struct {
	repo            interfaces.Repository
	storage         interfaces.BlobStorage
	generator       protocol.Generator
	dispatcher      *notify.Dispatcher
	confirmationTTL time.Duration
	now             func() time.Time

	Occurrence *OccurrenceUseCase
	Auth       AuthUseCaseInterface
}

type Option func(*UseCases)

func WithStorage(storage interfaces.BlobStorage) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

func WithProtocolGenerator(gen protocol.Generator) Option {
	return func(uc *UseCases) {
		uc.generator = gen
	}
}

func WithDispatcher(d *notify.Dispatcher) Option {
	return func(uc *UseCases) {
		uc.dispatcher = d
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithConfirmationTTL sets the lifetime of public confirmation links.
func WithConfirmationTTL(ttl time.Duration) Option {
	return func(uc *UseCases) {
		uc.confirmationTTL = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:            repo,
		confirmationTTL: 7 * 24 * time.Hour,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.generator == nil {
		uc.generator = protocol.NewSequence(repo)
	}

	uc.Occurrence = &OccurrenceUseCase{
		repo:            repo,
		storage:         uc.storage,
		generator:       uc.generator,
		dispatcher:      uc.dispatcher,
		confirmationTTL: uc.confirmationTTL,
		now:             uc.now,
	}

	return uc
}
