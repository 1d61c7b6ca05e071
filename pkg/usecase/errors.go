package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrOccurrenceNotFound = goerr.New("occurrence not found")
	ErrInvalidInput       = goerr.New("invalid input")
	// ErrSaveFailed labels backend failures. The caller's edit state is
	// preserved; retrying with the same payload is safe.
	ErrSaveFailed = goerr.New("save failed")
)

// Context keys for error values
const (
	OccurrenceIDKey = "occurrence_id"
	ProtocolKey     = "protocol"
)
