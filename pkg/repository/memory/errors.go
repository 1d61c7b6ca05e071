package memory

import "github.com/careops-lab/panacea/pkg/domain/interfaces"

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = interfaces.ErrNotFound
