package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by repository implementations when a requested
// record does not exist. Backends re-export it so callers can branch on one
// sentinel regardless of the storage in use.
var ErrNotFound = goerr.New("record not found")
