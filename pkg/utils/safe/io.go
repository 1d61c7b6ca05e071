package safe

import (
	"context"
	"io"

	"github.com/careops-lab/panacea/pkg/utils/logging"
)

// Close closes the closer and logs a close failure instead of returning it.
// Meant for defer sites where the error has nowhere useful to go. A nil
// closer is a no-op.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Error("failed to close", "error", err)
	}
}
