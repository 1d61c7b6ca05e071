package notify

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/careops-lab/panacea/pkg/utils/async"
	"github.com/careops-lab/panacea/pkg/utils/logging"
)

// Dispatcher fans an event out to all configured senders. Delivery is
// fire-and-forget: Notify returns immediately and failures are only logged,
// so the state change that triggered the event is never rolled back and no
// retry is attempted.
type Dispatcher struct {
	senders []Sender
	timeout time.Duration
}

type DispatcherOption func(*Dispatcher)

// WithTimeout bounds the total delivery time per event.
func WithTimeout(d time.Duration) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.timeout = d
	}
}

func NewDispatcher(senders []Sender, opts ...DispatcherOption) *Dispatcher {
	dp := &Dispatcher{
		senders: senders,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(dp)
	}
	return dp
}

func (d *Dispatcher) Notify(ctx context.Context, ev Event) {
	if len(d.senders) == 0 {
		return
	}

	msgs := BuildMessages(ev)

	async.Dispatch(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		eg, ctx := errgroup.WithContext(ctx)
		for _, sender := range d.senders {
			for _, msg := range msgs {
				eg.Go(func() error {
					if err := sender.Send(ctx, ev, msg); err != nil {
						logging.From(ctx).Warn("notification delivery failed",
							slog.Any("kind", ev.Kind),
							slog.Any("protocol", ev.Protocol),
							slog.Any("audience", msg.Audience),
							slog.Any("error", err),
						)
					}
					// Failures are logged, not propagated, so one slow or
					// broken sender cannot cancel the others.
					return nil
				})
			}
		}
		return eg.Wait()
	})
}
