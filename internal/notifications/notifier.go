package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/medmart-backend/pkg/logger"
	"github.com/angelmondragon/medmart-backend/pkg/metrics"
	"go.uber.org/multierr"
)

const defaultEnqueueTimeout = 5 * time.Second

// Notifier sends emails on a best-effort basis. Dispatch runs off the
// caller's goroutine; enqueue failures are logged and counted but never
// surface to the caller.
type Notifier struct {
	dispatcher Dispatcher
	logg       *logger.Logger
	metrics    *metrics.NotificationMetrics
	timeout    time.Duration
	inflight   sync.WaitGroup
}

// NewNotifier wires a dispatcher with logging and metrics. A non-positive
// timeout falls back to five seconds.
func NewNotifier(dispatcher Dispatcher, logg *logger.Logger, m *metrics.NotificationMetrics, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = defaultEnqueueTimeout
	}
	return &Notifier{dispatcher: dispatcher, logg: logg, metrics: m, timeout: timeout}
}

// Notify hands the emails to a background goroutine and returns at once.
// The request context only contributes its values; cancellation of the
// request does not abort the enqueue.
func (n *Notifier) Notify(ctx context.Context, emails ...Email) {
	if n == nil || n.dispatcher == nil || len(emails) == 0 {
		return
	}
	batch := append([]Email(nil), emails...)
	detached := context.WithoutCancel(ctx)

	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		ctx, cancel := context.WithTimeout(detached, n.timeout)
		defer cancel()
		n.dispatch(ctx, batch)
	}()
}

// Wait blocks until every pending Notify call has finished dispatching.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.inflight.Wait()
}

func (n *Notifier) dispatch(ctx context.Context, emails []Email) {
	var errs error
	for _, email := range emails {
		if err := n.dispatcher.Dispatch(ctx, email); err != nil {
			n.metrics.IncFailure(string(email.Kind))
			errs = multierr.Append(errs, fmt.Errorf("%s to %s: %w", email.Kind, email.To, err))
			continue
		}
		n.metrics.IncEnqueued(string(email.Kind))
	}
	if errs != nil && n.logg != nil {
		ctx = n.logg.WithField(ctx, "failed", len(multierr.Errors(errs)))
		n.logg.Error(ctx, "notification.enqueue_failed", errs)
	}
}
