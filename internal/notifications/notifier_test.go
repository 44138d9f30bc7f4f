package notifications

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/medmart-backend/pkg/logger"
	"github.com/angelmondragon/medmart-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDispatcher struct {
	mu     sync.Mutex
	sent   []Email
	failTo map[string]bool
}

func (s *stubDispatcher) Dispatch(_ context.Context, email Email) error {
	if s.failTo[email.To] {
		return errors.New("redis down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, email)
	return nil
}

// blockingDispatcher holds every enqueue until release is closed or the
// dispatch context ends.
type blockingDispatcher struct {
	release chan struct{}
	mu      sync.Mutex
	sent    []Email
	errs    []error
}

func (b *blockingDispatcher) Dispatch(ctx context.Context, email Email) error {
	select {
	case <-b.release:
	case <-ctx.Done():
		b.mu.Lock()
		b.errs = append(b.errs, ctx.Err())
		b.mu.Unlock()
		return ctx.Err()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, email)
	return nil
}

func TestNotifierSwallowsAndCountsFailures(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	reg := prometheus.NewRegistry()
	m := metrics.NewNotificationMetrics(reg)
	dispatcher := &stubDispatcher{failTo: map[string]bool{"s@x.com": true}}

	notifier := NewNotifier(dispatcher, logg, m, time.Second)
	notifier.Notify(context.Background(),
		BuyerBookingEmail("a@x.com", "pi_123"),
		SellerBookingEmail("s@x.com", "Alice"),
	)
	notifier.Wait()

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "a@x.com", dispatcher.sent[0].To)
	assert.Contains(t, buf.String(), "notification.enqueue_failed")
	assert.Contains(t, buf.String(), "redis down")

	count, err := testutil.GatherAndCount(reg, "notification_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotifyReturnsBeforeDispatchCompletes(t *testing.T) {
	dispatcher := &blockingDispatcher{release: make(chan struct{})}
	notifier := NewNotifier(dispatcher, nil, nil, 5*time.Second)

	start := time.Now()
	notifier.Notify(context.Background(),
		BuyerBookingEmail("a@x.com", "pi_123"),
		SellerBookingEmail("s@x.com", "Alice"),
	)
	assert.Less(t, time.Since(start), time.Second)

	close(dispatcher.release)
	notifier.Wait()
	assert.Len(t, dispatcher.sent, 2)
}

func TestNotifySurvivesCancelledRequest(t *testing.T) {
	dispatcher := &blockingDispatcher{release: make(chan struct{})}
	notifier := NewNotifier(dispatcher, nil, nil, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	notifier.Notify(ctx, WelcomeEmail("MedMart", "a@x.com"))
	cancel()

	close(dispatcher.release)
	notifier.Wait()
	assert.Len(t, dispatcher.sent, 1)
	assert.Empty(t, dispatcher.errs)
}

func TestNotifyGivesUpAfterTimeout(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	dispatcher := &blockingDispatcher{release: make(chan struct{})}
	notifier := NewNotifier(dispatcher, logg, nil, 20*time.Millisecond)

	notifier.Notify(context.Background(), WelcomeEmail("MedMart", "a@x.com"))
	notifier.Wait()

	assert.Empty(t, dispatcher.sent)
	require.Len(t, dispatcher.errs, 1)
	assert.ErrorIs(t, dispatcher.errs[0], context.DeadlineExceeded)
	assert.Contains(t, buf.String(), "notification.enqueue_failed")
}

func TestNilNotifierIsNoop(t *testing.T) {
	var notifier *Notifier
	notifier.Notify(context.Background(), WelcomeEmail("Site", "a@x.com"))
	notifier.Wait()
}

func TestTemplates(t *testing.T) {
	welcome := WelcomeEmail("MedMart", "a@x.com")
	assert.Equal(t, "Welcome to MedMart!", welcome.Subject)
	assert.Equal(t, KindWelcome, welcome.Kind)

	buyer := BuyerBookingEmail("a@x.com", "pi_123")
	assert.Equal(t, "Booking Successful!", buyer.Subject)
	assert.Contains(t, buyer.HTML, "pi_123")

	seller := SellerBookingEmail("s@x.com", "<Alice>")
	assert.Equal(t, "Your Products got booked!", seller.Subject)
	assert.Contains(t, seller.HTML, "Get ready to welcome &lt;Alice&gt;.")

	anonymous := SellerBookingEmail("s@x.com", " ")
	assert.Contains(t, anonymous.HTML, "your customer")
}
