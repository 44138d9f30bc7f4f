package notifications

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/angelmondragon/medmart-backend/pkg/config"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
	"github.com/angelmondragon/medmart-backend/pkg/metrics"
	"github.com/hibiken/asynq"
)

// Handler processes queued email tasks.
type Handler struct {
	mailer  Mailer
	logg    *logger.Logger
	metrics *metrics.TaskMetrics
}

func NewHandler(mailer Mailer, logg *logger.Logger, m *metrics.TaskMetrics) *Handler {
	return &Handler{mailer: mailer, logg: logg, metrics: m}
}

// ProcessTask implements asynq.Handler. Malformed payloads are not retried.
func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	start := time.Now()
	email, err := decodeEmail(task.Payload())
	if err != nil {
		h.metrics.IncFailure(task.Type())
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if h.logg != nil {
		ctx = h.logg.WithFields(ctx, map[string]any{
			"task": task.Type(),
			"kind": string(email.Kind),
			"to":   email.To,
		})
	}

	err = h.mailer.Send(ctx, email)
	h.metrics.ObserveDuration(task.Type(), time.Since(start))
	if err != nil {
		h.metrics.IncFailure(task.Type())
		return err
	}
	h.metrics.IncSuccess(task.Type())
	if h.logg != nil {
		h.logg.Info(ctx, "email.sent")
	}
	return nil
}

// NewServeMux routes email tasks to the handler.
func NewServeMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TaskTypeSendEmail, h)
	return mux
}

// NewServer builds the asynq server consuming the notifier queue.
func NewServer(cfg *config.Config, logg *logger.Logger) (*asynq.Server, error) {
	opt, err := RedisConnOpt(cfg.Redis)
	if err != nil {
		return nil, err
	}
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.Notifier.Concurrency,
		Queues:      map[string]int{cfg.Notifier.Queue: 1},
		Logger:      NewQueueLogger(logg),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			ctx = logg.WithFields(ctx, map[string]any{
				"task":      task.Type(),
				"retried":   retried,
				"max_retry": maxRetry,
			})
			logg.Error(ctx, "task.failed", err)
		}),
	}), nil
}

// QueueLogger adapts the service logger to asynq's logging interface.
type QueueLogger struct {
	logg *logger.Logger
}

func NewQueueLogger(logg *logger.Logger) *QueueLogger {
	return &QueueLogger{logg: logg}
}

func (l *QueueLogger) Debug(args ...interface{}) {
	l.logg.Debug(context.Background(), fmt.Sprint(args...))
}

func (l *QueueLogger) Info(args ...interface{}) {
	l.logg.Info(context.Background(), fmt.Sprint(args...))
}

func (l *QueueLogger) Warn(args ...interface{}) {
	l.logg.Warn(context.Background(), fmt.Sprint(args...))
}

func (l *QueueLogger) Error(args ...interface{}) {
	l.logg.Error(context.Background(), fmt.Sprint(args...), nil)
}

func (l *QueueLogger) Fatal(args ...interface{}) {
	l.logg.Error(context.Background(), fmt.Sprint(args...), nil)
	os.Exit(1)
}
