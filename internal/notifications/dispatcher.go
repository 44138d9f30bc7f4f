package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/medmart-backend/pkg/config"
	"github.com/hibiken/asynq"
)

// Dispatcher hands an email to the delivery pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, email Email) error
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher enqueues emails as asynq tasks.
type QueueDispatcher struct {
	client   enqueuer
	closer   func() error
	queue    string
	maxRetry int
	timeout  time.Duration
}

// RedisConnOpt converts the shared redis settings into asynq connection options.
func RedisConnOpt(cfg config.RedisConfig) (asynq.RedisConnOpt, error) {
	if cfg.URL != "" {
		opt, err := asynq.ParseRedisURI(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		return opt, nil
	}
	if cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	return asynq.RedisClientOpt{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

// NewQueueDispatcher opens an asynq client against the configured redis.
func NewQueueDispatcher(cfg *config.Config) (*QueueDispatcher, error) {
	opt, err := RedisConnOpt(cfg.Redis)
	if err != nil {
		return nil, err
	}
	client := asynq.NewClient(opt)
	return &QueueDispatcher{
		client:   client,
		closer:   client.Close,
		queue:    cfg.Notifier.Queue,
		maxRetry: cfg.Notifier.MaxRetry,
		timeout:  cfg.Notifier.TaskTimeout,
	}, nil
}

// Dispatch enqueues a single email task.
func (d *QueueDispatcher) Dispatch(ctx context.Context, email Email) error {
	payload, err := encodeEmail(email)
	if err != nil {
		return err
	}
	opts := []asynq.Option{asynq.Queue(d.queue), asynq.MaxRetry(d.maxRetry)}
	if d.timeout > 0 {
		opts = append(opts, asynq.Timeout(d.timeout))
	}
	if _, err := d.client.EnqueueContext(ctx, asynq.NewTask(TaskTypeSendEmail, payload), opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", email.Kind, err)
	}
	return nil
}

// Close releases the underlying redis connection.
func (d *QueueDispatcher) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	return d.closer()
}
