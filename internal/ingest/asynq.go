package ingest

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"stressorleads/internal/pkg/logger"
)

// NewAsynqTask wraps t for the Redis queue. The task is attempted once.
func NewAsynqTask(t Task) (*asynq.Task, error) {
	data, err := t.Marshal()
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeIngestUpload, data, asynq.MaxRetry(0)), nil
}

// AsynqClient enqueues ingest tasks on Redis.
type AsynqClient struct {
	client *asynq.Client
	queue  string
}

func NewAsynqClient(redisURL, queue string) (*AsynqClient, error) {
	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}
	if queue == "" {
		queue = "default"
	}
	return &AsynqClient{client: asynq.NewClient(opt), queue: queue}, nil
}

func (c *AsynqClient) Enqueue(ctx context.Context, uploadID, dealerID int64, storageKey string) error {
	t := Task{UploadID: uploadID, DealerID: dealerID, StorageKey: storageKey}
	if err := t.Validate(); err != nil {
		return err
	}

	task, err := NewAsynqTask(t)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(0))
	return err
}

func (c *AsynqClient) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// AsynqWorker consumes ingest tasks and hands them to a Runner.
type AsynqWorker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	runner Runner
	log    *logger.Logger
}

func NewAsynqWorker(redisURL, queue string, concurrency int, runner Runner, log *logger.Logger) (*AsynqWorker, error) {
	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}
	if queue == "" {
		queue = "default"
	}
	if concurrency < 1 {
		concurrency = 4
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
	})

	w := &AsynqWorker{
		server: server,
		mux:    asynq.NewServeMux(),
		runner: runner,
		log:    log,
	}
	w.mux.HandleFunc(TypeIngestUpload, w.handleIngest)
	return w, nil
}

func (w *AsynqWorker) handleIngest(ctx context.Context, task *asynq.Task) error {
	t, err := ParseTask(task.Payload())
	if err != nil {
		w.log.Error("dropping malformed ingest task", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return w.runner.Run(ctx, t)
}

// Run blocks until ctx is done, then shuts the server down.
func (w *AsynqWorker) Run(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start asynq worker: %w", err)
	}
	<-ctx.Done()
	w.server.Shutdown()
	return nil
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
