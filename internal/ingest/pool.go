package ingest

import (
	"context"
	"errors"
	"sync"

	"stressorleads/internal/pkg/logger"
)

var (
	ErrQueueFull  = errors.New("ingest queue is full")
	ErrPoolClosed = errors.New("ingest pool is closed")
)

// Pool runs tasks on a fixed number of goroutines fed by a bounded queue.
type Pool struct {
	runner  Runner
	log     *logger.Logger
	tasks   chan Task
	workers int

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewPool(runner Runner, workers, queueSize int, log *logger.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Pool{
		runner:  runner,
		log:     log,
		tasks:   make(chan Task, queueSize),
		workers: workers,
	}
}

// Start launches the workers. Calling it twice has no effect.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
}

// Enqueue never blocks: a full queue is reported as ErrQueueFull.
func (p *Pool) Enqueue(ctx context.Context, uploadID, dealerID int64, storageKey string) error {
	t := Task{UploadID: uploadID, DealerID: dealerID, StorageKey: storageKey}
	if err := t.Validate(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops intake and waits until queued tasks have run or ctx ends.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for t := range p.tasks {
		p.run(id, t)
	}
}

func (p *Pool) run(id int, t Task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("ingest worker panic", "worker", id, "upload_id", t.UploadID, "panic", r)
		}
	}()

	if err := p.runner.Run(context.Background(), t); err != nil {
		p.log.Error("ingest task failed", "worker", id, "upload_id", t.UploadID, "error", err)
	}
}
