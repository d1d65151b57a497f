/*
Package worker provides a fixed-size worker pool draining a shared FIFO queue
whose tasks may enqueue more tasks, as a directory walk does.

The pool finishes by itself: the first worker that observes, under the queue
lock, an empty queue and no running task closes the completion latch. Idle
workers block on a condition variable until work arrives or the latch closes,
so nothing polls.

Basic usage:

	pool, err := worker.NewPool(worker.Config{
		Workers:   4,
		RateLimit: 0,
	})

	// Seed before Start so workers never see an empty queue at launch
	pool.Submit(worker.Task{ID: 1, Execute: visitRoot})

	pool.Start(ctx)
	err = pool.Wait()
*/
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrPoolDone is returned by Submit once the completion latch has closed.
var ErrPoolDone = errors.New("worker pool already finished")

// Pool defines the interface for a self-feeding worker pool
type Pool interface {
	// Start launches the workers
	Start(context.Context) error

	// Submit appends a task to the queue. It may be called before Start
	// and from inside a running task.
	Submit(Task) error

	// Wait blocks until the queue drained with no task running, or until
	// the start context was cancelled, and returns the task errors
	Wait() error

	// Done is closed when the pool has finished
	Done() <-chan struct{}

	// GetStats returns current statistics about the pool
	GetStats() Stats

	// Status returns the current status of the pool
	Status() Status

	// Stop cancels running work and waits briefly for workers to exit
	Stop() error
}

type pool struct {
	config  Config
	limiter *rate.Limiter

	// queue state; everything below mu is guarded by it
	mu        sync.Mutex
	cond      *sync.Cond
	queue     []Task
	active    int
	started   bool
	stopped   bool
	finished  bool
	cancelled bool
	errs      []error

	done      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	group     *errgroup.Group
	startTime time.Time

	completed atomic.Int64
	failed    atomic.Int64
}

// NewPool creates a new worker pool with the given configuration
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	p := &pool{
		config:  config,
		limiter: limiter,
		done:    make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	return p, nil
}

func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.startTime = time.Now()

	group, gctx := errgroup.WithContext(p.ctx)
	p.group = group

	for i := 0; i < p.config.Workers; i++ {
		id := i
		group.Go(func() error {
			p.worker(gctx, id)
			return nil
		})
	}

	go p.watchCancel()

	return nil
}

func (p *pool) Submit(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finished {
		return ErrPoolDone
	}

	p.queue = append(p.queue, task)
	p.cond.Signal()
	return nil
}

func (p *pool) Wait() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return fmt.Errorf("pool not started")
	}
	p.mu.Unlock()

	<-p.done
	_ = p.group.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	errs := append([]error(nil), p.errs...)
	if p.cancelled {
		errs = append([]error{p.ctx.Err()}, errs...)
	}
	return errors.Join(errs...)
}

func (p *pool) Done() <-chan struct{} {
	return p.done
}

func (p *pool) Stop() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	if !p.started {
		p.finish()
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	p.cancel()

	exited := make(chan struct{})
	go func() {
		_ = p.group.Wait()
		close(exited)
	}()

	select {
	case <-exited:
		return nil
	case <-time.After(500 * time.Millisecond):
		return fmt.Errorf("shutdown timed out")
	}
}

func (p *pool) GetStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	var uptime time.Duration
	if p.started {
		uptime = time.Since(p.startTime)
	}

	return Stats{
		ActiveWorkers:  p.active,
		QueuedTasks:    len(p.queue),
		CompletedTasks: int(p.completed.Load()),
		FailedTasks:    int(p.failed.Load()),
		Status:         p.status(),
		Uptime:         uptime,
	}
}

func (p *pool) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.status()
}

// status must be called with mu held
func (p *pool) status() Status {
	switch {
	case !p.started || p.stopped:
		return StatusStopped
	case p.finished:
		return StatusDone
	case p.active > 0 || len(p.queue) > 0:
		return StatusProcessing
	default:
		return StatusIdle
	}
}

// finish closes the completion latch. It must be called with mu held.
func (p *pool) finish() {
	if p.finished {
		return
	}
	p.finished = true
	close(p.done)
	p.cond.Broadcast()
}

func (p *pool) watchCancel() {
	select {
	case <-p.done:
	case <-p.ctx.Done():
		p.mu.Lock()
		if !p.finished {
			p.cancelled = true
			p.finish()
		}
		p.mu.Unlock()
	}
}

// worker pops tasks until the latch closes
func (p *pool) worker(ctx context.Context, id int) {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.finished {
			if p.active == 0 {
				p.finish()
				break
			}
			p.cond.Wait()
		}
		if p.finished {
			p.mu.Unlock()
			return
		}

		task := p.queue[0]
		p.queue[0] = Task{}
		p.queue = p.queue[1:]
		p.active++
		p.mu.Unlock()

		p.run(ctx, id, task)

		p.mu.Lock()
		p.active--
		if p.active == 0 && len(p.queue) == 0 {
			p.finish()
		}
		p.mu.Unlock()
	}
}

func (p *pool) run(ctx context.Context, workerID int, task Task) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			p.fail(fmt.Errorf("rate limiter error: %w", err))
			return
		}
	}

	defer func() {
		if r := recover(); r != nil {
			p.fail(fmt.Errorf("task %d panicked on worker %d: %v", task.ID, workerID, r))
		}
	}()

	if err := task.Execute(ctx); err != nil {
		p.fail(fmt.Errorf("task %d failed: %w", task.ID, err))
		return
	}
	p.completed.Add(1)
}

func (p *pool) fail(err error) {
	p.failed.Add(1)
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}
