package queue

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
)

const channelBuffer = 256

type job struct {
	ctx  context.Context
	fn   func()
	done chan struct{}
}

// Pool runs CPU-bound work (password hashing) on a fixed set of worker
// goroutines so bursts of logins cannot occupy every request goroutine at once.
type Pool struct {
	jobs    chan job
	workers int
	log     zerolog.Logger
}

// NewPool creates a Pool with numWorkers workers.
// If numWorkers <= 0, runtime.NumCPU() is used.
func NewPool(numWorkers int, log zerolog.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{
		jobs:    make(chan job, channelBuffer),
		workers: numWorkers,
		log:     log,
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
	p.log.Debug().Int("workers", p.workers).Msg("hash pool started")
}

// Do runs fn on a worker and waits for it to finish. If ctx ends first, Do
// returns ctx.Err(); a job that has not started by then is skipped. fn must
// only write to values owned by the caller.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	j := job{ctx: ctx, fn: fn, done: make(chan struct{})}

	select {
	case p.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			if j.ctx.Err() != nil {
				p.log.Debug().Int("worker_id", id).Msg("abandoned hash job skipped")
				close(j.done)
				continue
			}
			j.fn()
			close(j.done)
		}
	}
}
