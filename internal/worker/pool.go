package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"igprofile/pkg/logger"
	"igprofile/pkg/ratelimit"
)

// Handler processes one input. It is called with the pool's context and must
// return promptly once that context is done.
type Handler[In, Out any] func(ctx context.Context, workerID int, in In) Out

// Result carries a handler's output together with the position of its input
type Result[Out any] struct {
	Index    int
	Value    Out
	Duration time.Duration
}

type job[In any] struct {
	index int
	input In
}

// Pool runs a fixed number of workers over submitted inputs. Job starts are
// paced by a shared Limiter.
type Pool[In, Out any] struct {
	numWorkers  int
	jobQueue    chan job[In]
	resultQueue chan Result[Out]
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	handle      Handler[In, Out]
	limiter     ratelimit.Limiter
	logger      logger.Logger
	stopOnce    sync.Once
}

// NewPool creates a pool. resultBuffer sizes the result channel; callers that
// submit everything before reading results should pass at least the number of
// jobs. A nil limiter means no pacing.
func NewPool[In, Out any](
	ctx context.Context,
	numWorkers int,
	resultBuffer int,
	handle Handler[In, Out],
	limiter ratelimit.Limiter,
	log logger.Logger,
) *Pool[In, Out] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if resultBuffer < numWorkers {
		resultBuffer = numWorkers
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	if log == nil {
		log = logger.GetLogger()
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Pool[In, Out]{
		numWorkers:  numWorkers,
		jobQueue:    make(chan job[In], numWorkers*2),
		resultQueue: make(chan Result[Out], resultBuffer),
		ctx:         ctx,
		cancel:      cancel,
		handle:      handle,
		limiter:     limiter,
		logger:      log,
	}
}

// Start launches the workers
func (p *Pool[In, Out]) Start() {
	p.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": p.numWorkers,
	})

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop waits for queued jobs to finish and closes the result channel.
// No jobs may be submitted after Stop.
func (p *Pool[In, Out]) Stop() {
	p.stopOnce.Do(func() {
		close(p.jobQueue)
		p.wg.Wait()
		close(p.resultQueue)
		p.cancel()
		p.logger.Debug("Worker pool stopped")
	})
}

// Submit queues an input under the given index
func (p *Pool[In, Out]) Submit(index int, in In) error {
	select {
	case p.jobQueue <- job[In]{index: index, input: in}:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", p.ctx.Err())
	}
}

// Results returns the channel results are delivered on
func (p *Pool[In, Out]) Results() <-chan Result[Out] {
	return p.resultQueue
}

// worker drains the job queue. Jobs are still handed to the handler once the
// context is done so that every submitted input produces a result.
func (p *Pool[In, Out]) worker(id int) {
	defer p.wg.Done()

	for j := range p.jobQueue {
		if err := p.limiter.Wait(p.ctx); err != nil {
			p.logger.DebugWithFields("Worker skipped pacing", map[string]interface{}{
				"worker_id": id,
				"reason":    err.Error(),
			})
		}

		start := time.Now()
		out := p.handle(p.ctx, id, j.input)
		p.resultQueue <- Result[Out]{Index: j.index, Value: out, Duration: time.Since(start)}
	}
}

// Map runs handle over inputs on numWorkers workers and returns the outputs
// in input order
func Map[In, Out any](
	ctx context.Context,
	numWorkers int,
	inputs []In,
	handle Handler[In, Out],
	limiter ratelimit.Limiter,
	log logger.Logger,
) []Out {
	outputs := make([]Out, len(inputs))
	if len(inputs) == 0 {
		return outputs
	}
	if numWorkers > len(inputs) {
		numWorkers = len(inputs)
	}

	pool := NewPool(ctx, numWorkers, len(inputs), handle, limiter, log)
	pool.Start()

	submitted := make([]bool, len(inputs))
	for i, in := range inputs {
		if err := pool.Submit(i, in); err == nil {
			submitted[i] = true
		}
	}
	pool.Stop()

	for r := range pool.Results() {
		outputs[r.Index] = r.Value
	}
	// Inputs refused by a cancelled pool still get the handler's cancelled answer
	for i, ok := range submitted {
		if !ok {
			outputs[i] = handle(pool.ctx, -1, inputs[i])
		}
	}
	return outputs
}
