package executor

import (
	"context"
	"fmt"
	"sync"

	logrus "github.com/sirupsen/logrus"

	"texengine/model"
)

// WorkerPool serializes compiles through a bounded job queue. The scratch
// isolation lives in the Compiler; the pool only bounds how many compiles run
// at once and rejects work when the queue is full.
type WorkerPool struct {
	jobs         chan Job
	compiler     *Compiler
	logger       *logrus.Logger
	maxWorkers   int
	maxJobCount  int
	wg           sync.WaitGroup
	shutdownChan chan struct{}
}

// NewWorkerPool initializes a new worker pool around the given compiler.
func NewWorkerPool(compiler *Compiler, maxWorkers, maxJobCount int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if maxJobCount <= 0 {
		maxJobCount = maxWorkers
	}

	pool := &WorkerPool{
		jobs:         make(chan Job, maxJobCount),
		compiler:     compiler,
		logger:       compiler.logger,
		maxWorkers:   maxWorkers,
		maxJobCount:  maxJobCount,
		shutdownChan: make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.wg.Add(1)
		go pool.worker(i + 1)
	}

	return pool
}

// worker processes jobs from the queue
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	p.logger.Printf("Worker %d started", id)

	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				p.logger.Printf("Worker %d shutting down due to closed channel", id)
				return
			}
			p.logger.WithFields(logrus.Fields{
				"worker":  id,
				"request": job.ID,
			}).Debug("worker picked up job")
			job.Result <- p.compiler.Compile(context.Background(), job.ID, job.Source)
		case <-p.shutdownChan:
			p.logger.Printf("Worker %d received shutdown signal", id)
			p.drain()
			return
		}
	}
}

// drain answers jobs still queued at shutdown so their Submit callers do not
// block forever. Runs after the jobs channel is closed, so it terminates once
// the queue is empty.
func (p *WorkerPool) drain() {
	for job := range p.jobs {
		job.Result <- Result{Err: &Failure{
			Kind:    model.KindEnvironmentError,
			Message: "worker pool shut down before the job ran",
		}}
	}
}

// Submit queues a compile and blocks until its result is available. A full
// queue is reported immediately as a queue_full failure rather than blocking
// the caller behind an unbounded backlog.
func (p *WorkerPool) Submit(requestID, source string) Result {
	result := make(chan Result, 1)
	select {
	case p.jobs <- Job{ID: requestID, Source: source, Result: result}:
		return <-result
	default:
		return Result{Err: &Failure{
			Kind:    model.KindQueueFull,
			Message: fmt.Sprintf("job queue full, max capacity: %d", p.maxJobCount),
		}}
	}
}

// Shutdown gracefully stops the worker pool
func (p *WorkerPool) Shutdown() {
	p.logger.Println("Shutting down worker pool...")
	close(p.shutdownChan)
	close(p.jobs)
	p.wg.Wait()
	p.logger.Println("Worker pool shutdown complete")
}
