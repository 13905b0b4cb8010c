package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/jobModel"
	"github.com/akolanti/KnowledgeSearch/internal/job"
	"github.com/akolanti/KnowledgeSearch/internal/metrics"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
)

// JobRunner is satisfied by *session.Service.
type JobRunner interface {
	RunJob(ctx context.Context, j jobModel.Job) error
	// AbandonJob settles a job that did not run to completion.
	AbandonJob(ctx context.Context, j jobModel.Job, cause error) error
}

// Pool is an elastic set of workers reading the job channel. It grows on dispatcher signals up
// to MaxWorkerCount and shrinks back to minWorkerCount when workers sit idle.
type Pool struct {
	jobService         *job.Service
	runner             JobRunner
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	currentWorkerCount int64
	minWorkerCount     int64
	idleTimeout        time.Duration
	logger             *logger_i.Logger
}

func NewPool(jobService *job.Service, runner JobRunner, stopWorkerChan chan bool, waitGroup *sync.WaitGroup) *Pool {
	return &Pool{
		jobService:        jobService,
		runner:            runner,
		stopWorkerChannel: stopWorkerChan,
		workerWaitGroup:   waitGroup,
		minWorkerCount:    config.MinWorkerCount,
		idleTimeout:       config.IdleWorkerTimeout,
		logger:            logger_i.NewLogger("WorkerPool"),
	}
}

// Start launches the dispatcher. Close the stop channel and wait on the group to shut down.
func (p *Pool) Start() {
	p.logger.Info("Initializing worker pool")
	for i := int64(0); i < max(p.minWorkerCount, 1); i++ {
		p.createWorker()
	}
	// the dispatcher is part of the group
	p.workerWaitGroup.Add(1)
	go p.dispatcher()
}

func (p *Pool) WorkerCount() int64 {
	return atomic.LoadInt64(&p.currentWorkerCount)
}

func (p *Pool) dispatcher() {
	defer p.workerWaitGroup.Done()
	p.logger.Info("Dispatcher started")
	for {
		select {
		case <-p.jobService.DispatcherChannel:
			if atomic.LoadInt64(&p.currentWorkerCount) < config.MaxWorkerCount {
				p.logger.Debug("Creating new worker", "workerCount", p.WorkerCount())
				p.createWorker()
			}
		case <-p.stopWorkerChannel:
			p.logger.Info("Dispatcher stopped")
			return
		}
	}
}

func (p *Pool) createWorker() {
	p.workerWaitGroup.Add(1)
	atomic.AddInt64(&p.currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *Pool) worker() {
	idle := time.NewTimer(p.idleTimeout)
	defer idle.Stop()
	for {
		select {
		case currentJob := <-p.jobService.JobChannel:
			metrics.DecrementJobsInQueue()
			p.executeJob(currentJob)
			idle.Reset(p.idleTimeout)

		case <-p.stopWorkerChannel:
			p.removeWorker("Stop worker signal received", true)
			return

		case <-idle.C:
			if p.tryRetire() {
				p.removeWorker("Idle worker timeout", false)
				return
			}
			idle.Reset(p.idleTimeout)
		}
	}
}

// tryRetire claims a slot above the minimum, so concurrent idle workers never undershoot it.
func (p *Pool) tryRetire() bool {
	for {
		count := atomic.LoadInt64(&p.currentWorkerCount)
		if count <= p.minWorkerCount {
			return false
		}
		if atomic.CompareAndSwapInt64(&p.currentWorkerCount, count, count-1) {
			return true
		}
	}
}
