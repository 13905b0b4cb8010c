package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/jobModel"
	"github.com/akolanti/KnowledgeSearch/internal/metrics"
)

func (p *Pool) executeJob(j jobModel.Job) {
	start := time.Now()
	log := p.logger.With("traceId", j.TraceId, "jobId", j.Id, "sessionId", j.SessionId)
	// no deadline, a stage runs until its own calls return
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, j.TraceId)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", fmt.Sprint(r))
			p.abandon(ctx, j, fmt.Errorf("job panicked: %v", r))
		}
		if j.Cleanup != nil {
			j.Cleanup()
		}
		metrics.CaptureJobMetrics(string(j.JobType), time.Since(start))
	}()

	log.Debug("Processing job", "type", j.JobType, "queuedFor", start.Sub(j.CreatedTime))

	if err := p.runner.RunJob(ctx, j); err != nil {
		log.Warn("Job finished with error", "error", err)
		return
	}
	log.Info("Job complete", "elapsed", time.Since(start))
}

func (p *Pool) abandon(ctx context.Context, j jobModel.Job, cause error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Abandoning job panicked", "jobId", j.Id, "panic", fmt.Sprint(r))
		}
	}()
	if err := p.runner.AbandonJob(ctx, j, cause); err != nil {
		p.logger.Warn("Abandoned job", "jobId", j.Id, "sessionId", j.SessionId, "error", err)
	}
}

// DrainQueue settles every job still buffered once the workers have stopped. Call it after the
// worker group is done and before external services close.
func (p *Pool) DrainQueue() {
	drained := 0
	for {
		select {
		case j := <-p.jobService.JobChannel:
			metrics.DecrementJobsInQueue()
			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, j.TraceId)
			p.abandon(ctx, j, errors.New("service shutting down"))
			if j.Cleanup != nil {
				j.Cleanup()
			}
			drained++
		default:
			if drained > 0 {
				p.logger.Info("Drained queued jobs", "count", drained)
			}
			return
		}
	}
}

// releaseSlot is false when tryRetire already gave the slot back.
func (p *Pool) removeWorker(reason string, releaseSlot bool) {
	if releaseSlot {
		atomic.AddInt64(&p.currentWorkerCount, -1)
	}
	p.workerWaitGroup.Done()
	metrics.DecrementActiveWorkerCount()
	p.logger.Info("Removed worker", "reason", reason, "workerCount", p.WorkerCount())
}
