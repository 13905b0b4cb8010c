package job

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/jobModel"
	"github.com/akolanti/KnowledgeSearch/internal/metrics"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
)

// Service is the producer side of the worker pool.
type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	logger            *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	DispatcherChannel chan bool
}

func InitJobService(cfg ServiceConfig) *Service {
	jobChannel := cfg.JobChannel
	if jobChannel == nil {
		jobChannel = make(chan jobModel.Job, config.BufferLimit)
	}
	dispatcherChannel := cfg.DispatcherChannel
	if dispatcherChannel == nil {
		dispatcherChannel = make(chan bool, config.MaxWorkerCount)
	}
	return &Service{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
		logger:            logger_i.NewLogger("JobService"),
	}
}

// Enqueue blocks while the buffer is full so the system cannot be overwhelmed.
// It gives up when ctx is done.
func (s *Service) Enqueue(ctx context.Context, newJob jobModel.Job) error {
	log := s.logger.With("traceId", newJob.TraceId, "jobId", newJob.Id, "sessionId", newJob.SessionId)

	metrics.IncrementJobsInQueue()
	select {
	case s.JobChannel <- newJob:
	case <-ctx.Done():
		metrics.DecrementJobsInQueue()
		log.Warn("Job not queued", "error", ctx.Err())
		return ctx.Err()
	}
	log.Info("Created new job", "type", newJob.JobType)

	// a new worker every N requests, and one per ingestion since those hold several files
	accurateCount := atomic.AddInt64(&s.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || newJob.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount()
		select {
		case s.DispatcherChannel <- true:
		default:
			log.Debug("Dispatcher busy, signal dropped", "requests", accurateCount)
		}
	}
	return nil
}
