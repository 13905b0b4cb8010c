package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var documentsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_ingested_total",
	Help: "Documents successfully extracted, by type",
}, []string{"type"})

var filesSkipped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "files_skipped_total",
	Help: "Input files dropped because their media type is not supported",
})

var promptSize = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "prompt_size_bytes",
	Help:    "Size of assembled prompts. Prompts are never truncated.",
	Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
})

var sessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "session_transitions_total",
	Help: "Session state transitions by target state",
}, []string{"state"})

var jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "job_duration_seconds",
	Help:    "Total time a worker spent on a job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"type"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of pipeline stages and external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"service"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status      int
	wroteHeader bool
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.Status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *HttpStatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}

func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func IncrementDocumentsIngested(docType string) {
	documentsIngested.WithLabelValues(docType).Inc()
}

func IncrementFilesSkipped() {
	filesSkipped.Inc()
}

func ObservePromptSize(bytes int) {
	promptSize.Observe(float64(bytes))
}

func CaptureTransition(state string) {
	sessionTransitions.WithLabelValues(state).Inc()
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	jobDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
