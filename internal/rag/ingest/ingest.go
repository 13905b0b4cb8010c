package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/metrics"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
	"github.com/panjf2000/ants/v2"
)

// Ingestor turns input files into documents. Each call owns its own worker pool.
type Ingestor struct {
	parser   PDFParser
	policy   string
	poolSize int
	logger   *logger_i.Logger
}

type Option func(*Ingestor)

func WithPDFParser(p PDFParser) Option {
	return func(in *Ingestor) {
		if p != nil {
			in.parser = p
		}
	}
}

func WithPolicy(policy string) Option {
	return func(in *Ingestor) {
		in.policy = policy
	}
}

func WithPoolSize(size int) Option {
	return func(in *Ingestor) {
		if size < 1 {
			size = 1
		}
		in.poolSize = size
	}
}

func NewIngestor(opts ...Option) *Ingestor {
	in := &Ingestor{
		parser:   NewPDFParser(),
		policy:   config.IngestPolicyAllOrNothing,
		poolSize: config.IngestPoolSize,
		logger:   logger_i.NewLogger("Document Ingestion"),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// outcome of one file, index aligned with the input
type settled struct {
	doc     commonModels.Document
	skipped *commonModels.SkippedFile
	err     error
}

// ProcessFiles extracts every recognized file concurrently, waits for all of them to settle,
// then applies the batch policy. Unrecognized files never show up in Documents.
func (in *Ingestor) ProcessFiles(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error) {
	log := in.logger.WithTrace(ctx, config.TRACE_ID_KEY)
	if len(files) == 0 {
		return commonModels.Batch{}, commonModels.ValidationError("no files to process")
	}

	pool, err := ants.NewPool(min(in.poolSize, len(files)))
	if err != nil {
		return commonModels.Batch{}, fmt.Errorf("creating ingestion pool: %w", err)
	}
	defer pool.Release()

	results := make([]settled, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = in.safeProcessFile(ctx, log, file)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = settled{err: commonModels.FileReadError(file.Name, submitErr)}
		}
	}
	wg.Wait()

	return in.settle(results, log)
}

// safeProcessFile keeps a panicking extraction from settling as an empty success.
func (in *Ingestor) safeProcessFile(ctx context.Context, log *logger_i.Logger, file commonModels.InputFile) (result settled) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Extraction panicked", "file", file.Name, "panic", fmt.Sprint(r))
			result = settled{err: panicError(file, r)}
		}
	}()
	return in.processFile(ctx, log, file)
}

func panicError(file commonModels.InputFile, r any) error {
	cause := fmt.Errorf("extraction panicked: %v", r)
	if commonModels.GetDocType(file.MediaType) == commonModels.PDF {
		return commonModels.ParseError(file.Name, cause)
	}
	return commonModels.FileReadError(file.Name, cause)
}

func (in *Ingestor) processFile(ctx context.Context, log *logger_i.Logger, file commonModels.InputFile) settled {
	docType := commonModels.GetDocType(file.MediaType)
	if docType == commonModels.ERR {
		log.Warn("Unsupported file type, skipping file", "type", file.MediaType, "file", file.Name)
		metrics.IncrementFilesSkipped()
		return settled{skipped: &commonModels.SkippedFile{Name: file.Name, MediaType: file.MediaType}}
	}

	if err := ctx.Err(); err != nil {
		return settled{err: commonModels.FileReadError(file.Name, err)}
	}

	content, err := extractText(ctx, in.parser, file, docType)
	if err != nil {
		log.Error("Error processing document", "file", file.Name, "error", err)
		return settled{err: err}
	}

	metrics.IncrementDocumentsIngested(string(docType))
	log.Debug("Processed document", "file", file.Name, "type", docType, "characters", len(content))
	return settled{doc: commonModels.Document{Name: file.Name, Content: content}}
}

func (in *Ingestor) settle(results []settled, log *logger_i.Logger) (commonModels.Batch, error) {
	var batch commonModels.Batch
	var firstErr error

	for _, r := range results {
		switch {
		case r.err != nil:
			if firstErr == nil {
				firstErr = r.err
			}
			batch.Failures = append(batch.Failures, commonModels.FileFailure{
				Name:  failedFileName(r.err),
				Kind:  commonModels.KindOf(r.err),
				Error: commonModels.UserMessage(r.err),
			})
		case r.skipped != nil:
			batch.Skipped = append(batch.Skipped, *r.skipped)
		default:
			batch.Documents = append(batch.Documents, r.doc)
		}
	}

	if firstErr != nil && in.policy != config.IngestPolicyPartial {
		log.Warn("Ingestion batch failed", "failures", len(batch.Failures), "succeeded", len(batch.Documents))
		return commonModels.Batch{}, firstErr
	}

	if batch.Documents == nil {
		batch.Documents = []commonModels.Document{}
	}
	log.Info("Ingestion batch settled", "documents", len(batch.Documents), "skipped", len(batch.Skipped), "failures", len(batch.Failures))
	return batch, nil
}

func failedFileName(err error) string {
	var pe *commonModels.PipelineError
	if errors.As(err, &pe) {
		return pe.File
	}
	return ""
}
