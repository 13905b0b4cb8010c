package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/data/store"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/rag"
	"github.com/akolanti/KnowledgeSearch/internal/rag/ingest"
	"github.com/akolanti/KnowledgeSearch/internal/rag/llm"
	"github.com/akolanti/KnowledgeSearch/internal/rag/llm/providers"
	"github.com/akolanti/KnowledgeSearch/internal/session"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ask",
		Usage: "Answer a question from local text and PDF files",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Document to load, repeat for several files",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "Question to answer",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Optional YAML config file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "error",
			},
		},
		Action: askCommand,
	}
}

func askCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	// logs go to stderr, the answer is the only thing on stdout
	logger_i.InitWriter(os.Stderr, cfg.IsProd, c.String("log-level"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("configuration error: %v", err), 1)
	}

	provider, err := providers.New(c.Context, cfg.LLM)
	if err != nil {
		return cli.Exit(commonModels.UserMessage(err), 1)
	}

	files := make([]commonModels.InputFile, 0, len(c.StringSlice("file")))
	for _, path := range c.StringSlice("file") {
		files = append(files, commonModels.NewPathFile(filepath.Base(path), commonModels.MediaTypeFromName(path), path))
	}
	return ask(c.Context, cfg, provider, files, c.String("query"), c.App.Writer, c.App.ErrWriter)
}

// ask runs one session through ingestion and synthesis on the calling goroutine.
func ask(ctx context.Context, cfg config.Config, provider llm.Provider, files []commonModels.InputFile, query string, out io.Writer, errOut io.Writer) error {
	ingestor := ingest.NewIngestor(
		ingest.WithPolicy(cfg.Ingest.Policy),
		ingest.WithPoolSize(cfg.Ingest.PoolSize),
	)
	sessions := session.NewService(store.InitInMemorySessionStore(), rag.NewService(ingestor, provider), nil)

	s, err := sessions.Create(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	loaded, err := sessions.Load(ctx, s.Id, files)
	if err != nil {
		return cli.Exit(commonModels.UserMessage(err), 1)
	}
	for _, skipped := range loaded.Skipped {
		fmt.Fprintf(errOut, "skipped %s (%s)\n", skipped.Name, skipped.MediaType)
	}
	fmt.Fprintln(errOut, loaded.StatusMessage)

	answered, err := sessions.Ask(ctx, s.Id, query)
	if err != nil {
		return cli.Exit(commonModels.UserMessage(err), 1)
	}
	fmt.Fprintln(out, answered.Answer)
	return nil
}
