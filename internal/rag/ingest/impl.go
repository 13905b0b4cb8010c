package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/lu4p/cat"
)

func extractText(ctx context.Context, parser PDFParser, file commonModels.InputFile, docType commonModels.DocType) (string, error) {
	switch docType {
	case commonModels.TXT:
		return readTextFile(file)
	case commonModels.PDF:
		return readPdfFile(ctx, parser, file)
	default:
		return "", fmt.Errorf("unsupported content type: %s", docType)
	}
}

func readAll(file commonModels.InputFile) ([]byte, error) {
	if file.Open == nil {
		return nil, commonModels.FileReadError(file.Name, fmt.Errorf("no reader for file"))
	}
	rc, err := file.Open()
	if err != nil {
		return nil, commonModels.FileReadError(file.Name, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, commonModels.FileReadError(file.Name, err)
	}
	return raw, nil
}

func readTextFile(file commonModels.InputFile) (string, error) {
	raw, err := readAll(file)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}
	//the declared type wins: content cat does not recognize is still text
	text, err := cat.FromBytes(raw)
	if err != nil {
		return string(raw), nil
	}
	return text, nil
}

// readPdfFile walks the pages strictly in order: page i+1 is not requested before page i's text is in.
func readPdfFile(ctx context.Context, parser PDFParser, file commonModels.InputFile) (string, error) {
	raw, err := readAll(file)
	if err != nil {
		return "", err
	}

	doc, err := parser.Open(raw)
	if err != nil {
		return "", commonModels.ParseError(file.Name, err)
	}

	numPages := doc.NumPages()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", commonModels.ParseError(file.Name, err)
		}
		page, err := doc.Page(i)
		if err != nil {
			return "", commonModels.ParseError(file.Name, fmt.Errorf("page %d: %w", i, err))
		}
		fragments, err := page.TextContent()
		if err != nil {
			return "", commonModels.ParseError(file.Name, fmt.Errorf("text of page %d: %w", i, err))
		}
		pages = append(pages, strings.Join(fragments, " "))
	}
	return strings.Join(pages, "\n"), nil
}
