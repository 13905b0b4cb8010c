package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// PDFParser opens a PDF from its raw bytes. Implementations are treated as a black box.
type PDFParser interface {
	Open(data []byte) (PDFDocument, error)
}

type PDFDocument interface {
	NumPages() int
	// Page is 1-based.
	Page(n int) (PDFPage, error)
}

type PDFPage interface {
	TextContent() ([]string, error)
}

type dslipakParser struct{}

type dslipakDocument struct {
	reader   *pdf.Reader
	numPages int
}

type dslipakPage struct {
	page pdf.Page
}

func NewPDFParser() PDFParser {
	return dslipakParser{}
}

func (dslipakParser) Open(data []byte) (doc PDFDocument, err error) {
	if len(data) == 0 {
		return nil, errors.New("empty pdf")
	}
	//the reader panics on some malformed files instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("failed to open pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	//the page tree is walked here so a broken one fails under the recover above
	return &dslipakDocument{reader: r, numPages: r.NumPage()}, nil
}

func (d *dslipakDocument) NumPages() int {
	return d.numPages
}

func (d *dslipakDocument) Page(n int) (p PDFPage, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("reading page %d: %v", n, r)
		}
	}()
	page := d.reader.Page(n)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d not found", n)
	}
	return dslipakPage{page: page}, nil
}

// TextContent returns the page's text lines, blank lines dropped.
func (p dslipakPage) TextContent() (fragments []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			fragments, err = nil, fmt.Errorf("extracting text: %v", r)
		}
	}()
	text, err := p.page.GetPlainText(nil)
	if err != nil {
		return nil, err
	}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			fragments = append(fragments, line)
		}
	}
	return fragments, nil
}
