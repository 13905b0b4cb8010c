// Package prompt assembles the single text blob sent to the answer-generation service.
// Documents are included verbatim; nothing is truncated or chunked.
package prompt

import (
	"errors"
	"strings"

	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
)

const (
	Preamble = "Using these documents, answer the user’s question succinctly. " +
		"Provide a clear, synthesized answer based only on the information in the documents. " +
		"If the answer cannot be found in the documents, state that clearly."

	Separator = "\n\n---\n\n"

	documentsHeader = "\n\nDocuments:\n"
	questionHeader  = "\n\nQuestion: "
	nameHeader      = "Document: "
	contentHeader   = "\nContent:\n"
)

var ErrNotAPrompt = errors.New("text was not produced by Build")

func renderDocument(doc commonModels.Document) string {
	return nameHeader + doc.Name + contentHeader + doc.Content
}

// Build renders the preamble, every document in order and the question.
func Build(docs []commonModels.Document, query string) string {
	var b strings.Builder
	b.WriteString(Preamble)
	b.WriteString(documentsHeader)
	for i, doc := range docs {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(renderDocument(doc))
	}
	b.WriteString(questionHeader)
	b.WriteString(query)
	return b.String()
}

// Parse recovers the documents and the question from a prompt made by Build.
// A separator inside a document's content stays with that document unless the
// text after it starts a new document header. The question is taken after the
// last "\n\nQuestion: ", so document content may contain that text but a query
// containing it comes back cut at its own copy.
func Parse(text string) ([]commonModels.Document, string, error) {
	body, ok := strings.CutPrefix(text, Preamble+documentsHeader)
	if !ok {
		return nil, "", ErrNotAPrompt
	}

	//the question is whatever follows the last question header
	cut := strings.LastIndex(body, questionHeader)
	if cut < 0 {
		return nil, "", ErrNotAPrompt
	}
	context, query := body[:cut], body[cut+len(questionHeader):]

	if context == "" {
		return []commonModels.Document{}, query, nil
	}

	var docs []commonModels.Document
	for _, part := range strings.Split(context, Separator) {
		name, content, isHeader := splitHeader(part)
		if isHeader {
			docs = append(docs, commonModels.Document{Name: name, Content: content})
			continue
		}
		if len(docs) == 0 {
			return nil, "", ErrNotAPrompt
		}
		docs[len(docs)-1].Content += Separator + part
	}
	return docs, query, nil
}

func splitHeader(part string) (string, string, bool) {
	rest, ok := strings.CutPrefix(part, nameHeader)
	if !ok {
		return "", "", false
	}
	name, content, found := strings.Cut(rest, contentHeader)
	if !found || strings.Contains(name, "\n") {
		return "", "", false
	}
	return name, content, true
}
