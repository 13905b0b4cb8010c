package commonModels

import (
	"bytes"
	"io"
	"mime"
	"os"
	"strings"
)

// Document is one ingested file: its original name and the text extracted from it.
type Document struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type DocType string

var PDF DocType = "PDF"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

const (
	MediaTypeText = "text/plain"
	MediaTypePDF  = "application/pdf"
)

// InputFile is a user-selected file before extraction. Open is called once per ingestion.
type InputFile struct {
	Name      string
	MediaType string
	Open      func() (io.ReadCloser, error)
}

type SkippedFile struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
}

type FileFailure struct {
	Name  string    `json:"name"`
	Kind  ErrorKind `json:"kind"`
	Error string    `json:"error"`
}

// Batch is the outcome of one ingestion call. Documents only ever holds successful extractions.
type Batch struct {
	Documents []Document    `json:"documents"`
	Skipped   []SkippedFile `json:"skipped,omitempty"`
	Failures  []FileFailure `json:"failures,omitempty"`
}

func NewPathFile(name string, mediaType string, path string) InputFile {
	return InputFile{
		Name:      name,
		MediaType: mediaType,
		Open:      func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

func NewBytesFile(name string, mediaType string, data []byte) InputFile {
	return InputFile{
		Name:      name,
		MediaType: mediaType,
		Open:      func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// GetDocType classifies a declared media type. Parameters and case are ignored.
func GetDocType(mediaType string) DocType {
	essence, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		essence = strings.ToLower(strings.TrimSpace(mediaType))
	}
	switch essence {
	case MediaTypeText:
		return TXT
	case MediaTypePDF:
		return PDF
	default:
		return ERR
	}
}

// MediaTypeFromName guesses the declared type of a local file from its extension.
func MediaTypeFromName(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return ""
	}
	ext := strings.ToLower(name[dot:])
	//the builtin mime table has no .txt entry, it depends on the host's mime.types
	if ext == ".txt" {
		return MediaTypeText
	}
	return mime.TypeByExtension(ext)
}
