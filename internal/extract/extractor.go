// Package extract converts uploaded RFP and company documents into plain
// text chunks for the LLM pipeline.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrUnsupportedFormat is returned for any media type outside pdf/docx/xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format: only PDF, DOCX and XLSX are supported")

// RawDocument is an uploaded file held in memory. It exists only for the
// duration of extraction.
type RawDocument struct {
	Filename  string
	MediaType string
	Data      []byte
}

// Chunk is one window of extracted text with its offset into the full text.
type Chunk struct {
	Text   string
	Offset int
}

// ExtractedText is the ordered chunk sequence produced by extraction.
// Chunk boundaries carry no meaning; downstream consumers only ever see
// the combined text.
type ExtractedText struct {
	Chunks []Chunk
}

// Combined concatenates all chunk windows back into one blob, dropping the
// overlap regions.
func (e *ExtractedText) Combined() string {
	var sb strings.Builder
	for _, c := range e.Chunks {
		if c.Offset < sb.Len() {
			// Skip the overlapping prefix already written.
			tail := sb.Len() - c.Offset
			if tail >= len(c.Text) {
				continue
			}
			sb.WriteString(c.Text[tail:])
			continue
		}
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// Extractor converts raw documents into overlapping text chunks.
type Extractor struct {
	chunkSize    int
	chunkOverlap int
}

func NewExtractor(chunkSize, chunkOverlap int) *Extractor {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Extractor{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Extract dispatches on the declared media type and returns chunked text.
func (x *Extractor) Extract(raw *RawDocument) (*ExtractedText, error) {
	var text string
	var err error

	switch MediaTypeFor(raw.MediaType, raw.Filename) {
	case MediaTypePDF:
		text, err = extractPDF(raw.Data)
	case MediaTypeDocx:
		text, err = extractDocx(raw.Data)
	case MediaTypeXlsx:
		text, err = extractXlsx(raw.Data)
	default:
		return nil, fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, raw.MediaType)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", raw.Filename, err)
	}

	return &ExtractedText{Chunks: x.split(text)}, nil
}

// MediaTypeFor normalizes a declared content type, falling back to the
// filename extension when the type is generic or missing.
func MediaTypeFor(contentType, filename string) string {
	switch contentType {
	case MediaTypePDF, MediaTypeDocx, MediaTypeXlsx:
		return contentType
	}
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return MediaTypePDF
	case strings.HasSuffix(name, ".docx"):
		return MediaTypeDocx
	case strings.HasSuffix(name, ".xlsx"):
		return MediaTypeXlsx
	}
	return contentType
}

// split cuts text into fixed-size windows with overlap so context survives
// window boundaries.
func (x *Extractor) split(text string) []Chunk {
	if text == "" {
		return nil
	}

	step := x.chunkSize - x.chunkOverlap
	var chunks []Chunk
	for offset := 0; offset < len(text); offset += step {
		end := offset + x.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, Chunk{Text: text[offset:end], Offset: offset})
		if end == len(text) {
			break
		}
	}
	return chunks
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("copy pdf text: %w", err)
	}
	return buf.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		for _, child := range para.Children {
			run, ok := child.(*docx.Run)
			if !ok {
				continue
			}
			for _, rc := range run.Children {
				if t, ok := rc.(*docx.Text); ok {
					sb.WriteString(t.Text)
				}
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractXlsx(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			sb.WriteString(strings.Join(row, " "))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
