package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRejectsUnsupportedFormat(t *testing.T) {
	x := NewExtractor(1000, 200)

	_, err := x.Extract(&RawDocument{
		Filename:  "notes.txt",
		MediaType: "text/plain",
		Data:      []byte("hello"),
	})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestMediaTypeFor(t *testing.T) {
	cases := []struct {
		contentType string
		filename    string
		want        string
	}{
		{MediaTypePDF, "anything.bin", MediaTypePDF},
		{"application/octet-stream", "proposal.pdf", MediaTypePDF},
		{"", "Proposal.DOCX", MediaTypeDocx},
		{"", "sheet.xlsx", MediaTypeXlsx},
		{"text/plain", "notes.txt", "text/plain"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MediaTypeFor(tc.contentType, tc.filename), "%s / %s", tc.contentType, tc.filename)
	}
}

func TestSplitWindowsAndOverlap(t *testing.T) {
	x := NewExtractor(10, 4)
	text := strings.Repeat("abcdef", 5) // 30 chars

	chunks := x.split(text)
	require.NotEmpty(t, chunks)

	// Step is size minus overlap.
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, 6, chunks[i].Offset-chunks[i-1].Offset)
	}
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 10)
		assert.Equal(t, text[c.Offset:c.Offset+len(c.Text)], c.Text)
	}

	// Consecutive windows share the overlap region.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		overlap := prev.Offset + len(prev.Text) - chunks[i].Offset
		if overlap > 0 {
			assert.Equal(t, prev.Text[len(prev.Text)-overlap:], chunks[i].Text[:overlap])
		}
	}
}

func TestSplitShortText(t *testing.T) {
	x := NewExtractor(1000, 200)
	chunks := x.split("short")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Offset)
}

func TestSplitEmptyText(t *testing.T) {
	x := NewExtractor(1000, 200)
	assert.Empty(t, x.split(""))
}

func TestCombinedRoundTrip(t *testing.T) {
	x := NewExtractor(10, 4)
	text := "the quick brown fox jumps over the lazy dog"

	e := &ExtractedText{Chunks: x.split(text)}
	assert.Equal(t, text, e.Combined())
}

func TestCombinedSingleChunk(t *testing.T) {
	e := &ExtractedText{Chunks: []Chunk{{Text: "whole document", Offset: 0}}}
	assert.Equal(t, "whole document", e.Combined())
}

func TestNewExtractorDefaults(t *testing.T) {
	x := NewExtractor(0, -1)
	assert.Equal(t, 1000, x.chunkSize)
	assert.Equal(t, 200, x.chunkOverlap)

	// Overlap must stay below the chunk size.
	x = NewExtractor(100, 100)
	assert.Equal(t, 100, x.chunkSize)
	assert.Equal(t, 20, x.chunkOverlap)
}
