package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = `This proposal responds to the Acme RFP.

## Executive Summary

We bring ten years of migration experience.

Key strengths:

- Certified engineers
- Proven playbooks
- 24x7 support

## Approach

Assess first.

Then migrate.

## Conclusion

We look forward to working together.`

func TestBuildDocument(t *testing.T) {
	doc := BuildDocument("Acme Response", sampleMarkdown)

	assert.Equal(t, "Acme Response", doc.Title)
	require.Len(t, doc.FrontMatter, 1)
	assert.Equal(t, "This proposal responds to the Acme RFP.", doc.FrontMatter[0].Text)

	require.Equal(t, 3, doc.HeadingCount())
	assert.Equal(t, "Executive Summary", doc.Sections[0].Heading)
	assert.Equal(t, "Approach", doc.Sections[1].Heading)
	assert.Equal(t, "Conclusion", doc.Sections[2].Heading)

	// Bullet block survives as a list, not a paragraph.
	summary := doc.Sections[0]
	require.Len(t, summary.Blocks, 3)
	assert.Equal(t, []string{"Certified engineers", "Proven playbooks", "24x7 support"}, summary.Blocks[2].Bullets)

	approach := doc.Sections[1]
	require.Len(t, approach.Blocks, 2)
	assert.Equal(t, "Assess first.", approach.Blocks[0].Text)
	assert.Equal(t, "Then migrate.", approach.Blocks[1].Text)
}

func TestBuildDocumentDeterministic(t *testing.T) {
	a := BuildDocument("T", sampleMarkdown)
	b := BuildDocument("T", sampleMarkdown)
	assert.Equal(t, a, b)
}

func TestBuildDocumentNoHeadings(t *testing.T) {
	doc := BuildDocument("T", "Just one paragraph of text.")
	assert.Equal(t, 0, doc.HeadingCount())
	require.Len(t, doc.FrontMatter, 1)
	assert.Equal(t, "Just one paragraph of text.", doc.FrontMatter[0].Text)
}

func TestBuildDocumentEmpty(t *testing.T) {
	doc := BuildDocument("T", "")
	assert.Equal(t, 0, doc.HeadingCount())
	assert.Empty(t, doc.FrontMatter)
	assert.Empty(t, doc.Paragraphs())
}

func TestParagraphsPreserveOrder(t *testing.T) {
	doc := BuildDocument("T", sampleMarkdown)
	paragraphs := doc.Paragraphs()

	joined := strings.Join(paragraphs, "\n")
	first := strings.Index(joined, "Executive Summary")
	second := strings.Index(joined, "Approach")
	third := strings.Index(joined, "Conclusion")
	assert.True(t, first < second && second < third, "headings out of order: %v", paragraphs)
	assert.Equal(t, "This proposal responds to the Acme RFP.", paragraphs[0])
}

func TestRenderDocxAndPDF(t *testing.T) {
	doc := BuildDocument("Acme Response", sampleMarkdown)

	docxBytes, err := RenderDocx(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, docxBytes)
	// DOCX is a zip container.
	assert.Equal(t, "PK", string(docxBytes[:2]))

	pdfBytes, err := RenderPDF(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF"))
}
