package rfp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfpworks/rfpserver/internal/extract"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.reply, g.err
}

func textOf(s string) *extract.ExtractedText {
	return &extract.ExtractedText{Chunks: []extract.Chunk{{Text: s, Offset: 0}}}
}

const acmeReply = "Here is the extracted structure:\n```json\n{" +
	`"metadata": {"title": "Acme Cloud Migration RFP", "issuer": "Acme Corp", "issue_date": "2025-01-15", "due_date": "2025-03-01", "contact_info": {"name": "J. Doe", "email": "jdoe@acme.example"}, "submission_requirements": ["PDF via portal"]},` +
	`"sections": [{"id": "s1", "title": "Scope", "parent_id": null, "content": "Migrate workloads", "level": 1}, {"id": "s1.1", "title": "Timeline", "parent_id": "s1", "content": "Six months", "level": 2}],` +
	`"questions": [{"id": "q1", "text": "Describe your migration approach", "section": "s1", "type": "narrative", "response_format": "prose", "word_limit": 500, "related_requirements": ["r1"]}],` +
	`"requirements": [{"id": "r1", "text": "Vendor must be ISO 27001 certified", "section": "s1", "category": "compliance", "mandatory": true, "related_questions": ["q1"]}]` +
	"}\n```"

func TestParseFencedReply(t *testing.T) {
	p := NewParser(&fakeGenerator{reply: acmeReply})

	structured, err := p.Parse(context.Background(), textOf("RFP body"))
	require.NoError(t, err)

	assert.Equal(t, "Acme Cloud Migration RFP", structured.Metadata.Title)
	assert.Equal(t, "2025-03-01", structured.Metadata.DueDate)
	require.Len(t, structured.Sections, 2)
	assert.Equal(t, 2, structured.Sections[1].Level)
	require.NotNil(t, structured.Sections[1].ParentID)
	assert.Equal(t, "s1", *structured.Sections[1].ParentID)
	require.Len(t, structured.Questions, 1)
	require.NotNil(t, structured.Questions[0].WordLimit)
	assert.Equal(t, 500, *structured.Questions[0].WordLimit)
	require.Len(t, structured.Requirements, 1)
	assert.True(t, structured.Requirements[0].Mandatory)
}

func TestParseBareJSONReply(t *testing.T) {
	reply := `Sure, here you go: {"metadata": {"title": "T"}, "sections": [{"id": "s1", "title": "A", "content": "c", "level": 1}], "questions": [], "requirements": []} Hope that helps!`
	p := NewParser(&fakeGenerator{reply: reply})

	structured, err := p.Parse(context.Background(), textOf("RFP body"))
	require.NoError(t, err)
	assert.Equal(t, "T", structured.Metadata.Title)
}

func TestParseRefusalReply(t *testing.T) {
	p := NewParser(&fakeGenerator{reply: "I cannot help with that."})

	_, err := p.Parse(context.Background(), textOf("RFP body"))
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "I cannot help with that.", extractionErr.Raw)
}

func TestParseGeneratorError(t *testing.T) {
	p := NewParser(&fakeGenerator{err: errors.New("rate limited")})

	_, err := p.Parse(context.Background(), textOf("RFP body"))
	require.Error(t, err)
	var extractionErr *ExtractionError
	assert.False(t, errors.As(err, &extractionErr), "transport errors are not extraction errors")
}

func TestExtractJSONPrefersFencedBlock(t *testing.T) {
	reply := "ignore this {\"decoy\": 1} text\n```json\n{\"real\": true}\n```\ntrailing"
	payload, err := ExtractJSON(reply)
	require.NoError(t, err)
	assert.JSONEq(t, `{"real": true}`, payload)
}

func TestExtractJSONBraceSpan(t *testing.T) {
	payload, err := ExtractJSON(`leading {"a": {"b": 2}} trailing`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": {"b": 2}}`, payload)
}

func strPtr(s string) *string { return &s }

func TestValidate(t *testing.T) {
	base := func() *StructuredRFP {
		return &StructuredRFP{
			Sections: []Section{
				{ID: "s1", Title: "Top", Level: 1},
				{ID: "s2", Title: "Child", ParentID: strPtr("s1"), Level: 2},
			},
			Questions:    []Question{{ID: "q1", Text: "?", Section: "s2"}},
			Requirements: []Requirement{{ID: "r1", Text: "must", Section: "s1"}},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(base()))
	})

	t.Run("duplicate section id", func(t *testing.T) {
		s := base()
		s.Sections = append(s.Sections, Section{ID: "s1", Level: 1})
		assert.Error(t, Validate(s))
	})

	t.Run("bad level", func(t *testing.T) {
		s := base()
		s.Sections[0].Level = 3
		assert.Error(t, Validate(s))
	})

	t.Run("unknown parent", func(t *testing.T) {
		s := base()
		s.Sections[1].ParentID = strPtr("missing")
		assert.Error(t, Validate(s))
	})

	t.Run("self parent", func(t *testing.T) {
		s := base()
		s.Sections[1].ParentID = strPtr("s2")
		assert.Error(t, Validate(s))
	})

	t.Run("three level nesting", func(t *testing.T) {
		s := base()
		s.Sections = append(s.Sections, Section{ID: "s3", ParentID: strPtr("s2"), Level: 2})
		assert.Error(t, Validate(s))
	})

	t.Run("question references unknown section", func(t *testing.T) {
		s := base()
		s.Questions[0].Section = "nope"
		assert.Error(t, Validate(s))
	})

	t.Run("requirement references unknown section", func(t *testing.T) {
		s := base()
		s.Requirements[0].Section = "nope"
		assert.Error(t, Validate(s))
	})

	t.Run("non-positive word limit", func(t *testing.T) {
		s := base()
		zero := 0
		s.Questions[0].WordLimit = &zero
		assert.Error(t, Validate(s))
	})

	t.Run("validation errors are typed", func(t *testing.T) {
		s := base()
		s.Sections[0].Level = 0
		var validationErr *ValidationError
		assert.ErrorAs(t, Validate(s), &validationErr)
	})
}
