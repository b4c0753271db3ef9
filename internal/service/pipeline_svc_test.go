package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfpworks/rfpserver/internal/rfp"
)

func TestStructuredSnapshotRoundTrip(t *testing.T) {
	limit := 300
	parent := "s1"
	structured := &rfp.StructuredRFP{
		Metadata: rfp.Metadata{
			Title:   "Acme RFP",
			Issuer:  "Acme Corp",
			DueDate: "2025-03-01",
		},
		Sections: []rfp.Section{
			{ID: "s1", Title: "Scope", Content: "Migrate", Level: 1},
			{ID: "s2", Title: "Timeline", ParentID: &parent, Content: "6 months", Level: 2},
		},
		Questions: []rfp.Question{
			{ID: "q1", Text: "How?", Section: "s1", WordLimit: &limit, RelatedRequirements: []string{"r1"}},
		},
		Requirements: []rfp.Requirement{
			{ID: "r1", Text: "ISO 27001", Section: "s1", Mandatory: true},
		},
	}

	snapshot, err := toJSONMap(structured)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	decoded, err := fromJSONMap(snapshot)
	require.NoError(t, err)
	assert.Equal(t, structured, decoded)
}

func TestFromJSONMapRejectsGarbage(t *testing.T) {
	_, err := fromJSONMap(map[string]interface{}{"sections": "not a list"})
	assert.Error(t, err)
}
