package rfp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rfpworks/rfpserver/internal/extract"
)

const extractionPrompt = `You are an expert in analyzing RFP documents. Extract the structure and key information from the following RFP text and return it as structured JSON with the following format:

{
  "metadata": {
    "title": "...",
    "issuer": "...",
    "issue_date": "...",
    "due_date": "...",
    "contact_info": {
      "name": "...",
      "email": "...",
      "phone": "..."
    },
    "submission_requirements": ["..."]
  },
  "sections": [
    {
      "id": "...",
      "title": "...",
      "parent_id": null,
      "content": "...",
      "level": 1
    }
  ],
  "questions": [
    {
      "id": "...",
      "text": "...",
      "section": "...",
      "type": "...",
      "response_format": "...",
      "word_limit": null,
      "related_requirements": ["..."]
    }
  ],
  "requirements": [
    {
      "id": "...",
      "text": "...",
      "section": "...",
      "category": "...",
      "mandatory": true,
      "related_questions": ["..."]
    }
  ]
}

Sections form at most a two-level hierarchy: "level" is 1 or 2, and "parent_id" is null or the id of a level-1 section. Every "section" field on a question or requirement must be the id of a declared section.

RFP Text:
%s

Respond ONLY with the JSON data.`

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*\\})\\s*```")

// Generator is the text generation capability the parser needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Parser turns extracted document text into a StructuredRFP with one
// model call. Malformed model output is surfaced, never retried.
type Parser struct {
	llm Generator
}

func NewParser(llm Generator) *Parser {
	return &Parser{llm: llm}
}

// Parse sends the whole document text to the model and decodes the reply.
func (p *Parser) Parse(ctx context.Context, text *extract.ExtractedText) (*StructuredRFP, error) {
	combined := text.Combined()

	reply, err := p.llm.Generate(ctx, fmt.Sprintf(extractionPrompt, combined))
	if err != nil {
		return nil, fmt.Errorf("structure extraction call: %w", err)
	}

	payload, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	var structured StructuredRFP
	if err := json.Unmarshal([]byte(payload), &structured); err != nil {
		return nil, &ExtractionError{Reason: fmt.Sprintf("invalid JSON: %v", err), Raw: reply}
	}

	if err := Validate(&structured); err != nil {
		return nil, err
	}
	return &structured, nil
}

// ExtractJSON pulls the JSON payload out of a free-text model reply:
// a fenced block tagged json wins, otherwise the span from the first '{'
// to the last '}'.
func ExtractJSON(reply string) (string, error) {
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		return m[1], nil
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end == -1 || end < start {
		return "", &ExtractionError{Reason: "no JSON object found in model response", Raw: reply}
	}
	return reply[start : end+1], nil
}

// Validate enforces the structural invariants: section references resolve,
// levels stay within the two-level hierarchy, and parent links form a
// forest. Violations fail the parse; nothing is silently dropped.
func Validate(s *StructuredRFP) error {
	sections := make(map[string]*Section, len(s.Sections))
	for i := range s.Sections {
		sec := &s.Sections[i]
		if sec.ID == "" {
			return &ValidationError{Reason: fmt.Sprintf("section %q has empty id", sec.Title)}
		}
		if _, dup := sections[sec.ID]; dup {
			return &ValidationError{Reason: fmt.Sprintf("duplicate section id %q", sec.ID)}
		}
		if sec.Level < 1 || sec.Level > 2 {
			return &ValidationError{Reason: fmt.Sprintf("section %q has level %d, only 1-2 are valid", sec.ID, sec.Level)}
		}
		sections[sec.ID] = sec
	}

	for _, sec := range s.Sections {
		if sec.ParentID == nil {
			continue
		}
		parent, ok := sections[*sec.ParentID]
		if !ok {
			return &ValidationError{Reason: fmt.Sprintf("section %q references unknown parent %q", sec.ID, *sec.ParentID)}
		}
		if parent.ID == sec.ID {
			return &ValidationError{Reason: fmt.Sprintf("section %q is its own parent", sec.ID)}
		}
		// A two-level tree means a parent may not itself have a parent.
		if parent.ParentID != nil {
			return &ValidationError{Reason: fmt.Sprintf("section %q nests deeper than two levels", sec.ID)}
		}
	}

	for _, q := range s.Questions {
		if _, ok := sections[q.Section]; !ok {
			return &ValidationError{Reason: fmt.Sprintf("question %q references unknown section %q", q.ID, q.Section)}
		}
		if q.WordLimit != nil && *q.WordLimit <= 0 {
			return &ValidationError{Reason: fmt.Sprintf("question %q has non-positive word limit", q.ID)}
		}
	}
	for _, r := range s.Requirements {
		if _, ok := sections[r.Section]; !ok {
			return &ValidationError{Reason: fmt.Sprintf("requirement %q references unknown section %q", r.ID, r.Section)}
		}
	}
	return nil
}
