// Package rfp holds the canonical parsed representation of an RFP document
// and the LLM-backed parser that produces it.
package rfp

// ContactInfo is the issuer's point of contact.
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Metadata carries the free-form document header fields.
type Metadata struct {
	Title                  string      `json:"title"`
	Issuer                 string      `json:"issuer"`
	IssueDate              string      `json:"issue_date"`
	DueDate                string      `json:"due_date"`
	ContactInfo            ContactInfo `json:"contact_info"`
	SubmissionRequirements []string    `json:"submission_requirements"`
}

// Section is one node of the two-level section hierarchy. ParentID is nil
// for top-level sections and must reference another section otherwise.
type Section struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id"`
	Content  string  `json:"content"`
	Level    int     `json:"level"`
}

// Question is one question the RFP asks of the responder.
type Question struct {
	ID                  string   `json:"id"`
	Text                string   `json:"text"`
	Section             string   `json:"section"`
	Type                string   `json:"type"`
	ResponseFormat      string   `json:"response_format"`
	WordLimit           *int     `json:"word_limit"`
	RelatedRequirements []string `json:"related_requirements"`
}

// Requirement is one capability or compliance demand from the RFP.
type Requirement struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Section          string   `json:"section"`
	Category         string   `json:"category"`
	Mandatory        bool     `json:"mandatory"`
	RelatedQuestions []string `json:"related_questions"`
}

// StructuredRFP is the immutable parsed representation of one upload.
// It is created once by the parser and never mutated afterwards.
type StructuredRFP struct {
	Metadata     Metadata      `json:"metadata"`
	Sections     []Section     `json:"sections"`
	Questions    []Question    `json:"questions"`
	Requirements []Requirement `json:"requirements"`
}
