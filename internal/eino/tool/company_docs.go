package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

// Passage is one retrieved knowledge-base excerpt.
type Passage struct {
	Content string
	Score   float64
}

// Retriever is the tenant-scoped similarity search the tool calls into.
type Retriever interface {
	Query(ctx context.Context, companyID uuid.UUID, query string, topK int) ([]Passage, error)
}

// CompanyDocsTool retrieves grounding passages from one company's
// knowledge base. It is always bound to a concrete company id at
// construction; there is no way to query across tenants through it.
type CompanyDocsTool struct {
	retriever Retriever
	companyID uuid.UUID
	topK      int
	toolInfo  *schema.ToolInfo
}

func NewCompanyDocsTool(retriever Retriever, companyID uuid.UUID, topK int) *CompanyDocsTool {
	if topK <= 0 {
		topK = 5
	}
	return &CompanyDocsTool{
		retriever: retriever,
		companyID: companyID,
		topK:      topK,
		toolInfo: &schema.ToolInfo{
			Name: "company_docs_search",
			Desc: "Search the company's own documentation for relevant information. Use this first when answering RFP sections, questions or requirements.",
			ParamsOneOf: schema.NewParamsOneOfByParams(
				map[string]*schema.ParameterInfo{
					"query": {
						Type:     schema.String,
						Desc:     "The search query to find relevant company documents",
						Required: true,
					},
				},
			),
		},
	}
}

func (t *CompanyDocsTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return t.toolInfo, nil
}

type docsInput struct {
	Query string `json:"query"`
}

func (t *CompanyDocsTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input docsInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}

	passages, err := t.retriever.Query(ctx, t.companyID, input.Query, t.topK)
	if err != nil {
		log.Printf("[CompanyDocs Tool] Error: %v", err)
		return "", fmt.Errorf("retrieve documents: %w", err)
	}

	if len(passages) == 0 {
		return "No relevant documents found in the company knowledge base.", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d relevant documents:\n\n", len(passages)))
	for i, p := range passages {
		sb.WriteString(fmt.Sprintf("--- Document %d (score: %.3f) ---\n", i+1, p.Score))
		sb.WriteString(p.Content)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}
