package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// Generator is the plain text generation capability behind the fallback.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FallbackTool answers from the model's general knowledge with no
// retrieval context. The agent should only reach for it when the
// knowledge-base search produced nothing usable.
type FallbackTool struct {
	llm      Generator
	toolInfo *schema.ToolInfo
}

func NewFallbackTool(llm Generator) *FallbackTool {
	return &FallbackTool{
		llm: llm,
		toolInfo: &schema.ToolInfo{
			Name: "fallback_answer",
			Desc: "Generate an answer using general reasoning, without company documents. Use this only if no other tool returned useful information.",
			ParamsOneOf: schema.NewParamsOneOfByParams(
				map[string]*schema.ParameterInfo{
					"query": {
						Type:     schema.String,
						Desc:     "The question to answer",
						Required: true,
					},
				},
			),
		},
	}
}

func (t *FallbackTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return t.toolInfo, nil
}

type fallbackInput struct {
	Query string `json:"query"`
}

func (t *FallbackTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input fallbackInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}

	answer, err := t.llm.Generate(ctx, input.Query)
	if err != nil {
		return "", fmt.Errorf("fallback generation: %w", err)
	}
	return answer, nil
}
