package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Generator wraps a chat model behind a plain prompt-in/text-out call.
// The structured parser, the proposal compiler's narrative pass and the
// agent's fallback tool all go through this.
type Generator struct {
	chatModel model.ToolCallingChatModel
}

func NewGenerator(ctx context.Context, factory *Factory, cfg *ProviderConfig) (*Generator, error) {
	chatModel, err := factory.CreateToolCalling(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return &Generator{chatModel: chatModel}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return resp.Content, nil
}
