package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"

	"github.com/rfpworks/rfpserver/internal/eino/llm"
)

type AgentConfig struct {
	Name        string
	Description string
	Instruction string
	Provider    *llm.ProviderConfig
	Tools       []tool.BaseTool
}

type Builder struct {
	llmFactory *llm.Factory
}

func NewBuilder(llmFactory *llm.Factory) *Builder {
	return &Builder{llmFactory: llmFactory}
}

// BuildReactAgent creates a ReAct agent that actively calls tools before
// producing its final answer.
func (b *Builder) BuildReactAgent(ctx context.Context, cfg *AgentConfig) (*react.Agent, error) {
	chatModel, err := b.llmFactory.CreateChatModel(ctx, cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	log.Printf("[DEBUG] Building ReAct agent %s with %d tools", cfg.Name, len(cfg.Tools))
	for _, t := range cfg.Tools {
		info, _ := t.Info(ctx)
		if info != nil {
			log.Printf("[DEBUG] Tool: %s - %s", info.Name, info.Desc)
		}
	}

	reactConfig := &react.AgentConfig{
		Model:   chatModel,
		MaxStep: 10,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: cfg.Tools,
		},
	}

	return react.NewAgent(ctx, reactConfig)
}
