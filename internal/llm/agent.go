package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/memory"

	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

// Agent is a chat model with conversation memory.
type Agent interface {
	Run(ctx context.Context, prompt string) (string, error)
	Model() string
}

// AgentFactory builds an Agent for one request's credential.
type AgentFactory interface {
	NewAgent(ctx context.Context, apiKey string) (Agent, error)
}

type FactoryConfig struct {
	BaseURL     string
	Temperature float64
}

type openAIFactory struct {
	selector ModelSelector
	cfg      FactoryConfig
	logger   *utils.Logger
}

func NewAgentFactory(selector ModelSelector, cfg FactoryConfig, logger *utils.Logger) AgentFactory {
	return &openAIFactory{
		selector: selector,
		cfg:      cfg,
		logger:   logger,
	}
}

func (f *openAIFactory) NewAgent(ctx context.Context, apiKey string) (Agent, error) {
	model := f.selector.SelectModel(ctx)

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if f.cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(f.cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}

	buffer := memory.NewConversationBuffer()
	chain := chains.NewConversation(client, buffer)

	f.logger.Info("Agent initialized", "model", model, "temperature", f.cfg.Temperature)

	return &conversationAgent{
		model:       model,
		temperature: f.cfg.Temperature,
		chain:       &chain,
		memory:      buffer,
	}, nil
}

type conversationAgent struct {
	model       string
	temperature float64
	chain       chains.Chain
	memory      *memory.ConversationBuffer
}

func (a *conversationAgent) Run(ctx context.Context, prompt string) (string, error) {
	out, err := chains.Run(ctx, a.chain, prompt, chains.WithTemperature(a.temperature))
	if err != nil {
		return "", fmt.Errorf("chat error: %w", err)
	}
	return out, nil
}

func (a *conversationAgent) Model() string {
	return a.model
}
