package infrastructure

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
)

// OpenAIProvider speaks the OpenAI chat-completions API. It also backs the
// Nebius provider, which exposes the same API under a different base URL.
type OpenAIProvider struct {
	client openai.Client
	id     string
	model  string
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		id:     "openai",
		model:  model,
	}
}

func NewNebiusProvider(apiKey, baseURL, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL)),
		id:     "nebius",
		model:  model,
	}
}

func (p *OpenAIProvider) ID() string { return p.id }

func (p *OpenAIProvider) Complete(ctx context.Context, req entities.ChatRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Turns)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, turn := range req.Turns {
		if turn.Role == entities.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", p.id, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s completion: no choices returned", p.id)
	}
	return resp.Choices[0].Message.Content, nil
}
