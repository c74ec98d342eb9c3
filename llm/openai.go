// OpenAI Provider implementation using go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for OpenAI's Chat Completions API
// - Finish-reason normalization

package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the current model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Chat sends a single chat completion request.
func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	creq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   int(req.MaxOutputTokens),
		Temperature: float32(req.Temperature),
	}
	if req.ResponseFormat != nil {
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatType(req.ResponseFormat.Type),
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("openai: chat completion failed: %w", err)
	}

	content := ""
	var finish FinishReason = FinishOther
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finish = convertOpenAIFinishReason(resp.Choices[0].FinishReason)
	}

	return ChatResponse{
		Content:      content,
		FinishReason: finish,
		Usage: &TokenUsage{
			PromptTokens:     uint32(resp.Usage.PromptTokens),
			CompletionTokens: uint32(resp.Usage.CompletionTokens),
			TotalTokens:      uint32(resp.Usage.TotalTokens),
		},
	}, nil
}

// convertOpenAIFinishReason normalizes go-openai's finish-reason vocabulary.
// Shared with DeepSeekProvider, which speaks the same OpenAI-compatible wire format.
func convertOpenAIFinishReason(reason openai.FinishReason) FinishReason {
	switch reason {
	case openai.FinishReasonLength:
		return FinishLength
	case openai.FinishReasonStop:
		return FinishStop
	case openai.FinishReasonContentFilter:
		return FinishContentFilter
	default:
		return FinishOther
	}
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
