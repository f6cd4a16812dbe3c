package translator

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/valpere/locwalk/internal/placeholder"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIService talks to any OpenAI-compatible chat endpoint: OpenAI itself,
// OpenRouter, or a local gateway.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(apiKey, baseURL, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (s *OpenAIService) Name() string {
	return "openai"
}

func (s *OpenAIService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	model := cfg.Model
	if model == "" {
		model = s.model
	}

	protected, markers := placeholder.Protect(req.Text)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildInstructions(req, markers)},
			{Role: openai.ChatMessageRoleUser, Content: protected},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return failed(result, fmt.Errorf("openai request failed: %w", err))
	}
	if len(resp.Choices) == 0 {
		return failed(result, fmt.Errorf("openai: no choices returned"))
	}

	text, err := finishLLM(resp.Choices[0].Message.Content, req.Text, markers)
	if err != nil {
		return failed(result, err)
	}

	result.TranslatedText = text
	result.Confidence = 0.8
	result.Metadata = map[string]string{"model": resp.Model}

	return result, nil
}

func (s *OpenAIService) IsAvailable(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("OpenAI endpoint not available: %w", err)
	}
	return nil
}

func (s *OpenAIService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return nil, nil
}
