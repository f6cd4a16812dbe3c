package translator

import (
	"context"
	"net/http"
	"time"

	"github.com/valpere/locwalk/internal/placeholder"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2"
)

// OllamaTranslator prompts a local Ollama model, protecting format tokens.
type OllamaTranslator struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaTranslator(baseURL, model string) *OllamaTranslator {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaTranslator{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *OllamaTranslator) Name() string { return "ollama" }

func (s *OllamaTranslator) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	model := cfg.Model
	if model == "" {
		model = s.model
	}

	protected, markers := placeholder.Protect(req.Text)

	payload := map[string]any{
		"model":   model,
		"system":  buildInstructions(req, markers),
		"prompt":  protected,
		"stream":  false,
		"options": map[string]any{"temperature": 0.2},
	}
	var reply struct {
		Response string `json:"response"`
	}
	if err := doJSON(ctx, s.client, s.Name(), http.MethodPost, s.baseURL+"/api/generate", nil, payload, &reply); err != nil {
		return failed(result, err)
	}

	text, err := finishLLM(reply.Response, req.Text, markers)
	if err != nil {
		return failed(result, err)
	}

	result.TranslatedText = text
	result.Confidence = 0.7
	result.Metadata = map[string]string{"model": model}

	return result, nil
}

// IsAvailable probes the model list endpoint.
func (s *OllamaTranslator) IsAvailable(ctx context.Context) error {
	return doJSON(ctx, s.client, s.Name(), http.MethodGet, s.baseURL+"/api/tags", nil, nil, nil)
}

func (s *OllamaTranslator) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"en", "es", "fr", "de", "it", "pt", "ru", "zh", "ja", "ko", "ar", "uk"}, nil
}
