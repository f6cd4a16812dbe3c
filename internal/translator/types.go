package translator

import (
	"context"
	"time"
)

type ServiceConfig struct {
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Model       string        `mapstructure:"model" json:"model"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
}

// GlossaryTerm pins the translation of a product or UI term.
type GlossaryTerm struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type TranslateRequest struct {
	// Key is the resource key of the string, passed to LLMs as context.
	Key        string         `json:"key,omitempty"`
	Text       string         `json:"text"`
	SourceLang string         `json:"source_lang"`
	TargetLang string         `json:"target_lang"`
	Glossary   []GlossaryTerm `json:"glossary,omitempty"`
}

type ServiceResult struct {
	ServiceName    string            `json:"service_name"`
	TranslatedText string            `json:"translated_text"`
	Confidence     float64           `json:"confidence"`
	Metadata       map[string]string `json:"metadata"`
	Latency        time.Duration     `json:"latency"`
	Error          string            `json:"error,omitempty"`
}

type TranslationService interface {
	Name() string
	Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}

func sourceLangOf(req TranslateRequest) string {
	if req.SourceLang == "" || req.SourceLang == "auto" {
		return "en"
	}
	return req.SourceLang
}
