package translator

import (
	"context"
	"fmt"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService calls Google Cloud Translation v2.
type GoogleService struct {
	credentials string
	opts        []option.ClientOption
}

func NewGoogleService(credentials string) *GoogleService {
	return &GoogleService{credentials: credentials}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) clientOptions(cfg ServiceConfig) []option.ClientOption {
	opts := append([]option.ClientOption{}, s.opts...)
	creds := cfg.Credentials
	if creds == "" {
		creds = s.credentials
	}
	if creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	return opts
}

func (s *GoogleService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	// The target code is not validated up front; a bad one fails here.
	targetLangTag, err := language.Parse(req.TargetLang)
	if err != nil {
		result.Error = fmt.Sprintf("invalid target language: %v", err)
		return result, fmt.Errorf("invalid target language: %w", err)
	}
	sourceLangTag, err := language.Parse(sourceLangOf(req))
	if err != nil {
		result.Error = fmt.Sprintf("invalid source language: %v", err)
		return result, fmt.Errorf("invalid source language: %w", err)
	}

	client, err := translate.NewClient(ctx, s.clientOptions(cfg)...)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create client: %v", err)
		return result, fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	translations, err := client.Translate(ctx, []string{req.Text}, targetLangTag, &translate.Options{
		Source: sourceLangTag,
		Format: translate.Text,
	})
	if err != nil {
		result.Error = fmt.Sprintf("translation failed: %v", err)
		return result, fmt.Errorf("translation failed: %w", err)
	}

	if len(translations) == 0 {
		result.Error = "no translation returned"
		return result, fmt.Errorf("no translation returned")
	}

	result.TranslatedText = translations[0].Text
	result.Confidence = 1.0

	return result, nil
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *GoogleService) SupportedLanguages(ctx context.Context) ([]string, error) {
	client, err := translate.NewClient(ctx, s.clientOptions(ServiceConfig{})...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	langs, err := client.SupportedLanguages(ctx, language.English)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, l.Tag.String())
	}
	return codes, nil
}
