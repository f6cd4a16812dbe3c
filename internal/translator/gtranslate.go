package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bregydoc/gtranslate"
)

// GTranslateService uses the free Google Translate web endpoint. It needs no
// credentials and is the default backend.
type GTranslateService struct {
	translate func(text string, params gtranslate.TranslationParams) (string, error)
}

func NewGTranslateService() *GTranslateService {
	return &GTranslateService{translate: gtranslate.TranslateWithParams}
}

func (s *GTranslateService) Name() string {
	return "gtranslate"
}

func (s *GTranslateService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	params := gtranslate.TranslationParams{
		From: sourceLangOf(req),
		To:   req.TargetLang,
	}

	type outcome struct {
		text string
		err  error
	}
	// gtranslate has no context support; abandon the call on cancellation.
	done := make(chan outcome, 1)
	go func() {
		text, err := s.translate(req.Text, params)
		done <- outcome{text, err}
	}()

	var out outcome
	select {
	case <-ctx.Done():
		result.Error = ctx.Err().Error()
		return result, ctx.Err()
	case out = <-done:
	}

	if out.err != nil {
		result.Error = fmt.Sprintf("translation failed: %v", out.err)
		return result, fmt.Errorf("translation failed: %w", out.err)
	}

	text := strings.TrimSpace(out.text)
	if text == "" {
		result.Error = "empty translation response"
		return result, fmt.Errorf("empty translation response")
	}

	result.TranslatedText = text
	result.Confidence = 0.8
	return result, nil
}

func (s *GTranslateService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *GTranslateService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return nil, nil
}
