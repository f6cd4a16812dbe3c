package translator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bregydoc/gtranslate"
)

func TestGTranslateService_Translate(t *testing.T) {
	var got gtranslate.TranslationParams
	svc := &GTranslateService{translate: func(text string, params gtranslate.TranslationParams) (string, error) {
		got = params
		return " Вентилятор \n", nil
	}}

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Fan",
		TargetLang: "uk",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Вентилятор" {
		t.Errorf("expected trimmed text, got %q", result.TranslatedText)
	}
	if got.From != "en" || got.To != "uk" {
		t.Errorf("unexpected params %+v", got)
	}
}

func TestGTranslateService_Translate_Errors(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string, gtranslate.TranslationParams) (string, error)
	}{
		{"backend error", func(string, gtranslate.TranslationParams) (string, error) {
			return "", errors.New("429 too many requests")
		}},
		{"empty result", func(string, gtranslate.TranslationParams) (string, error) {
			return "   ", nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &GTranslateService{translate: tt.fn}
			result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "Fan", TargetLang: "uk"})
			if err == nil {
				t.Error("expected error")
			}
			if result == nil || result.Error == "" {
				t.Error("expected error message in result")
			}
		})
	}
}

func TestGTranslateService_Translate_Cancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	svc := &GTranslateService{translate: func(string, gtranslate.TranslationParams) (string, error) {
		<-release
		return "late", nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Translate(ctx, ServiceConfig{}, TranslateRequest{Text: "Fan", TargetLang: "uk"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestGoogleService_Translate_InvalidTarget(t *testing.T) {
	svc := NewGoogleService("")

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Fan",
		TargetLang: "not a language",
	})
	if err == nil {
		t.Error("expected error for unparsable target language")
	}
	if result == nil || result.Error == "" {
		t.Error("expected error message in result")
	}
}
