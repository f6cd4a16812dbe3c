package translator

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	systranHost = "api-systran-systran-translation-v1.p.rapidapi.com"
	systranURL  = "https://" + systranHost + "/translation/text/translate"
)

var errSystranKey = errors.New("systran: API key required")

// SystranService calls the Systran text API through RapidAPI.
type SystranService struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewSystranService(apiKey string) *SystranService {
	return &SystranService{
		apiKey:   apiKey,
		endpoint: systranURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *SystranService) Name() string { return "systran" }

func (s *SystranService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	key := s.apiKey
	if key == "" {
		key = cfg.APIKey
	}
	if key == "" {
		return failed(result, errSystranKey)
	}

	header := http.Header{}
	header.Set("X-RapidAPI-Key", key)
	header.Set("X-RapidAPI-Host", systranHost)

	payload := map[string]any{
		"text":   []string{req.Text},
		"source": sourceLangOf(req),
		"target": req.TargetLang,
		"format": "text",
	}
	var reply struct {
		Outputs []struct {
			Output string `json:"output"`
		} `json:"outputs"`
	}
	if err := doJSON(ctx, s.client, s.Name(), http.MethodPost, s.endpoint, header, payload, &reply); err != nil {
		return failed(result, err)
	}
	if len(reply.Outputs) == 0 || reply.Outputs[0].Output == "" {
		return failed(result, errors.New("systran: empty translation"))
	}

	result.TranslatedText = reply.Outputs[0].Output
	result.Confidence = 1.0
	return result, nil
}

func (s *SystranService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return errSystranKey
	}
	return nil
}

func (s *SystranService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"en", "fr", "es", "de", "it", "pt", "ru", "zh", "ja", "ko", "ar"}, nil
}
