package translator

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"time"
)

const myMemoryURL = "https://api.mymemory.translated.net/get"

// MyMemoryService queries the free MyMemory API. An email raises the daily quota.
type MyMemoryService struct {
	email    string
	endpoint string
	client   *http.Client
}

func NewMyMemoryService(email string) *MyMemoryService {
	return &MyMemoryService{
		email:    email,
		endpoint: myMemoryURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MyMemoryService) Name() string { return "mymemory" }

func (s *MyMemoryService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	q := url.Values{}
	q.Set("q", req.Text)
	q.Set("langpair", sourceLangOf(req)+"|"+req.TargetLang)
	if s.email != "" {
		q.Set("de", s.email)
	}

	var reply struct {
		ResponseData struct {
			TranslatedText string  `json:"translatedText"`
			Match          float64 `json:"match"`
		} `json:"responseData"`
		ResponseStatus  int    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}
	if err := doJSON(ctx, s.client, s.Name(), http.MethodGet, s.endpoint+"?"+q.Encode(), nil, nil, &reply); err != nil {
		return failed(result, err)
	}

	// The HTTP status is 200 even for quota and language errors.
	if reply.ResponseStatus != http.StatusOK {
		return failed(result, fmt.Errorf("mymemory: %s (%d)", reply.ResponseDetails, reply.ResponseStatus))
	}
	if reply.ResponseData.TranslatedText == "" {
		return failed(result, errors.New("mymemory: empty translation"))
	}

	result.TranslatedText = html.UnescapeString(reply.ResponseData.TranslatedText)
	result.Confidence = min(max(reply.ResponseData.Match, 0), 1)
	return result, nil
}

func (s *MyMemoryService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *MyMemoryService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{
		"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
		"ar", "nl", "pl", "tr", "sv", "da", "no", "fi", "el", "he",
		"th", "vi", "id", "ms", "cs", "hu", "ro", "uk", "bg", "ca",
	}, nil
}
