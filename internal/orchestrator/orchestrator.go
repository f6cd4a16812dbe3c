// Package orchestrator turns the configured translation services into the
// single candidate source the rewrite driver consumes. Services are tried one
// at a time in order; each gets a bounded number of attempts with exponential
// backoff before the next one is asked.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valpere/locwalk/internal"
	"github.com/valpere/locwalk/internal/translator"
)

// SourceLang is the language of every template document.
const SourceLang = "en"

// Client produces a candidate translation of one English string.
type Client interface {
	Translate(ctx context.Context, english, targetLang string) (string, error)
}

type Config struct {
	// Timeout bounds a single attempt against one service.
	Timeout time.Duration
	// MaxAttempts is the number of tries per service.
	MaxAttempts int
	// RetryDelay is the first backoff delay; it doubles per attempt.
	RetryDelay time.Duration
	MaxDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout:     30 * time.Second,
		MaxAttempts: 3,
		RetryDelay:  500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

type Orchestrator struct {
	services []translator.TranslationService
	config   Config
	configs  map[string]translator.ServiceConfig
	glossary []translator.GlossaryTerm
}

func New(services []translator.TranslationService, config Config) *Orchestrator {
	defaults := DefaultConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaults.RetryDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = defaults.MaxDelay
	}
	return &Orchestrator{
		services: services,
		config:   config,
		configs:  make(map[string]translator.ServiceConfig),
	}
}

// WithServiceConfig sets the per-call configuration passed to the named service.
func (o *Orchestrator) WithServiceConfig(name string, cfg translator.ServiceConfig) *Orchestrator {
	o.configs[name] = cfg
	return o
}

// WithGlossary attaches fixed term translations to every request.
func (o *Orchestrator) WithGlossary(terms map[string]string) *Orchestrator {
	o.glossary = o.glossary[:0]
	for src, tgt := range terms {
		o.glossary = append(o.glossary, translator.GlossaryTerm{Source: src, Target: tgt})
	}
	return o
}

// Services returns the names of the configured services in fallback order.
func (o *Orchestrator) Services() []string {
	names := make([]string, len(o.services))
	for i, svc := range o.services {
		names[i] = svc.Name()
	}
	return names
}

// Translate returns the first successful candidate. When every service fails
// the error is an *internal.TranslationError joining the per-service errors.
func (o *Orchestrator) Translate(ctx context.Context, english, targetLang string) (string, error) {
	req := translator.TranslateRequest{
		Key:        ResourceKey(ctx),
		Text:       english,
		SourceLang: SourceLang,
		TargetLang: targetLang,
		Glossary:   o.glossary,
	}

	if len(o.services) == 0 {
		return "", &internal.TranslationError{Text: english, Cause: errors.New("no translation services configured")}
	}

	var errs []error
	for _, svc := range o.services {
		text, err := o.attempt(ctx, svc, req)
		if err == nil {
			return text, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", svc.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}

	return "", &internal.TranslationError{Text: english, Cause: errors.Join(errs...)}
}

func (o *Orchestrator) attempt(ctx context.Context, svc translator.TranslationService, req translator.TranslateRequest) (string, error) {
	cfg := o.configs[svc.Name()]

	var lastErr error
	for attempt := 0; attempt < o.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := o.call(ctx, svc, cfg, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if attempt < o.config.MaxAttempts-1 {
			delay := o.config.RetryDelay * time.Duration(1<<attempt)
			if delay > o.config.MaxDelay {
				delay = o.config.MaxDelay
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	if o.config.MaxAttempts > 1 {
		return "", fmt.Errorf("%d attempts failed: %w", o.config.MaxAttempts, lastErr)
	}
	return "", lastErr
}

func (o *Orchestrator) call(ctx context.Context, svc translator.TranslationService, cfg translator.ServiceConfig, req translator.TranslateRequest) (string, error) {
	timeout := o.config.Timeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	serviceCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := svc.Translate(serviceCtx, cfg, req)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", errors.New("no result returned")
	}
	if res.Error != "" {
		return "", errors.New(res.Error)
	}
	if strings.TrimSpace(res.TranslatedText) == "" {
		return "", errors.New("empty translation")
	}
	return res.TranslatedText, nil
}

type resourceKeyCtx struct{}

// WithResourceKey attaches the key of the String element being translated.
// LLM backends use it as context.
func WithResourceKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, resourceKeyCtx{}, key)
}

func ResourceKey(ctx context.Context) string {
	key, _ := ctx.Value(resourceKeyCtx{}).(string)
	return key
}
