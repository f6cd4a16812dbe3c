/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/valpere/locwalk/internal/cache"
	"github.com/valpere/locwalk/internal/config"
	"github.com/valpere/locwalk/internal/display"
	"github.com/valpere/locwalk/internal/orchestrator"
	"github.com/valpere/locwalk/internal/store"
	"github.com/valpere/locwalk/internal/translator"
)

// buildServices constructs the translation services named in cfg, in order.
func buildServices(cfg *config.Config) ([]translator.TranslationService, error) {
	var list []translator.TranslationService

	for _, name := range cfg.Services {
		switch name {
		case "gtranslate":
			list = append(list, translator.NewGTranslateService())
		case "google":
			list = append(list, translator.NewGoogleService(cfg.Credentials))
		case "systran":
			list = append(list, translator.NewSystranService(cfg.SystranKey))
		case "mymemory":
			list = append(list, translator.NewMyMemoryService(cfg.MyMemoryEmail))
		case "ollama":
			list = append(list, translator.NewOllamaTranslator(cfg.OllamaURL, cfg.OllamaModel))
		case "openai", "openrouter":
			if cfg.OpenAIKey == "" {
				return nil, fmt.Errorf("service %s requires --%s", name, config.KeyOpenAIKey)
			}
			list = append(list, translator.NewOpenAIService(cfg.OpenAIKey, cfg.OpenAIURL, cfg.OpenAIModel))
		default:
			fmt.Fprintf(os.Stderr, "Unknown service: %s, skipping\n", name)
		}
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no valid services configured")
	}
	return list, nil
}

// serviceConfig is the per-call configuration of a named service. LLM
// backends get their own, longer timeout.
func serviceConfig(name string, cfg *config.Config) translator.ServiceConfig {
	switch name {
	case "google":
		return translator.ServiceConfig{Credentials: cfg.Credentials, APIKey: cfg.GoogleKey, Timeout: cfg.Timeout}
	case "ollama":
		return translator.ServiceConfig{Model: cfg.OllamaModel, Timeout: cfg.LLMTimeout}
	case "openai":
		return translator.ServiceConfig{Model: cfg.OpenAIModel, Timeout: cfg.LLMTimeout}
	default:
		return translator.ServiceConfig{Timeout: cfg.Timeout}
	}
}

func buildOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	services, err := buildServices(cfg)
	if err != nil {
		return nil, err
	}

	orch := orchestrator.New(services, orchestrator.Config{
		Timeout:     cfg.Timeout,
		MaxAttempts: cfg.MaxRetries,
		RetryDelay:  cfg.RetryDelay,
	})
	for _, name := range orch.Services() {
		orch.WithServiceConfig(name, serviceConfig(name, cfg))
	}
	return orch, nil
}

// buildClient layers the candidate cache and, when db is set, the translation
// memory over the service orchestrator. The returned cleanup releases the
// cache connection.
func buildClient(ctx context.Context, cfg *config.Config, db *store.Store) (orchestrator.Client, func(), error) {
	orch, err := buildOrchestrator(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var candidates cache.TranslationCache = cache.NewInMemoryCache(0)
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, TTL: cfg.RedisTTL})
		if err != nil {
			display.PrintWarn(os.Stderr, fmt.Sprintf("redis unavailable, caching in memory: %v", err))
		} else {
			candidates = rc
			cleanup = func() { rc.Close() }
		}
	}

	var client orchestrator.Client = orchestrator.NewCached(orch, candidates)

	if db != nil {
		terms, err := db.GetGlossaryTerms(ctx, orchestrator.SourceLang, cfg.TargetLang)
		if err != nil {
			display.PrintWarn(os.Stderr, fmt.Sprintf("failed to load glossary: %v", err))
		} else if len(terms) > 0 {
			orch.WithGlossary(terms)
		}
		client = orchestrator.NewMemory(client, db, cfg.FuzzyThreshold)
	}

	return client, cleanup, nil
}
