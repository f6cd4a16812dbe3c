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
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valpere/locwalk/internal"
	"github.com/valpere/locwalk/internal/config"
	"github.com/valpere/locwalk/internal/display"
	"github.com/valpere/locwalk/internal/orchestrator"
	"github.com/valpere/locwalk/internal/translator"
)

// newOllama serves /api/generate from a fixed dictionary and counts requests.
func newOllama(t *testing.T, dict map[string]string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, ok := dict[req.Prompt]
		if !ok {
			http.Error(w, "unknown text", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"response": out})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Lang.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(path, ollamaURL string) *config.Config {
	return &config.Config{
		Path:       path,
		TargetLang: "uk",
		Services:   []string{"ollama"},
		OllamaURL:  ollamaURL,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		Timeout:    5 * time.Second,
	}
}

func runTestWalk(t *testing.T, cfg *config.Config, input string) (string, string, error) {
	t.Helper()
	return runStyledWalk(t, cfg, input, display.Painter{})
}

func runStyledWalk(t *testing.T, cfg *config.Config, input string, painter display.Painter) (string, string, error) {
	t.Helper()
	var out, diag bytes.Buffer
	err := walk(context.Background(), cfg, console{
		in:      strings.NewReader(input),
		out:     bufio.NewWriter(&out),
		diag:    &diag,
		painter: painter,
	})
	return out.String(), diag.String(), err
}

func TestWalkAcceptAndManual(t *testing.T) {
	var hits int32
	srv := newOllama(t, map[string]string{"Fan": "Вентилятор", "Quit": "Вихід"}, &hits)
	path := writeTemplate(t, `<Root><String Key="A">Fan</String><String Key="B">Quit</String></Root>`)

	out, diag, err := runTestWalk(t, testConfig(path, srv.URL), "y\nn\nЗакрити\n")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	want := `<Root><String Key="A">Вентилятор</String><String Key="B">Закрити</String></Root>`
	if !strings.HasSuffix(strings.TrimSpace(out), want) {
		t.Errorf("output does not end with document\n got: %q\nwant suffix: %q", out, want)
	}
	if !strings.Contains(out, "Original text:Fan") || !strings.Contains(out, "Translated text:Вентилятор") {
		t.Errorf("prompt lines missing from output: %q", out)
	}
	if !strings.Contains(diag, "2 prompted") {
		t.Errorf("summary missing from diagnostics: %q", diag)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("backend hits = %d, want 2", got)
	}
}

func TestWalkQuitPrintsPartialOutput(t *testing.T) {
	var hits int32
	srv := newOllama(t, map[string]string{"Fan": "Вентилятор", "Quit": "Вихід"}, &hits)
	path := writeTemplate(t, `<Root><String Key="A">Fan</String><String Key="B">Quit</String></Root>`)

	out, diag, err := runTestWalk(t, testConfig(path, srv.URL), "y\nq\n")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	want := `<Root><String Key="A">Вентилятор</String><String Key="B">`
	if !strings.HasSuffix(strings.TrimSpace(out), want) {
		t.Errorf("got %q, want suffix %q", out, want)
	}
	if !strings.Contains(diag, "Quit") {
		t.Errorf("expected quit summary, got %q", diag)
	}
}

func TestWalkReusesApprovedTranslations(t *testing.T) {
	var hits int32
	srv := newOllama(t, map[string]string{"Fan": "Вентилятор"}, &hits)
	path := writeTemplate(t, `<Root><String Key="A">Fan</String></Root>`)

	cfg := testConfig(path, srv.URL)
	cfg.Memory = filepath.Join(t.TempDir(), "memory.db")

	if _, _, err := runTestWalk(t, cfg, "n\nОбдув\n"); err != nil {
		t.Fatalf("first walk: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("backend hits after first walk = %d, want 1", got)
	}

	out, _, err := runTestWalk(t, cfg, "y\n")
	if err != nil {
		t.Fatalf("second walk: %v", err)
	}
	if !strings.Contains(out, "Translated text:Обдув") {
		t.Errorf("expected remembered candidate, got %q", out)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("backend hits after second walk = %d, want 1", got)
	}
}

func TestWalkStyledPrompt(t *testing.T) {
	var hits int32
	srv := newOllama(t, map[string]string{"Fan": "Вентилятор"}, &hits)
	path := writeTemplate(t, `<Root><String Key="A">Fan</String></Root>`)

	out, _, err := runStyledWalk(t, testConfig(path, srv.URL), "y\n", display.Painter{Enabled: true})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	label := display.LabelStyle.Render("Translated text:") + display.CandidateStyle.Render("Вентилятор")
	if !strings.Contains(out, label) {
		t.Errorf("expected styled candidate line %q in %q", label, out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), `<Root><String Key="A">Вентилятор</String></Root>`) {
		t.Errorf("document must stay unstyled, got %q", out)
	}
}

func TestWalkReportsSession(t *testing.T) {
	var hits int32
	srv := newOllama(t, map[string]string{"Fan": "Вентилятор"}, &hits)
	path := writeTemplate(t, `<Root><String Key="A">Fan</String></Root>`)
	cfg := testConfig(path, srv.URL)

	_, diag, err := runTestWalk(t, cfg, "y\n")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if strings.Contains(diag, "session") {
		t.Errorf("no session expected without a memory database, got %q", diag)
	}

	cfg.Memory = filepath.Join(t.TempDir(), "memory.db")
	_, diag, err = runTestWalk(t, cfg, "y\n")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !strings.Contains(diag, "locwalk memory decisions ") {
		t.Errorf("expected session hint in diagnostics, got %q", diag)
	}
}

func TestWriteDecisions(t *testing.T) {
	var buf bytes.Buffer
	err := writeDecisions(&buf, []internal.DecisionRecord{
		{Key: "FanMax", SourceText: "Fan", Candidate: "Вентилятор", FinalText: "Обдув", Decision: "manual"},
		{Key: "Quit", SourceText: "Quit", Candidate: "Вихід", FinalText: "Quit", Decision: "skip"},
	})
	if err != nil {
		t.Fatalf("writeDecisions: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "FanMax") || !strings.Contains(lines[1], "manual") || !strings.Contains(lines[1], "Обдув") {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Quit") || !strings.Contains(lines[2], "skip") {
		t.Errorf("unexpected second row %q", lines[2])
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := &config.Config{
		Credentials: "creds.json",
		GoogleKey:   "gkey",
		OllamaModel: "gemma2:2b",
		OpenAIModel: "gpt-4o",
		Timeout:     30 * time.Second,
		LLMTimeout:  2 * time.Minute,
	}

	tests := []struct {
		name string
		want translator.ServiceConfig
	}{
		{"google", translator.ServiceConfig{Credentials: "creds.json", APIKey: "gkey", Timeout: 30 * time.Second}},
		{"ollama", translator.ServiceConfig{Model: "gemma2:2b", Timeout: 2 * time.Minute}},
		{"openai", translator.ServiceConfig{Model: "gpt-4o", Timeout: 2 * time.Minute}},
		{"gtranslate", translator.ServiceConfig{Timeout: 30 * time.Second}},
		{"mymemory", translator.ServiceConfig{Timeout: 30 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serviceConfig(tt.name, cfg); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildOrchestratorAppliesServiceTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig("", srv.URL)
	cfg.LLMTimeout = 50 * time.Millisecond

	orch, err := buildOrchestrator(cfg)
	if err != nil {
		t.Fatalf("buildOrchestrator: %v", err)
	}
	if names := orch.Services(); len(names) != 1 || names[0] != "ollama" {
		t.Fatalf("unexpected services %v", names)
	}

	start := time.Now()
	_, err = orch.Translate(orchestrator.WithResourceKey(context.Background(), "A"), "Fan", "uk")
	if err == nil {
		t.Fatal("expected the slow backend to time out")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ollama timeout not applied, call took %v", elapsed)
	}
}

func TestWalkErrors(t *testing.T) {
	var hits int32
	srv := newOllama(t, map[string]string{}, &hits)

	tests := []struct {
		name     string
		template string
		missing  bool
		input    string
		kind     string
	}{
		{name: "missing file", missing: true, kind: "IoError"},
		{name: "malformed", template: `<Root><String Key=A>Fan</String></Root>`, input: "y\n", kind: "MalformedInput"},
		{name: "backend fails", template: `<Root><String Key="A">Fan</String></Root>`, input: "y\n", kind: "TranslationError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.xml")
			if !tt.missing {
				path = writeTemplate(t, tt.template)
			}
			out, _, err := runTestWalk(t, testConfig(path, srv.URL), tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := internal.Kind(err); got != tt.kind {
				t.Errorf("kind = %q, want %q (%v)", got, tt.kind, err)
			}
			if strings.Contains(out, "<Root>") {
				t.Errorf("no document expected on error, got %q", out)
			}
		})
	}
}

func TestWalkStdinClosedIsIOError(t *testing.T) {
	var hits int32
	srv := newOllama(t, map[string]string{"Fan": "Вентилятор"}, &hits)
	path := writeTemplate(t, `<Root><String Key="A">Fan</String></Root>`)

	_, _, err := runTestWalk(t, testConfig(path, srv.URL), "")
	var ioErr *internal.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
}

func TestBuildServices(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		want    []string
		wantErr bool
	}{
		{name: "default", cfg: config.Config{Services: []string{"gtranslate"}}, want: []string{"gtranslate"}},
		{name: "ordered", cfg: config.Config{Services: []string{"ollama", "mymemory", "google"}}, want: []string{"ollama", "mymemory", "google"}},
		{name: "unknown skipped", cfg: config.Config{Services: []string{"deepl", "systran"}}, want: []string{"systran"}},
		{name: "openai needs key", cfg: config.Config{Services: []string{"openai"}}, wantErr: true},
		{name: "openai", cfg: config.Config{Services: []string{"openai"}, OpenAIKey: "sk-test"}, want: []string{"openai"}},
		{name: "nothing usable", cfg: config.Config{Services: []string{"deepl"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildServices(&tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d services, want %d", len(got), len(tt.want))
			}
			for i, svc := range got {
				if svc.Name() != tt.want[i] {
					t.Errorf("service %d = %q, want %q", i, svc.Name(), tt.want[i])
				}
			}
		})
	}
}
