package detector

import (
	"testing"
)

func TestDetector_DetectISO(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantOK   bool
	}{
		{"empty text", "", "", false},
		{"english text", "Hello, this is a test in English.", "EN", true},
		{"ukrainian text", "Привіт, це тест українською мовою.", "UK", true},
		{"german text", "Hallo, das ist ein Test auf Deutsch.", "DE", true},
		{"french text", "Bonjour, ceci est un test en français.", "FR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.DetectISO(tt.text)
			if ok != tt.wantOK {
				t.Errorf("DetectISO(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && code != tt.wantCode {
				t.Errorf("DetectISO(%q) = %q, want %q", tt.text, code, tt.wantCode)
			}
		})
	}
}

func TestNewFor_RestrictedPair(t *testing.T) {
	d := NewFor("en", "de")

	tests := []struct {
		text     string
		wantCode string
	}{
		{"Fan control settings", "EN"},
		{"Lüftersteuerung Einstellungen", "DE"},
	}

	for _, tt := range tests {
		code, ok := d.DetectISO(tt.text)
		if !ok || code != tt.wantCode {
			t.Errorf("DetectISO(%q) = %q (%v), want %q", tt.text, code, ok, tt.wantCode)
		}
	}
}

func TestLanguageOf(t *testing.T) {
	tests := []struct {
		code   string
		wantOK bool
	}{
		{"en", true},
		{"UK", true},
		{"pt-BR", true},
		{"zh_CN", true},
		{"xx", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, ok := languageOf(tt.code); ok != tt.wantOK {
			t.Errorf("languageOf(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
		}
	}
}
