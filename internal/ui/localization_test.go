package ui

import (
	"testing"
)

func TestLocalizationDefaultsToEnglish(t *testing.T) {
	l := NewLocalization()

	if got := l.GetCurrentLanguage(); got != "en" {
		t.Errorf("Expected default language 'en', got %s", got)
	}
	if got := l.GetText(KeyGetData); got != "Get data" {
		t.Errorf("Expected 'Get data', got %s", got)
	}
}

func TestLocalizationSetLanguage(t *testing.T) {
	l := NewLocalization()

	l.SetLanguage("de")
	if got := l.GetCurrentLanguage(); got != "de" {
		t.Fatalf("Expected language 'de', got %s", got)
	}
	if got := l.GetText(KeyGetData); got != "Daten holen" {
		t.Errorf("Expected German text, got %s", got)
	}

	// Regional variants match the base language
	l.SetLanguage("de-AT")
	if got := l.GetCurrentLanguage(); got != "de" {
		t.Errorf("Expected 'de' for de-AT, got %s", got)
	}

	// Unsupported languages fall back to English
	l.SetLanguage("ja")
	if got := l.GetCurrentLanguage(); got != "en" {
		t.Errorf("Expected fallback to 'en', got %s", got)
	}
}

func TestLocalizationUnknownKey(t *testing.T) {
	l := NewLocalization()
	if got := l.GetText("no_such_key"); got != "no_such_key" {
		t.Errorf("Expected key itself for unknown key, got %s", got)
	}
}

func TestLocalizationFormat(t *testing.T) {
	l := NewLocalization()

	got := l.Format(KeyStatusConnected, map[string]string{
		"Server": "mb.cmbt.de",
		"URL":    "http://mb.cmbt.de/api/data/DE/Cases?",
	})
	expected := "Connected to mb.cmbt.de. Request URL is: http://mb.cmbt.de/api/data/DE/Cases?"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestLocalesHaveSameKeys(t *testing.T) {
	l := NewLocalization()
	en := map[string]bool{}

	for _, key := range []string{KeyAppTitle, KeyGetData, KeySavePlot, KeyStatusNoResponse, KeyErrorInvalidN, KeyOpen} {
		l.SetLanguage("en")
		english := l.GetText(key)
		en[key] = english != key

		l.SetLanguage("de")
		if german := l.GetText(key); german == key {
			t.Errorf("Missing German translation for %s", key)
		}
	}

	for key, ok := range en {
		if !ok {
			t.Errorf("Missing English translation for %s", key)
		}
	}
}

func TestGetAvailableLanguages(t *testing.T) {
	langs := NewLocalization().GetAvailableLanguages()
	if langs["en"] != "English" || langs["de"] != "Deutsch" {
		t.Errorf("Unexpected languages %v", langs)
	}
	if len(langs) != 2 {
		t.Errorf("Expected 2 languages, got %d", len(langs))
	}
}
