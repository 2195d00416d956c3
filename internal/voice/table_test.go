package voice

import (
	"testing"

	"github.com/vaanilabs/vaani-core/internal/config"
)

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("  Hindi ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lang != LanguageHindi {
		t.Fatalf("got %q", lang)
	}
	if _, err := ParseLanguage("klingon"); err == nil {
		t.Fatal("expected error for unknown language")
	}
}

func TestDefaultTableCoversAllLanguages(t *testing.T) {
	table := DefaultTable()
	for _, lang := range []Language{LanguageEnglish, LanguageHindi, LanguageMarathi, LanguageTamil, LanguageTelugu} {
		p, err := table.Lookup(lang)
		if err != nil {
			t.Fatalf("missing profile for %s: %v", lang, err)
		}
		if p.VoiceID == "" {
			t.Fatalf("empty voice id for %s", lang)
		}
	}
}

func TestTableFromConfigOverrides(t *testing.T) {
	table, err := TableFromConfig([]config.VoiceConfig{
		{Language: "english", VoiceID: "en-GB-SoniaNeural", Rate: "+0%"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := table.Lookup(LanguageEnglish)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.VoiceID != "en-GB-SoniaNeural" || p.Rate != "+0%" {
		t.Fatalf("override not applied: %+v", p)
	}
	// untouched fields keep defaults
	if p.Pitch != "+5Hz" {
		t.Fatalf("expected default pitch, got %q", p.Pitch)
	}
}

func TestTableFromConfigRejectsUnknownLanguage(t *testing.T) {
	if _, err := TableFromConfig([]config.VoiceConfig{{Language: "latin", VoiceID: "x"}}); err == nil {
		t.Fatal("expected error for unknown language override")
	}
}
