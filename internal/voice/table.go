// Package voice holds the closed language-to-voice configuration table.
// Unknown language codes are rejected when a session starts, not at
// synthesis time.
package voice

import (
	"fmt"
	"strings"

	"github.com/vaanilabs/vaani-core/internal/config"
)

// Language is a broadcast language code.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageHindi   Language = "hindi"
	LanguageMarathi Language = "marathi"
	LanguageTamil   Language = "tamil"
	LanguageTelugu  Language = "telugu"
)

// Profile selects the synthesis voice and prosody offsets for one language.
type Profile struct {
	Language Language
	VoiceID  string
	Rate     string
	Pitch    string
	Volume   string
}

// Table maps every supported language to its voice profile.
type Table struct {
	profiles map[Language]Profile
}

// ParseLanguage validates a wire-level language string.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEnglish:
		return LanguageEnglish, nil
	case LanguageHindi:
		return LanguageHindi, nil
	case LanguageMarathi:
		return LanguageMarathi, nil
	case LanguageTamil:
		return LanguageTamil, nil
	case LanguageTelugu:
		return LanguageTelugu, nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

// DefaultTable returns the built-in anchor voices: Indian neural voices with
// an energetic delivery (faster rate, slightly raised pitch and volume).
func DefaultTable() *Table {
	profiles := map[Language]Profile{
		LanguageEnglish: {Language: LanguageEnglish, VoiceID: "en-IN-NeerjaNeural", Rate: "+15%", Pitch: "+5Hz", Volume: "+10%"},
		LanguageHindi:   {Language: LanguageHindi, VoiceID: "hi-IN-SwaraNeural", Rate: "+15%", Pitch: "+5Hz", Volume: "+10%"},
		LanguageMarathi: {Language: LanguageMarathi, VoiceID: "mr-IN-AarohiNeural", Rate: "+15%", Pitch: "+5Hz", Volume: "+10%"},
		LanguageTamil:   {Language: LanguageTamil, VoiceID: "ta-IN-PallaviNeural", Rate: "+15%", Pitch: "+5Hz", Volume: "+10%"},
		LanguageTelugu:  {Language: LanguageTelugu, VoiceID: "te-IN-ShrutiNeural", Rate: "+15%", Pitch: "+5Hz", Volume: "+10%"},
	}
	return &Table{profiles: profiles}
}

// TableFromConfig starts from the default table and applies overrides.
// An override naming an unsupported language is an error.
func TableFromConfig(overrides []config.VoiceConfig) (*Table, error) {
	t := DefaultTable()
	for _, v := range overrides {
		lang, err := ParseLanguage(v.Language)
		if err != nil {
			return nil, fmt.Errorf("voice override: %w", err)
		}
		p := t.profiles[lang]
		p.VoiceID = v.VoiceID
		if v.Rate != "" {
			p.Rate = v.Rate
		}
		if v.Pitch != "" {
			p.Pitch = v.Pitch
		}
		if v.Volume != "" {
			p.Volume = v.Volume
		}
		t.profiles[lang] = p
	}
	return t, nil
}

// Lookup returns the profile for lang, or an error for unknown codes.
func (t *Table) Lookup(lang Language) (Profile, error) {
	p, ok := t.profiles[lang]
	if !ok {
		return Profile{}, fmt.Errorf("no voice profile for language %q", lang)
	}
	return p, nil
}
