package composer

import (
	"fmt"
	"strings"

	"github.com/vaanilabs/vaani-core/internal/voice"
)

const anchorPersona = `You are a professional news anchor answering viewer questions from official documents.
Speak with clarity and confidence, in natural broadcasting language.
Keep answers to 2-3 sentences. Use phrases like "According to the document..."
or "The records indicate...". Only present facts found in the document;
if the answer is not there, say so professionally.`

// FallbackAnswer is spoken when the language model is unavailable.
const FallbackAnswer = "I could not retrieve an answer right now. Please try again in a moment."

var intros = map[voice.Language]string{
	voice.LanguageEnglish: "Welcome to the news! Today's big story from official documents!",
	voice.LanguageHindi:   "नमस्कार! आज की बड़ी खबर आधिकारिक दस्तावेजों से!",
	voice.LanguageMarathi: "नमस्कार! आज ची मोठी बातमी अधिकृत कागदपत्रांमधून!",
	voice.LanguageTamil:   "வணக்கம்! அதிகாரப்பூர்வ ஆவணங்களிலிருந்து இன்றைய பெரிய செய்தி!",
	voice.LanguageTelugu:  "నమస్కారం! అధికారిక పత్రాల నుండి నేటి పెద్ద వార్త!",
}

var continuePrompts = map[voice.Language]string{
	voice.LanguageEnglish: "Can we continue with the news?",
	voice.LanguageHindi:   "क्या हम समाचार जारी रखें?",
	voice.LanguageMarathi: "आम्ही बातम्या सुरू ठेवू का?",
	voice.LanguageTamil:   "நாம் செய்திகளைத் தொடரலாமா?",
	voice.LanguageTelugu:  "మనం వార్తలను కొనసాగించవచ్చా?",
}

var languageNames = map[voice.Language]string{
	voice.LanguageHindi:   "Hindi",
	voice.LanguageMarathi: "Marathi",
	voice.LanguageTamil:   "Tamil",
	voice.LanguageTelugu:  "Telugu",
}

// Intro returns the broadcast opening line for lang.
func Intro(lang voice.Language) string {
	if s, ok := intros[lang]; ok {
		return s
	}
	return intros[voice.LanguageEnglish]
}

// ContinuePrompt returns the resume question for lang.
func ContinuePrompt(lang voice.Language) string {
	if s, ok := continuePrompts[lang]; ok {
		return s
	}
	return continuePrompts[voice.LanguageEnglish]
}

func answerPrompt(question, context string) string {
	var b strings.Builder
	b.WriteString("Official Document Content:\n")
	b.WriteString(context)
	b.WriteString("\n\nViewer Question: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer from the document content above, in 2-3 sentences:")
	return b.String()
}

func translatePrompt(text string, lang voice.Language) string {
	name := languageNames[lang]
	return fmt.Sprintf(`Translate the following English text to %s.
Maintain the same meaning, structure, and professional tone.
Translate naturally as it would appear in official documents in %s.

Text to translate:
%s

Translation:`, name, name, text)
}
