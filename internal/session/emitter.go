package session

import (
	"github.com/vaanilabs/vaani-core/internal/avatar"
	"github.com/vaanilabs/vaani-core/internal/narration"
	"github.com/vaanilabs/vaani-core/internal/tts"
	"github.com/vaanilabs/vaani-core/internal/voice"
)

// Emitter is the transport boundary. Calls are fire and forget: an
// implementation must not block the narration loop and must swallow its own
// delivery failures, reporting them out of band.
type Emitter interface {
	ReadingStarted(sessionID string, language voice.Language)
	NewsIntro(text string)
	NewsSentence(unit narration.Unit, hasMore bool, progress int)
	SpeechStarted(clip tts.Clip)
	SpeechEnded()
	QuestionAnswer(text string)
	AskContinue(text string)
	NewsCompleted()
	ReadingStopped()
	AvatarState(in avatar.Instruction)
}

// NopEmitter discards every event.
type NopEmitter struct{}

func (NopEmitter) ReadingStarted(string, voice.Language)     {}
func (NopEmitter) NewsIntro(string)                          {}
func (NopEmitter) NewsSentence(narration.Unit, bool, int)    {}
func (NopEmitter) SpeechStarted(tts.Clip)                    {}
func (NopEmitter) SpeechEnded()                              {}
func (NopEmitter) QuestionAnswer(string)                     {}
func (NopEmitter) AskContinue(string)                        {}
func (NopEmitter) NewsCompleted()                            {}
func (NopEmitter) ReadingStopped()                           {}
func (NopEmitter) AvatarState(avatar.Instruction)            {}
