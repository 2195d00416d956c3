package protocol

import "time"

// StartReading asks the runtime to begin a broadcast from the top of the document.
type StartReading struct {
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
}

// StopReading ends the active broadcast.
type StopReading struct {
	SessionID string `json:"session_id"`
}

// QuestionMode pauses narration so the viewer can ask a question.
type QuestionMode struct {
	SessionID string `json:"session_id"`
}

// UserQuestion carries the viewer's question text.
type UserQuestion struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// ContinueReading resumes narration after a question pause.
type ContinueReading struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response,omitempty"`
}

// SetLanguage selects the broadcast language for subsequent sessions.
type SetLanguage struct {
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
}

// ReadingStarted confirms a broadcast is live.
type ReadingStarted struct {
	SessionID string    `json:"session_id"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

// NewsIntro carries the broadcast opening line.
type NewsIntro struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// NewsSentence carries one narration unit as it is spoken.
type NewsSentence struct {
	SessionID string  `json:"session_id"`
	Text      string  `json:"text"`
	Sequence  int     `json:"sequence"`
	HasMore   bool    `json:"has_more"`
	Progress  float64 `json:"progress"`
}

// SpeechStarted signals audio playback has begun for one utterance.
type SpeechStarted struct {
	SessionID  string `json:"session_id"`
	DurationMS int64  `json:"duration_ms"`
	MIMEType   string `json:"mime_type,omitempty"`
	Audio      []byte `json:"audio,omitempty"`
}

// SpeechEnded signals the current utterance finished playing.
type SpeechEnded struct {
	SessionID string `json:"session_id"`
}

// QuestionAnswer carries the composed answer to a viewer question.
type QuestionAnswer struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

// AskContinue prompts the viewer to resume the broadcast.
type AskContinue struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// NewsCompleted signals the document has been narrated to the end.
type NewsCompleted struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadingStopped acknowledges an explicit stop.
type ReadingStopped struct {
	SessionID string `json:"session_id"`
}

// LanguageSet acknowledges a language change.
type LanguageSet struct {
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
	Status    string `json:"status"`
}

// AvatarState instructs the presentation layer which video loop to show.
type AvatarState struct {
	SessionID   string `json:"session_id"`
	State       string `json:"state"`
	RestartLoop bool   `json:"restart_loop"`
	DurationMS  int64  `json:"duration_ms,omitempty"`
	Loops       int    `json:"loops,omitempty"`
}

const (
	SubjectStartReading    = "broadcast.reading.start"
	SubjectStopReading     = "broadcast.reading.stop"
	SubjectQuestionMode    = "broadcast.question.mode"
	SubjectUserQuestion    = "broadcast.question.text"
	SubjectContinueReading = "broadcast.reading.continue"
	SubjectSetLanguage     = "broadcast.language.set"

	SubjectReadingStarted = "broadcast.event.reading_started"
	SubjectNewsIntro      = "broadcast.event.news_intro"
	SubjectNewsSentence   = "broadcast.event.news_sentence"
	SubjectSpeechStarted  = "broadcast.event.speech_started"
	SubjectSpeechEnded    = "broadcast.event.speech_ended"
	SubjectQuestionAnswer = "broadcast.event.question_answer"
	SubjectAskContinue    = "broadcast.event.ask_continue"
	SubjectNewsCompleted  = "broadcast.event.news_completed"
	SubjectReadingStopped = "broadcast.event.reading_stopped"
	SubjectLanguageSet    = "broadcast.event.language_set"
	SubjectAvatarState    = "broadcast.event.avatar_state"
)
