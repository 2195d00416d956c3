package broadcast

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/vaanilabs/vaani-core/internal/avatar"
	"github.com/vaanilabs/vaani-core/internal/eventstore"
	"github.com/vaanilabs/vaani-core/internal/narration"
	"github.com/vaanilabs/vaani-core/internal/protocol"
	"github.com/vaanilabs/vaani-core/internal/tts"
	"github.com/vaanilabs/vaani-core/internal/voice"
)

// busEmitter relays session events to the transport subjects and to the
// event store. Delivery is best effort; failures are logged and never fed
// back into the session.
type busEmitter struct {
	svc       *Service
	sessionID string
}

func (e *busEmitter) emit(subject, eventType string, v any) {
	e.svc.publish(subject, v)
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := e.svc.deps.Store.AppendEvent(e.svc.ctx, eventstore.Event{
		SessionID: e.sessionID,
		Type:      eventType,
		Payload:   payload,
	}); err != nil {
		e.svc.logger.Warn("failed to record event", slog.String("type", eventType), slogError(err))
	}
}

func (e *busEmitter) ReadingStarted(sessionID string, lang voice.Language) {
	e.emit(protocol.SubjectReadingStarted, "reading_started", protocol.ReadingStarted{
		SessionID: sessionID,
		Language:  string(lang),
		Timestamp: time.Now().UTC(),
	})
}

func (e *busEmitter) NewsIntro(text string) {
	e.emit(protocol.SubjectNewsIntro, "news_intro", protocol.NewsIntro{
		SessionID: e.sessionID,
		Text:      text,
	})
}

func (e *busEmitter) NewsSentence(unit narration.Unit, hasMore bool, progress int) {
	if e.svc.sentencesSpoken != nil {
		e.svc.sentencesSpoken.Add(e.svc.ctx, 1)
	}
	e.emit(protocol.SubjectNewsSentence, "news_sentence", protocol.NewsSentence{
		SessionID: e.sessionID,
		Text:      unit.Text,
		Sequence:  unit.Sequence,
		HasMore:   hasMore,
		Progress:  float64(progress),
	})
}

func (e *busEmitter) SpeechStarted(clip tts.Clip) {
	evt := protocol.SpeechStarted{
		SessionID:  e.sessionID,
		DurationMS: clip.Duration.Milliseconds(),
		MIMEType:   clip.MIMEType,
		Audio:      clip.Audio,
	}
	e.svc.publish(protocol.SubjectSpeechStarted, evt)

	// audio bytes stay out of the timeline store
	evt.Audio = nil
	if payload, err := json.Marshal(evt); err == nil {
		if err := e.svc.deps.Store.AppendEvent(e.svc.ctx, eventstore.Event{
			SessionID: e.sessionID,
			Type:      "speech_started",
			Payload:   payload,
		}); err != nil {
			e.svc.logger.Warn("failed to record event", slog.String("type", "speech_started"), slogError(err))
		}
	}
}

func (e *busEmitter) SpeechEnded() {
	e.emit(protocol.SubjectSpeechEnded, "speech_ended", protocol.SpeechEnded{SessionID: e.sessionID})
}

func (e *busEmitter) QuestionAnswer(answer string) {
	e.svc.mu.Lock()
	question := e.svc.lastQuestion
	e.svc.mu.Unlock()
	e.emit(protocol.SubjectQuestionAnswer, "question_answer", protocol.QuestionAnswer{
		SessionID: e.sessionID,
		Question:  question,
		Answer:    answer,
	})
}

func (e *busEmitter) AskContinue(text string) {
	e.emit(protocol.SubjectAskContinue, "ask_continue", protocol.AskContinue{
		SessionID: e.sessionID,
		Text:      text,
	})
}

func (e *busEmitter) NewsCompleted() {
	e.emit(protocol.SubjectNewsCompleted, "news_completed", protocol.NewsCompleted{
		SessionID: e.sessionID,
		Timestamp: time.Now().UTC(),
	})
}

func (e *busEmitter) ReadingStopped() {
	e.emit(protocol.SubjectReadingStopped, "reading_stopped", protocol.ReadingStopped{SessionID: e.sessionID})
}

func (e *busEmitter) AvatarState(in avatar.Instruction) {
	e.svc.publish(protocol.SubjectAvatarState, protocol.AvatarState{
		SessionID:   e.sessionID,
		State:       string(in.State),
		RestartLoop: in.RestartLoop,
		DurationMS:  in.Duration.Milliseconds(),
		Loops:       in.Loops,
	})
}
