// Package broadcast is the bus-facing surface of the newscast runtime. It
// turns inbound control messages into session operations and relays the
// session's outbound events to the transport subjects.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/vaanilabs/vaani-core/internal/avatar"
	"github.com/vaanilabs/vaani-core/internal/bus"
	"github.com/vaanilabs/vaani-core/internal/composer"
	"github.com/vaanilabs/vaani-core/internal/config"
	"github.com/vaanilabs/vaani-core/internal/eventstore"
	"github.com/vaanilabs/vaani-core/internal/protocol"
	"github.com/vaanilabs/vaani-core/internal/retrieval"
	"github.com/vaanilabs/vaani-core/internal/session"
	"github.com/vaanilabs/vaani-core/internal/tts"
	"github.com/vaanilabs/vaani-core/internal/voice"
)

// Deps carries the collaborators each session is built from. They are
// shared across sessions; the read-only chunk index inside Selector is the
// only process-wide shared structure.
type Deps struct {
	Store    *eventstore.Store
	Selector *retrieval.Selector
	Composer *composer.Composer
	Synth    tts.Synthesizer
	Voices   *voice.Table
	Document string
}

type Service struct {
	cfg    config.Config
	bus    *bus.Client
	deps   Deps
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	subs   []*nats.Subscription

	mu           sync.Mutex
	language     voice.Language
	current      *session.Orchestrator
	lastQuestion string

	sentencesSpoken   metric.Int64Counter
	questionsAnswered metric.Int64Counter
	sessionsStarted   metric.Int64Counter
}

func NewService(parent context.Context, cfg config.Config, busClient *bus.Client, deps Deps, logger *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(parent)
	lang, err := voice.ParseLanguage(cfg.Document.DefaultLanguage)
	if err != nil {
		lang = voice.LanguageEnglish
	}
	s := &Service{
		cfg:      cfg,
		bus:      busClient,
		deps:     deps,
		logger:   logger.With(slog.String("component", "broadcast")),
		ctx:      ctx,
		cancel:   cancel,
		language: lang,
	}
	s.initMetrics()
	return s
}

func (s *Service) initMetrics() {
	meter := otel.Meter("github.com/vaanilabs/vaani-core/broadcast")
	var err error
	if s.sentencesSpoken, err = meter.Int64Counter("vaani.broadcast.sentences_spoken",
		metric.WithDescription("Narration units spoken")); err != nil {
		s.logger.Warn("metric registration failed", slogError(err))
	}
	if s.questionsAnswered, err = meter.Int64Counter("vaani.broadcast.questions_answered",
		metric.WithDescription("Viewer questions answered")); err != nil {
		s.logger.Warn("metric registration failed", slogError(err))
	}
	if s.sessionsStarted, err = meter.Int64Counter("vaani.broadcast.sessions_started",
		metric.WithDescription("Broadcast sessions started")); err != nil {
		s.logger.Warn("metric registration failed", slogError(err))
	}
	gauge, err := meter.Int64ObservableGauge("vaani.broadcast.active_sessions",
		metric.WithDescription("Live broadcast sessions"))
	if err != nil {
		s.logger.Warn("metric registration failed", slogError(err))
		return
	}
	_, err = meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		s.mu.Lock()
		live := s.current != nil && !s.current.State().Terminal()
		s.mu.Unlock()
		var n int64
		if live {
			n = 1
		}
		obs.ObserveInt64(gauge, n)
		return nil
	}, gauge)
	if err != nil {
		s.logger.Warn("metric callback registration failed", slogError(err))
	}
}

func (s *Service) Start() error {
	handlers := []struct {
		subject string
		fn      nats.MsgHandler
	}{
		{protocol.SubjectStartReading, s.handleStartReading},
		{protocol.SubjectStopReading, s.handleStopReading},
		{protocol.SubjectQuestionMode, s.handleQuestionMode},
		{protocol.SubjectUserQuestion, s.handleUserQuestion},
		{protocol.SubjectContinueReading, s.handleContinueReading},
		{protocol.SubjectSetLanguage, s.handleSetLanguage},
	}
	for _, h := range handlers {
		sub, err := s.bus.Conn().Subscribe(h.subject, h.fn)
		if err != nil {
			for _, prev := range s.subs {
				_ = prev.Drain()
			}
			s.subs = nil
			return err
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

func (s *Service) Close() {
	s.cancel()
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current != nil && !current.State().Terminal() {
		_ = current.Stop()
	}
	for _, sub := range s.subs {
		_ = sub.Drain()
	}
	s.wg.Wait()
}

func (s *Service) Healthy() bool {
	return len(s.subs) == 6
}

func (s *Service) handleStartReading(msg *nats.Msg) {
	var req protocol.StartReading
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Warn("failed to decode start_reading", slogError(err))
		return
	}

	lang := s.defaultLanguage()
	if req.Language != "" {
		parsed, err := voice.ParseLanguage(req.Language)
		if err != nil {
			s.logger.Warn("rejected start_reading", slog.String("language", req.Language), slogError(err))
			return
		}
		lang = parsed
	}
	profile, err := s.deps.Voices.Lookup(lang)
	if err != nil {
		s.logger.Warn("no voice profile for language", slog.String("language", string(lang)), slogError(err))
		return
	}

	s.mu.Lock()
	if s.current != nil && !s.current.State().Terminal() {
		s.mu.Unlock()
		s.logger.Warn("start_reading ignored, broadcast already live")
		return
	}

	emitter := &busEmitter{svc: s}
	orch := session.New(session.Options{
		Language:         lang,
		Profile:          profile,
		WordsPerMinute:   s.cfg.TTS.WordsPerMinute,
		MinSentenceWords: s.cfg.Broadcast.MinSentenceWords,
		TopK:             s.cfg.Retrieval.TopK,
		IntroEnabled:     s.cfg.Broadcast.IntroEnabled,
		ContinuePrompt:   s.cfg.Broadcast.ContinuePrompt,
	}, session.Deps{
		Selector: s.deps.Selector,
		Composer: s.deps.Composer,
		Synth:    s.deps.Synth,
		Avatar:   avatar.NewScheduler(s.cfg.Avatar.TalkLoop(), s.cfg.Avatar.ListenLoop()),
		Emitter:  emitter,
		Logger:   s.logger,
	})
	emitter.sessionID = orch.ID()
	s.current = orch
	s.lastQuestion = ""
	s.mu.Unlock()

	if s.sessionsStarted != nil {
		s.sessionsStarted.Add(s.ctx, 1)
	}
	if err := s.deps.Store.BeginSession(s.ctx, orch.ID(), string(lang), s.cfg.Document.Path); err != nil {
		s.logger.Warn("failed to record session start", slogError(err))
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := orch.Start(s.ctx, s.deps.Document); err != nil {
			s.logger.Warn("session start failed", slogError(err))
			return
		}
		orch.Run(s.ctx)
	}()
}

func (s *Service) handleStopReading(msg *nats.Msg) {
	orch := s.liveSession()
	if orch == nil {
		return
	}
	if err := orch.Stop(); err != nil {
		s.logger.Warn("stop_reading ignored", slogError(err))
	}
}

func (s *Service) handleQuestionMode(msg *nats.Msg) {
	orch := s.liveSession()
	if orch == nil {
		return
	}
	if err := orch.Interrupt(""); err != nil {
		s.logger.Warn("question_mode ignored", slogError(err))
	}
}

func (s *Service) handleUserQuestion(msg *nats.Msg) {
	var req protocol.UserQuestion
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Warn("failed to decode user_question", slogError(err))
		return
	}
	orch := s.liveSession()
	if orch == nil {
		return
	}

	// Reading sessions pause implicitly when the question arrives without
	// a preceding question_mode message.
	if err := orch.SubmitQuestion(req.Question); err != nil {
		if err := orch.Interrupt(req.Question); err != nil {
			s.logger.Warn("user_question ignored", slogError(err))
			return
		}
	}
	s.mu.Lock()
	s.lastQuestion = req.Question
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := orch.AnswerAndResume(s.ctx); err != nil {
			s.logger.Warn("answer failed", slogError(err))
			return
		}
		if s.questionsAnswered != nil {
			s.questionsAnswered.Add(s.ctx, 1)
		}
	}()
}

func (s *Service) handleContinueReading(msg *nats.Msg) {
	orch := s.liveSession()
	if orch == nil {
		return
	}
	if err := orch.Resume(); err != nil && !errors.Is(err, session.ErrInvalidTransition) {
		s.logger.Warn("continue_reading failed", slogError(err))
	}
}

func (s *Service) handleSetLanguage(msg *nats.Msg) {
	var req protocol.SetLanguage
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Warn("failed to decode set_language", slogError(err))
		return
	}

	ack := protocol.LanguageSet{SessionID: req.SessionID, Language: req.Language, Status: "ok"}
	parsed, err := voice.ParseLanguage(req.Language)
	if err != nil {
		ack.Status = "unsupported"
		s.logger.Warn("set_language rejected", slog.String("language", req.Language), slogError(err))
	} else if _, err := s.deps.Voices.Lookup(parsed); err != nil {
		ack.Status = "unsupported"
		s.logger.Warn("set_language rejected, no voice profile", slog.String("language", req.Language))
	} else {
		s.mu.Lock()
		s.language = parsed
		s.mu.Unlock()
		s.logger.Info("broadcast language set", slog.String("language", string(parsed)))
	}
	s.publish(protocol.SubjectLanguageSet, ack)
}

func (s *Service) liveSession() *session.Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.State().Terminal() {
		return nil
	}
	return s.current
}

func (s *Service) defaultLanguage() voice.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *Service) publish(subject string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("failed to encode event", slog.String("subject", subject), slogError(err))
		return
	}
	if err := s.bus.Conn().Publish(subject, data); err != nil {
		s.logger.Warn("event publish failed", slog.String("subject", subject), slogError(err))
	}
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
