package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaanilabs/vaani-core/internal/avatar"
	"github.com/vaanilabs/vaani-core/internal/composer"
	"github.com/vaanilabs/vaani-core/internal/narration"
	"github.com/vaanilabs/vaani-core/internal/retrieval"
	"github.com/vaanilabs/vaani-core/internal/tts"
	"github.com/vaanilabs/vaani-core/internal/voice"
)

// Options fixes the per-session parameters at creation time.
type Options struct {
	Language         voice.Language
	Profile          voice.Profile
	WordsPerMinute   int
	MinSentenceWords int
	TopK             int
	IntroEnabled     bool
	ContinuePrompt   bool
}

// Deps are the collaborators the orchestrator drives. All speech flows
// through Synth, all retrieval through Selector, all answer and translation
// text through Composer.
type Deps struct {
	Selector *retrieval.Selector
	Composer *composer.Composer
	Synth    tts.Synthesizer
	Avatar   *avatar.Scheduler
	Emitter  Emitter
	Logger   *slog.Logger
}

// Orchestrator is the session state machine. It owns the narration cursor
// and serializes every synthesis call; collaborator failures never reach
// the state machine, only their documented fallbacks do.
type Orchestrator struct {
	id       string
	opts     Options
	selector *retrieval.Selector
	comp     *composer.Composer
	synth    tts.Synthesizer
	sched    *avatar.Scheduler
	emit     Emitter
	logger   *slog.Logger

	mu              sync.Mutex
	state           State
	units           []narration.Unit
	cursor          int
	pendingQuestion string

	// synthMu enforces at most one outstanding synthesis per session,
	// whether for a narration unit or an answer.
	synthMu sync.Mutex

	kick     chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once

	// wait blocks for the playback window; tests replace it.
	wait func(ctx context.Context, d time.Duration) bool
}

func New(opts Options, deps Deps) *Orchestrator {
	if opts.WordsPerMinute <= 0 {
		opts.WordsPerMinute = 140
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Emitter == nil {
		deps.Emitter = NopEmitter{}
	}
	o := &Orchestrator{
		id:       uuid.NewString(),
		opts:     opts,
		selector: deps.Selector,
		comp:     deps.Composer,
		synth:    deps.Synth,
		sched:    deps.Avatar,
		emit:     deps.Emitter,
		logger:   deps.Logger.With(slog.String("component", "session")),
		state:    StateIdle,
		kick:     make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
	o.wait = func(ctx context.Context, d time.Duration) bool {
		if d <= 0 {
			return true
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return true
		case <-ctx.Done():
			return false
		case <-o.stopCh:
			return false
		}
	}
	return o
}

func (o *Orchestrator) ID() string { return o.id }

func (o *Orchestrator) Language() voice.Language { return o.opts.Language }

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Cursor is the sequence number of the next narration unit to deliver.
func (o *Orchestrator) Cursor() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cursor
}

// Start translates the document when a non-English language is selected,
// segments it into narration units and moves the session to reading. The
// intro line, when enabled, is spoken before the first unit.
func (o *Orchestrator) Start(ctx context.Context, documentText string) error {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, o.state)
	}
	o.mu.Unlock()

	text := documentText
	if o.opts.Language != voice.LanguageEnglish && o.comp != nil {
		text = o.comp.Translate(ctx, documentText, o.opts.Language)
	}
	units := narration.Segment(text, o.opts.MinSentenceWords)

	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, o.state)
	}
	o.units = units
	o.state = StateReading
	o.mu.Unlock()

	o.emit.ReadingStarted(o.id, o.opts.Language)
	o.logger.Info("reading started",
		slog.String("session_id", o.id),
		slog.String("language", string(o.opts.Language)),
		slog.Int("units", len(units)))

	if o.opts.IntroEnabled {
		intro := composer.Intro(o.opts.Language)
		o.emit.NewsIntro(intro)
		o.speak(ctx, intro)
	}
	return nil
}

// DeliverNext synthesizes and emits the unit at the cursor, then advances.
// It reports whether the reading loop should call it again. Synthesis
// failure skips the unit; an interrupt or stop that lands while audio is in
// flight discards the result without advancing, so the same unit is the
// resume point and nothing is spoken twice.
func (o *Orchestrator) DeliverNext(ctx context.Context) bool {
	o.mu.Lock()
	if o.state != StateReading {
		o.mu.Unlock()
		return false
	}
	if o.cursor >= len(o.units) {
		o.state = StateCompleted
		o.mu.Unlock()
		o.emit.NewsCompleted()
		return false
	}
	unit := o.units[o.cursor]
	total := len(o.units)
	o.mu.Unlock()

	o.synthMu.Lock()
	clip, err := o.synth.Synthesize(ctx, tts.SynthRequest{
		SessionID: o.id,
		Text:      unit.Text,
		Profile:   o.opts.Profile,
	})
	o.synthMu.Unlock()

	if err != nil {
		o.logger.Error("synthesis failed, skipping unit",
			slog.Int("sequence", unit.Sequence), slogError(err))
		o.mu.Lock()
		advance := o.state == StateReading
		if advance {
			o.cursor++
		}
		o.mu.Unlock()
		return advance
	}

	o.mu.Lock()
	if o.state != StateReading {
		// Interrupted or stopped while synthesis was in flight. The clip
		// is discarded and the cursor stays put.
		o.mu.Unlock()
		return false
	}
	hasMore := o.cursor+1 < total
	progress := (o.cursor + 1) * 100 / total
	o.mu.Unlock()

	o.emit.NewsSentence(unit, hasMore, progress)
	d := playbackDuration(clip, unit.Text, o.opts.WordsPerMinute)
	for _, in := range o.sched.SpeechStart(d) {
		o.emit.AvatarState(in)
	}
	o.emit.SpeechStarted(clip)
	o.wait(ctx, d)
	o.emit.SpeechEnded()
	o.emit.AvatarState(o.sched.SpeechEnd())

	o.mu.Lock()
	if o.state == StateStopped {
		o.mu.Unlock()
		return false
	}
	o.cursor++
	completed := o.cursor >= len(o.units) && o.state == StateReading
	if completed {
		o.state = StateCompleted
	}
	reading := o.state == StateReading
	o.mu.Unlock()

	if completed {
		o.emit.NewsCompleted()
	}
	return reading
}

// Interrupt pauses narration for a question. Only valid while reading; the
// cursor is untouched so delivery resumes at the interrupted unit.
func (o *Orchestrator) Interrupt(question string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateReading {
		return fmt.Errorf("%w: interrupt from %s", ErrInvalidTransition, o.state)
	}
	o.state = StatePausedForQuestion
	o.pendingQuestion = strings.TrimSpace(question)
	return nil
}

// SubmitQuestion records the question text while paused. The transport
// sends the pause and the question as separate events.
func (o *Orchestrator) SubmitQuestion(question string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StatePausedForQuestion {
		return fmt.Errorf("%w: question from %s", ErrInvalidTransition, o.state)
	}
	o.pendingQuestion = strings.TrimSpace(question)
	return nil
}

// AnswerAndResume runs retrieval and composition for the pending question,
// speaks the answer out of band, then returns the session to reading at the
// unchanged cursor. The composer guarantees non-empty answer text even when
// every collaborator fails.
func (o *Orchestrator) AnswerAndResume(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StatePausedForQuestion {
		o.mu.Unlock()
		return fmt.Errorf("%w: answer from %s", ErrInvalidTransition, o.state)
	}
	question := o.pendingQuestion
	o.state = StateAnswering
	o.mu.Unlock()

	candidates := o.selector.Select(ctx, question, o.opts.TopK)
	answer := o.comp.Answer(ctx, question, candidates)
	o.emit.QuestionAnswer(answer)
	o.speak(ctx, answer)

	if o.opts.ContinuePrompt {
		prompt := composer.ContinuePrompt(o.opts.Language)
		o.emit.AskContinue(prompt)
		o.speak(ctx, prompt)
	}

	o.mu.Lock()
	o.pendingQuestion = ""
	resumed := o.state == StateAnswering
	if resumed {
		o.state = StateReading
	}
	o.mu.Unlock()

	if resumed {
		o.kickLoop()
	}
	return nil
}

// Resume returns to reading without answering, clearing any pending
// question. Valid only while paused.
func (o *Orchestrator) Resume() error {
	o.mu.Lock()
	if o.state != StatePausedForQuestion {
		o.mu.Unlock()
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, o.state)
	}
	o.pendingQuestion = ""
	o.state = StateReading
	o.mu.Unlock()
	o.kickLoop()
	return nil
}

// Stop halts the session from any non-terminal state. An in-flight
// synthesis call is left to finish; its result is discarded.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	if o.state.Terminal() {
		o.mu.Unlock()
		return fmt.Errorf("%w: stop from %s", ErrInvalidTransition, o.state)
	}
	o.state = StateStopped
	o.mu.Unlock()

	o.stopOnce.Do(func() { close(o.stopCh) })
	o.emit.ReadingStopped()
	o.emit.AvatarState(o.sched.SpeechEnd())
	o.logger.Info("reading stopped", slog.String("session_id", o.id))
	return nil
}

// Run drives the reading loop until the session reaches a terminal state
// or the context ends. Interrupts park the loop; AnswerAndResume and
// Resume wake it.
func (o *Orchestrator) Run(ctx context.Context) {
	for {
		for o.DeliverNext(ctx) {
		}
		if o.State().Terminal() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-o.stopCh:
			return
		case <-o.kick:
		}
	}
}

// speak voices out-of-band text (intro, answers, continue prompts). It is
// not counted in the cursor sequence. Failures are logged and skipped.
func (o *Orchestrator) speak(ctx context.Context, text string) {
	o.synthMu.Lock()
	clip, err := o.synth.Synthesize(ctx, tts.SynthRequest{
		SessionID: o.id,
		Text:      text,
		Profile:   o.opts.Profile,
	})
	o.synthMu.Unlock()
	if err != nil {
		o.logger.Error("out-of-band synthesis failed", slogError(err))
		return
	}

	d := playbackDuration(clip, text, o.opts.WordsPerMinute)
	for _, in := range o.sched.SpeechStart(d) {
		o.emit.AvatarState(in)
	}
	o.emit.SpeechStarted(clip)
	o.wait(ctx, d)
	o.emit.SpeechEnded()
	o.emit.AvatarState(o.sched.SpeechEnd())
}

func (o *Orchestrator) kickLoop() {
	select {
	case o.kick <- struct{}{}:
	default:
	}
}

func playbackDuration(clip tts.Clip, text string, wordsPerMinute int) time.Duration {
	if clip.Duration > 0 {
		return clip.Duration
	}
	return tts.EstimateDuration(text, wordsPerMinute)
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
