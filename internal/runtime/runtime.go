// Package runtime assembles the newscast daemon: telemetry, message bus,
// event store, the retrieval and speech stacks, and the broadcast service.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vaanilabs/vaani-core/internal/broadcast"
	"github.com/vaanilabs/vaani-core/internal/bus"
	"github.com/vaanilabs/vaani-core/internal/composer"
	"github.com/vaanilabs/vaani-core/internal/config"
	"github.com/vaanilabs/vaani-core/internal/document"
	"github.com/vaanilabs/vaani-core/internal/eventstore"
	"github.com/vaanilabs/vaani-core/internal/llm"
	"github.com/vaanilabs/vaani-core/internal/natsserver"
	"github.com/vaanilabs/vaani-core/internal/retrieval"
	"github.com/vaanilabs/vaani-core/internal/tts"
	"github.com/vaanilabs/vaani-core/internal/voice"
)

type Runtime struct {
	cfg         config.Config
	logger      *slog.Logger
	httpServer  *http.Server
	tracerClose func(context.Context) error
	ready       atomic.Bool
	wg          sync.WaitGroup
}

func New(cfg config.Config, logger *slog.Logger) *Runtime {
	return &Runtime{
		cfg:    cfg,
		logger: logger,
	}
}

// Start brings the daemon up and blocks until ctx is cancelled, then shuts
// everything down in reverse order. A missing or unreadable document is a
// startup failure; nothing mid-session depends on the filesystem.
func (r *Runtime) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownTelemetry, metricsHandler, err := setupTelemetry(r.cfg, r.logger)
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	r.tracerClose = shutdownTelemetry

	docText, err := document.Load(r.cfg.Document.Path)
	if err != nil {
		return err
	}

	chunks, err := document.BuildChunks(docText, r.cfg.Retrieval.ChunkSizeWords, r.cfg.Retrieval.ChunkOverlapWords)
	if err != nil {
		return fmt.Errorf("chunk document: %w", err)
	}
	r.logger.Info("document loaded",
		slog.String("path", r.cfg.Document.Path),
		slog.Int("chunks", len(chunks)))

	voices, err := voice.TableFromConfig(r.cfg.Voices)
	if err != nil {
		return fmt.Errorf("voice table: %w", err)
	}

	embedder, err := buildEmbedder(r.cfg.Retrieval)
	if err != nil {
		return err
	}
	generator, err := buildGenerator(r.cfg.LLM)
	if err != nil {
		return err
	}
	synth, err := buildSynthesizer(r.cfg.TTS)
	if err != nil {
		return err
	}

	embeddedNATS, err := natsserver.Start(r.cfg.Bus, r.logger)
	if err != nil {
		return fmt.Errorf("start embedded bus: %w", err)
	}
	defer embeddedNATS.Shutdown()

	busCfg := r.cfg.Bus
	if embeddedNATS != nil {
		busCfg.Servers = []string{embeddedNATS.ClientURL()}
	}
	busClient, err := bus.Connect(ctx, busCfg, r.logger)
	if err != nil {
		return err
	}
	defer busClient.Close()

	store, err := eventstore.Open(ctx, r.cfg.EventStore, r.logger)
	if err != nil {
		return fmt.Errorf("open event store: %w", err)
	}
	defer store.Close()

	svc := broadcast.NewService(ctx, r.cfg, busClient, broadcast.Deps{
		Store:    store,
		Selector: retrieval.NewSelector(chunks, embedder, r.logger),
		Composer: composer.New(r.cfg.LLM, generator, r.logger),
		Synth:    synth,
		Voices:   voices,
		Document: docText,
	}, r.logger)
	if err := svc.Start(); err != nil {
		return fmt.Errorf("start broadcast service: %w", err)
	}
	defer svc.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", r.handleHealth)
	mux.HandleFunc("/readyz", r.handleReady)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	addr := fmt.Sprintf("%s:%d", r.cfg.HTTP.Bind, r.cfg.HTTP.Port)
	r.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	r.ready.Store(true)
	r.logger.Info("runtime started", slog.String("addr", addr))

	<-ctx.Done()
	r.ready.Store(false)
	r.logger.Info("runtime stopping")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Error("http shutdown error", slog.String("error", err.Error()))
	}
	r.wg.Wait()

	if r.tracerClose != nil {
		if err := r.tracerClose(shutdownCtx); err != nil {
			r.logger.Error("telemetry shutdown error", slog.String("error", err.Error()))
		}
	}

	return nil
}

func buildEmbedder(cfg config.RetrievalConfig) (retrieval.Embedder, error) {
	switch cfg.Mode {
	case "keyword", "":
		return nil, nil
	case "mock":
		return retrieval.NewMockEmbedder(), nil
	case "ollama":
		return retrieval.NewOllamaEmbedder(cfg.Endpoint, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown retrieval mode %q", cfg.Mode)
	}
}

func buildGenerator(cfg config.LLMConfig) (llm.Generator, error) {
	switch cfg.Mode {
	case "mock", "":
		return llm.NewMockGenerator(), nil
	case "ollama":
		return llm.NewOllamaGenerator(cfg.Endpoint, cfg.ModelFast, cfg.ModelBalanced), nil
	case "exec":
		return llm.NewExecGenerator(cfg.Command)
	default:
		return nil, fmt.Errorf("unknown llm mode %q", cfg.Mode)
	}
}

func buildSynthesizer(cfg config.TTSConfig) (tts.Synthesizer, error) {
	switch cfg.Mode {
	case "mock", "":
		return tts.NewMockSynth(cfg.WordsPerMinute), nil
	case "exec":
		return tts.NewExecSynth(cfg.Command)
	case "http":
		return tts.NewHTTPSynth(cfg.Endpoint)
	default:
		return nil, fmt.Errorf("unknown tts mode %q", cfg.Mode)
	}
}

func (r *Runtime) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (r *Runtime) handleReady(w http.ResponseWriter, _ *http.Request) {
	if r.ready.Load() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready"))
}
