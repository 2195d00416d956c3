package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	PrometheusBind string `yaml:"prometheus_bind"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type Config struct {
	RuntimeName string           `yaml:"runtime_name"`
	Environment string           `yaml:"environment"`
	HTTP        HTTPConfig       `yaml:"http"`
	Telemetry   TelemetryConfig  `yaml:"telemetry"`
	Bus         BusConfig        `yaml:"bus"`
	EventStore  EventStoreConfig `yaml:"event_store"`
	Document    DocumentConfig   `yaml:"document"`
	Retrieval   RetrievalConfig  `yaml:"retrieval"`
	LLM         LLMConfig        `yaml:"llm"`
	TTS         TTSConfig        `yaml:"tts"`
	Avatar      AvatarConfig     `yaml:"avatar"`
	Broadcast   BroadcastConfig  `yaml:"broadcast"`
	Voices      []VoiceConfig    `yaml:"voices"`
}

type BusConfig struct {
	Embedded       bool     `yaml:"embedded"`
	Port           int      `yaml:"port"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
}

type EventStoreConfig struct {
	Path          string `yaml:"path"`
	RetentionMode string `yaml:"retention_mode"`
	RetentionDays int    `yaml:"retention_days"`
	MaxSessions   int    `yaml:"max_sessions"`
	VacuumOnStart bool   `yaml:"vacuum_on_start"`
}

type DocumentConfig struct {
	Path            string `yaml:"path"`
	DefaultLanguage string `yaml:"default_language"`
}

type RetrievalConfig struct {
	Mode              string `yaml:"mode"` // keyword, mock, ollama
	Endpoint          string `yaml:"endpoint"`
	Model             string `yaml:"model"`
	ChunkSizeWords    int    `yaml:"chunk_size_words"`
	ChunkOverlapWords int    `yaml:"chunk_overlap_words"`
	TopK              int    `yaml:"top_k"`
}

type LLMConfig struct {
	Mode            string  `yaml:"mode"` // mock, ollama, exec
	Endpoint        string  `yaml:"endpoint"`
	Command         string  `yaml:"command"`
	ModelFast       string  `yaml:"model_fast"`
	ModelBalanced   string  `yaml:"model_balanced"`
	DefaultTier     string  `yaml:"default_tier"`
	MaxTokens       int     `yaml:"max_tokens"`
	Temperature     float64 `yaml:"temperature"`
	MaxContextChars int     `yaml:"max_context_chars"`
}

type TTSConfig struct {
	Mode           string `yaml:"mode"` // mock, exec, http
	Command        string `yaml:"command"`
	Endpoint       string `yaml:"endpoint"`
	WordsPerMinute int    `yaml:"words_per_minute"`
}

type AvatarConfig struct {
	TalkLoopMS   int `yaml:"talk_loop_ms"`
	ListenLoopMS int `yaml:"listen_loop_ms"`
}

// TalkLoop is the talking video clip length.
func (a AvatarConfig) TalkLoop() time.Duration {
	return time.Duration(a.TalkLoopMS) * time.Millisecond
}

// ListenLoop is the listening video clip length.
func (a AvatarConfig) ListenLoop() time.Duration {
	return time.Duration(a.ListenLoopMS) * time.Millisecond
}

type BroadcastConfig struct {
	MinSentenceWords int  `yaml:"min_sentence_words"`
	IntroEnabled     bool `yaml:"intro_enabled"`
	ContinuePrompt   bool `yaml:"continue_prompt"`
}

type VoiceConfig struct {
	Language string `yaml:"language"`
	VoiceID  string `yaml:"voice_id"`
	Rate     string `yaml:"rate"`
	Pitch    string `yaml:"pitch"`
	Volume   string `yaml:"volume"`
}

func Default() Config {
	return Config{
		RuntimeName: "vaani-runtime",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			OTLPEndpoint:   "",
			OTLPInsecure:   true,
			PrometheusBind: ":9091",
		},
		Bus: BusConfig{
			Embedded:       true,
			Port:           4222,
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
		},
		EventStore: EventStoreConfig{
			Path:          "./data/vaani-events.db",
			RetentionMode: "session",
			RetentionDays: 30,
			MaxSessions:   10000,
		},
		Document: DocumentConfig{
			Path:            "./data/document.txt",
			DefaultLanguage: "english",
		},
		Retrieval: RetrievalConfig{
			Mode:              "keyword",
			Endpoint:          "http://localhost:11434",
			Model:             "nomic-embed-text",
			ChunkSizeWords:    200,
			ChunkOverlapWords: 40,
			TopK:              5,
		},
		LLM: LLMConfig{
			Mode:            "mock",
			Endpoint:        "http://localhost:11434",
			ModelFast:       "llama3.2:latest",
			ModelBalanced:   "llama3.2:latest",
			DefaultTier:     "balanced",
			MaxTokens:       256,
			Temperature:     0.7,
			MaxContextChars: 6000,
		},
		TTS: TTSConfig{
			Mode:           "mock",
			WordsPerMinute: 140,
		},
		Avatar: AvatarConfig{
			TalkLoopMS:   5000,
			ListenLoopMS: 5000,
		},
		Broadcast: BroadcastConfig{
			MinSentenceWords: 1,
			IntroEnabled:     true,
			ContinuePrompt:   true,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.RuntimeName, "VAANI_RUNTIME_NAME")
	overrideString(&cfg.Environment, "VAANI_RUNTIME_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "VAANI_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "VAANI_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "VAANI_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "VAANI_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "VAANI_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "VAANI_TELEMETRY_PROMETHEUS_BIND")
	overrideBool(&cfg.Bus.Embedded, "VAANI_BUS_EMBEDDED")
	overrideInt(&cfg.Bus.Port, "VAANI_BUS_PORT")
	overrideStringSlice(&cfg.Bus.Servers, "VAANI_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "VAANI_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "VAANI_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "VAANI_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "VAANI_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "VAANI_BUS_CONNECT_TIMEOUT_MS")
	overrideString(&cfg.EventStore.Path, "VAANI_EVENT_STORE_PATH")
	overrideString(&cfg.EventStore.RetentionMode, "VAANI_EVENT_STORE_RETENTION_MODE")
	overrideInt(&cfg.EventStore.RetentionDays, "VAANI_EVENT_STORE_RETENTION_DAYS")
	overrideInt(&cfg.EventStore.MaxSessions, "VAANI_EVENT_STORE_MAX_SESSIONS")
	overrideBool(&cfg.EventStore.VacuumOnStart, "VAANI_EVENT_STORE_VACUUM_ON_START")
	overrideString(&cfg.Document.Path, "VAANI_DOCUMENT_PATH")
	overrideString(&cfg.Document.DefaultLanguage, "VAANI_DOCUMENT_DEFAULT_LANGUAGE")
	overrideString(&cfg.Retrieval.Mode, "VAANI_RETRIEVAL_MODE")
	overrideString(&cfg.Retrieval.Endpoint, "VAANI_RETRIEVAL_ENDPOINT")
	overrideString(&cfg.Retrieval.Model, "VAANI_RETRIEVAL_MODEL")
	overrideInt(&cfg.Retrieval.ChunkSizeWords, "VAANI_RETRIEVAL_CHUNK_SIZE_WORDS")
	overrideInt(&cfg.Retrieval.ChunkOverlapWords, "VAANI_RETRIEVAL_CHUNK_OVERLAP_WORDS")
	overrideInt(&cfg.Retrieval.TopK, "VAANI_RETRIEVAL_TOP_K")
	overrideString(&cfg.LLM.Mode, "VAANI_LLM_MODE")
	overrideString(&cfg.LLM.Endpoint, "VAANI_LLM_ENDPOINT")
	overrideString(&cfg.LLM.Command, "VAANI_LLM_COMMAND")
	overrideString(&cfg.LLM.ModelFast, "VAANI_LLM_MODEL_FAST")
	overrideString(&cfg.LLM.ModelBalanced, "VAANI_LLM_MODEL_BALANCED")
	overrideString(&cfg.LLM.DefaultTier, "VAANI_LLM_DEFAULT_TIER")
	overrideInt(&cfg.LLM.MaxTokens, "VAANI_LLM_MAX_TOKENS")
	overrideFloat(&cfg.LLM.Temperature, "VAANI_LLM_TEMPERATURE")
	overrideInt(&cfg.LLM.MaxContextChars, "VAANI_LLM_MAX_CONTEXT_CHARS")
	overrideString(&cfg.TTS.Mode, "VAANI_TTS_MODE")
	overrideString(&cfg.TTS.Command, "VAANI_TTS_COMMAND")
	overrideString(&cfg.TTS.Endpoint, "VAANI_TTS_ENDPOINT")
	overrideInt(&cfg.TTS.WordsPerMinute, "VAANI_TTS_WORDS_PER_MINUTE")
	overrideInt(&cfg.Avatar.TalkLoopMS, "VAANI_AVATAR_TALK_LOOP_MS")
	overrideInt(&cfg.Avatar.ListenLoopMS, "VAANI_AVATAR_LISTEN_LOOP_MS")
	overrideInt(&cfg.Broadcast.MinSentenceWords, "VAANI_BROADCAST_MIN_SENTENCE_WORDS")
	overrideBool(&cfg.Broadcast.IntroEnabled, "VAANI_BROADCAST_INTRO_ENABLED")
	overrideBool(&cfg.Broadcast.ContinuePrompt, "VAANI_BROADCAST_CONTINUE_PROMPT")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		parts := strings.Split(value, ",")
		var trimmed []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if cfg.RuntimeName == "" {
		return errors.New("runtime_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.Bus.Embedded {
		if cfg.Bus.Port <= 0 || cfg.Bus.Port > 65535 {
			return errors.New("bus.port must be between 1 and 65535 when embedded mode is enabled")
		}
	} else {
		if len(cfg.Bus.Servers) == 0 {
			return errors.New("bus.servers must not be empty when embedded mode is disabled")
		}
	}
	if cfg.EventStore.Path == "" {
		return errors.New("event_store.path must not be empty")
	}
	switch cfg.EventStore.RetentionMode {
	case "ephemeral", "session", "persistent":
		// ok
	default:
		return errors.New("event_store.retention_mode must be one of ephemeral|session|persistent")
	}
	if cfg.EventStore.RetentionDays < 0 {
		return errors.New("event_store.retention_days must be >= 0")
	}
	if cfg.Telemetry.PrometheusBind == "" {
		return errors.New("telemetry.prometheus_bind must not be empty")
	}
	if cfg.Document.Path == "" {
		return errors.New("document.path must not be empty")
	}
	if cfg.Document.DefaultLanguage == "" {
		return errors.New("document.default_language must not be empty")
	}
	switch cfg.Retrieval.Mode {
	case "keyword", "mock", "ollama":
	default:
		return errors.New("retrieval.mode must be one of keyword|mock|ollama")
	}
	if cfg.Retrieval.Mode == "ollama" && cfg.Retrieval.Endpoint == "" {
		return errors.New("retrieval.endpoint must be set when mode=ollama")
	}
	if cfg.Retrieval.ChunkOverlapWords <= 0 {
		return errors.New("retrieval.chunk_overlap_words must be positive")
	}
	if cfg.Retrieval.ChunkSizeWords <= cfg.Retrieval.ChunkOverlapWords {
		return errors.New("retrieval.chunk_size_words must be greater than chunk_overlap_words")
	}
	if cfg.Retrieval.TopK <= 0 {
		return errors.New("retrieval.top_k must be positive")
	}
	switch cfg.LLM.Mode {
	case "mock", "ollama", "exec":
	default:
		return errors.New("llm.mode must be one of mock|ollama|exec")
	}
	if cfg.LLM.Mode == "ollama" && cfg.LLM.Endpoint == "" {
		return errors.New("llm.endpoint must be set when mode=ollama")
	}
	if cfg.LLM.Mode == "exec" && cfg.LLM.Command == "" {
		return errors.New("llm.command must be set when mode=exec")
	}
	if cfg.LLM.MaxTokens < 0 {
		return errors.New("llm.max_tokens must be >= 0")
	}
	if cfg.LLM.MaxContextChars <= 0 {
		return errors.New("llm.max_context_chars must be positive")
	}
	switch cfg.TTS.Mode {
	case "mock", "exec", "http":
	default:
		return errors.New("tts.mode must be one of mock|exec|http")
	}
	if cfg.TTS.Mode == "exec" && cfg.TTS.Command == "" {
		return errors.New("tts.command must be set when mode=exec")
	}
	if cfg.TTS.Mode == "http" && cfg.TTS.Endpoint == "" {
		return errors.New("tts.endpoint must be set when mode=http")
	}
	if cfg.TTS.WordsPerMinute <= 0 {
		return errors.New("tts.words_per_minute must be positive")
	}
	if cfg.Avatar.TalkLoopMS <= 0 {
		return errors.New("avatar.talk_loop_ms must be positive")
	}
	if cfg.Avatar.ListenLoopMS <= 0 {
		return errors.New("avatar.listen_loop_ms must be positive")
	}
	if cfg.Broadcast.MinSentenceWords < 1 {
		return errors.New("broadcast.min_sentence_words must be >= 1")
	}
	for _, v := range cfg.Voices {
		if v.Language == "" || v.VoiceID == "" {
			return errors.New("voices entries must set language and voice_id")
		}
	}
	return nil
}
