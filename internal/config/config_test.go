package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bus.Servers[0] != "nats://localhost:4222" {
		t.Fatalf("expected default server, got %v", cfg.Bus.Servers)
	}
	if cfg.Retrieval.ChunkSizeWords <= cfg.Retrieval.ChunkOverlapWords {
		t.Fatalf("default chunking invalid: size=%d overlap=%d", cfg.Retrieval.ChunkSizeWords, cfg.Retrieval.ChunkOverlapWords)
	}
	if cfg.TTS.WordsPerMinute != 140 {
		t.Fatalf("expected default speaking rate 140, got %d", cfg.TTS.WordsPerMinute)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VAANI_BUS_SERVERS", "nats://one:4222, nats://two:4222")
	t.Setenv("VAANI_BUS_USERNAME", "alice")
	t.Setenv("VAANI_BUS_PASSWORD", "secret")
	t.Setenv("VAANI_DOCUMENT_PATH", "./bulletin.txt")
	t.Setenv("VAANI_DOCUMENT_DEFAULT_LANGUAGE", "hindi")
	t.Setenv("VAANI_RETRIEVAL_CHUNK_SIZE_WORDS", "120")
	t.Setenv("VAANI_RETRIEVAL_CHUNK_OVERLAP_WORDS", "30")
	t.Setenv("VAANI_RETRIEVAL_TOP_K", "7")
	t.Setenv("VAANI_TTS_WORDS_PER_MINUTE", "170")
	t.Setenv("VAANI_AVATAR_TALK_LOOP_MS", "4000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Bus.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %v", cfg.Bus.Servers)
	}
	if cfg.Bus.Username != "alice" || cfg.Bus.Password != "secret" {
		t.Fatalf("expected credentials override")
	}
	if cfg.Document.Path != "./bulletin.txt" {
		t.Fatalf("expected document path override, got %q", cfg.Document.Path)
	}
	if cfg.Document.DefaultLanguage != "hindi" {
		t.Fatalf("expected language override, got %q", cfg.Document.DefaultLanguage)
	}
	if cfg.Retrieval.ChunkSizeWords != 120 || cfg.Retrieval.ChunkOverlapWords != 30 {
		t.Fatalf("expected chunking override, got size=%d overlap=%d", cfg.Retrieval.ChunkSizeWords, cfg.Retrieval.ChunkOverlapWords)
	}
	if cfg.Retrieval.TopK != 7 {
		t.Fatalf("expected top_k override, got %d", cfg.Retrieval.TopK)
	}
	if cfg.TTS.WordsPerMinute != 170 {
		t.Fatalf("expected speaking rate override, got %d", cfg.TTS.WordsPerMinute)
	}
	if cfg.Avatar.TalkLoopMS != 4000 {
		t.Fatalf("expected talk loop override, got %d", cfg.Avatar.TalkLoopMS)
	}
}

func TestValidateRejectsBadChunking(t *testing.T) {
	t.Setenv("VAANI_RETRIEVAL_CHUNK_SIZE_WORDS", "40")
	t.Setenv("VAANI_RETRIEVAL_CHUNK_OVERLAP_WORDS", "40")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error when chunk size does not exceed overlap")
	}
}

func TestValidateRejectsUnknownTTSMode(t *testing.T) {
	t.Setenv("VAANI_TTS_MODE", "pygame")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown tts mode")
	}
}
