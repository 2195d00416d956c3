package eventstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/vaanilabs/vaani-core/internal/config"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOpenEphemeralIsNoOp(t *testing.T) {
	ctx := context.Background()
	cfg := config.EventStoreConfig{RetentionMode: "ephemeral"}
	es, err := Open(ctx, cfg, newLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = es.Close() })

	if err := es.BeginSession(ctx, "s-1", "english", "doc.txt"); err != nil {
		t.Fatalf("begin session: %v", err)
	}
	if err := es.AppendEvent(ctx, Event{SessionID: "s-1", Type: "news_sentence"}); err != nil {
		t.Fatalf("append event: %v", err)
	}
	events, err := es.ListSessionEvents(ctx, "s-1", 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if events != nil {
		t.Fatalf("ephemeral store must not retain events, got %d", len(events))
	}
}

func TestAppendAndQueryTimeline(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.EventStoreConfig{Path: filepath.Join(tmp, "events.db"), RetentionMode: "session"}
	es, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open event store: %v", err)
	}
	t.Cleanup(func() { _ = es.Close() })

	sessionID := "session-123"
	if err := es.BeginSession(context.Background(), sessionID, "hindi", "/data/news.txt"); err != nil {
		t.Fatalf("begin session: %v", err)
	}
	for i, evtType := range []string{"reading_started", "news_sentence", "news_completed"} {
		err := es.AppendEvent(context.Background(), Event{
			SessionID: sessionID,
			Type:      evtType,
			Payload:   []byte{byte('0' + i)},
		})
		if err != nil {
			t.Fatalf("append event %d: %v", i, err)
		}
	}

	events, err := es.ListSessionEvents(context.Background(), sessionID, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Type != "reading_started" || events[2].Type != "news_completed" {
		t.Fatalf("events out of order: %s … %s", events[0].Type, events[2].Type)
	}
}

func TestPruneByDaysAndSessions(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.EventStoreConfig{Path: filepath.Join(tmp, "events.db"), RetentionMode: "persistent", RetentionDays: 1, MaxSessions: 1}
	es, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open event store: %v", err)
	}
	t.Cleanup(func() { _ = es.Close() })

	es.clock = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	if err := es.BeginSession(context.Background(), "old-session", "english", "doc.txt"); err != nil {
		t.Fatalf("begin session: %v", err)
	}
	if err := es.AppendEvent(context.Background(), Event{SessionID: "old-session", Type: "news_sentence"}); err != nil {
		t.Fatalf("append event: %v", err)
	}

	es.clock = func() time.Time { return time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC) }
	if err := es.BeginSession(context.Background(), "new-session", "english", "doc.txt"); err != nil {
		t.Fatalf("begin session: %v", err)
	}
	if err := es.Prune(context.Background()); err != nil {
		t.Fatalf("prune: %v", err)
	}

	events, err := es.ListSessionEvents(context.Background(), "old-session", 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 0 {
		t.Fatal("expected old session pruned")
	}
}
