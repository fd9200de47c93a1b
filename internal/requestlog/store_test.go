package requestlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatches.db")
	w, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("new sqlite writer: %v", err)
	}
	t.Cleanup(func() {
		_ = w.Close()
	})

	now := time.Now().UTC()
	entries := []Entry{
		{TraceID: "trace-1", Target: "bedrock", Status: 200, DurationMS: 12, CreatedAt: now.Add(-time.Hour)},
		{TraceID: "trace-2", Target: "azure", Status: 200, DurationMS: 48, CreatedAt: now},
		{TraceID: "trace-3", Target: "bedrock", Status: 500, DurationMS: 3, ErrorMessage: "secret lookup failed"},
	}
	for _, entry := range entries {
		if err := w.Write(context.Background(), entry); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}

	var count int
	if err := w.db.QueryRow(`SELECT COUNT(*) FROM dispatch_logs`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != len(entries) {
		t.Errorf("row count = %d, want %d", count, len(entries))
	}

	var target string
	var status int
	var errMsg string
	err = w.db.QueryRow(`SELECT target, status, error_message FROM dispatch_logs WHERE trace_id = ?`, "trace-3").
		Scan(&target, &status, &errMsg)
	if err != nil {
		t.Fatalf("query trace-3: %v", err)
	}
	if target != "bedrock" || status != 500 || errMsg != "secret lookup failed" {
		t.Errorf("trace-3 row = (%q, %d, %q)", target, status, errMsg)
	}

	// CreatedAt defaults to now when zero.
	var created string
	if err := w.db.QueryRow(`SELECT created_at FROM dispatch_logs WHERE trace_id = ?`, "trace-3").Scan(&created); err != nil {
		t.Fatalf("query created_at: %v", err)
	}
	if created == "" {
		t.Error("created_at was not defaulted")
	}
}

func TestNoopWriter(t *testing.T) {
	if err := (NoopWriter{}).Write(context.Background(), Entry{Target: "bedrock"}); err != nil {
		t.Fatalf("noop write: %v", err)
	}
}

func TestPostgresWriter_RequiresDSN(t *testing.T) {
	if _, err := NewPostgresWriter(""); err == nil {
		t.Fatal("expected error for empty postgres dsn")
	}
}
