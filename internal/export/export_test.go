// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/lumen-tui/internal/model"
	"github.com/jeranaias/lumen-tui/internal/session"
)

// testSnapshot builds a snapshot with a fixed export time.
func testSnapshot() *session.Snapshot {
	return &session.Snapshot{
		Messages: []*model.Message{
			model.NewUserMessage("hello"),
			model.NewAssistantMessage("hi there"),
		},
		ExportedAt: time.Date(2025, 1, 30, 12, 34, 56, 0, time.UTC),
	}
}

// =============================================================================
// FILENAME TESTS
// =============================================================================

func TestFilename_Pattern(t *testing.T) {
	ts := time.Date(2025, 1, 30, 23, 59, 0, 0, time.UTC)

	if got := Filename(ts, ".json"); got != "chat-export-2025-01-30.json" {
		t.Errorf("Filename() = %q", got)
	}
	if got := Filename(ts, ".md"); got != "chat-export-2025-01-30.md" {
		t.Errorf("Filename() = %q", got)
	}
}

// =============================================================================
// JSON EXPORTER TESTS
// =============================================================================

func TestJSONExporter_DocumentShape(t *testing.T) {
	content, err := NewJSONExporter(nil).Export(testSnapshot())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var doc struct {
		Messages []struct {
			ID      string `json:"id"`
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		ExportedAt string `json:"exportedAt"`
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if len(doc.Messages) != 2 {
		t.Fatalf("messages length = %d, want 2", len(doc.Messages))
	}
	if doc.Messages[0].Role != "user" || doc.Messages[0].Content != "hello" {
		t.Errorf("messages[0] = %+v", doc.Messages[0])
	}
	if doc.Messages[1].Role != "assistant" {
		t.Errorf("messages[1].Role = %q, want assistant", doc.Messages[1].Role)
	}
	if doc.ExportedAt != "2025-01-30T12:34:56Z" {
		t.Errorf("exportedAt = %q, want ISO-8601", doc.ExportedAt)
	}
}

func TestJSONExporter_EmptySnapshot(t *testing.T) {
	snap := &session.Snapshot{ExportedAt: time.Now()}

	content, err := NewJSONExporter(nil).Export(snap)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// An empty conversation exports as an empty array, never null.
	if !strings.Contains(string(content), `"messages": []`) {
		t.Errorf("empty export = %s, want empty messages array", content)
	}
}

func TestJSONExporter_NilSnapshot(t *testing.T) {
	if _, err := NewJSONExporter(nil).Export(nil); err == nil {
		t.Error("Export(nil) error = nil, want error")
	}
}

// =============================================================================
// MARKDOWN EXPORTER TESTS
// =============================================================================

func TestMarkdownExporter_Transcript(t *testing.T) {
	content, err := NewMarkdownExporter(nil).Export(testSnapshot())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	text := string(content)
	for _, want := range []string{"## You", "## Assistant", "hello", "hi there"} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown export missing %q", want)
		}
	}
}

// =============================================================================
// FILE WRITING TESTS
// =============================================================================

func TestExportToFile_WritesJSON(t *testing.T) {
	dir := t.TempDir()
	opts := &Options{OutputDir: dir}

	path, err := ExportJSON(testSnapshot(), opts)
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	if filepath.Base(path) != "chat-export-2025-01-30.json" {
		t.Errorf("output filename = %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !json.Valid(data) {
		t.Error("written export is not valid JSON")
	}
}

func TestExportAs_UnsupportedFormat(t *testing.T) {
	if _, err := ExportAs(testSnapshot(), "pdf", &Options{OutputDir: t.TempDir()}); err == nil {
		t.Error("ExportAs(pdf) error = nil, want unsupported format error")
	}
}
