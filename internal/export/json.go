// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/lumen-tui/internal/model"
	"github.com/jeranaias/lumen-tui/internal/session"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// jsonDocument is the on-disk JSON shape. The field names and the ISO-8601
// exportedAt timestamp are a compatibility contract with existing exports;
// tools that consume chat-export files depend on them.
type jsonDocument struct {
	Messages   []*model.Message `json:"messages"`
	ExportedAt string           `json:"exportedAt"`
}

// JSONExporter exports conversation snapshots to JSON.
// JSON exports always include the complete snapshot, regardless of options,
// so an export is a faithful representation that can be re-read later.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a snapshot to an indented JSON document.
func (e *JSONExporter) Export(snap *session.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}

	doc := jsonDocument{
		Messages:   snap.Messages,
		ExportedAt: snap.ExportedAt.Format(time.RFC3339),
	}
	if doc.Messages == nil {
		doc.Messages = []*model.Message{}
	}

	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
