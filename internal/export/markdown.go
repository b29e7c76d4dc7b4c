// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/lumen-tui/internal/session"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversation snapshots to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a snapshot to Markdown.
func (e *MarkdownExporter) Export(snap *session.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}

	var sb strings.Builder

	sb.WriteString("# Chat Export\n\n")
	sb.WriteString(fmt.Sprintf("Exported: %s\n\n", snap.ExportedAt.Format(time.RFC3339)))

	for _, msg := range snap.Messages {
		sb.WriteString(fmt.Sprintf("## %s", msg.Role.DisplayName()))
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf(" — %s", formatTimestamp(msg.Timestamp)))
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
	}

	if len(snap.Messages) == 0 {
		sb.WriteString("_Empty conversation._\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}
