// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversation snapshots to files.
package export

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jeranaias/lumen-tui/internal/session"
	"github.com/jeranaias/lumen-tui/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for conversation exporters.
type Exporter interface {
	// Export renders a snapshot to the target format.
	Export(snap *session.Snapshot) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".json").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeTimestamps includes per-message timestamps (markdown only;
	// JSON exports always carry full message data).
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		OpenAfterExport:   false,
		IncludeTimestamps: true,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile writes a snapshot using the given exporter and returns the
// output path. The filename follows the chat-export-<YYYY-MM-DD> pattern the
// download feature has always used.
func ExportToFile(snap *session.Snapshot, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(snap)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := Filename(snap.ExportedAt, exporter.FileExtension())
	outputPath := filepath.Join(opts.OutputDir, filename)

	// RELIABILITY: atomic write so a crash never leaves a half-written export.
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal - the file was still created successfully.
			fmt.Fprintf(os.Stderr, "warning: could not open file: %v\n", err)
		}
	}

	return outputPath, nil
}

// Filename returns the export filename for a given timestamp and extension,
// e.g. "chat-export-2025-01-30.json".
func Filename(t time.Time, ext string) string {
	return "chat-export-" + t.Format("2006-01-02") + ext
}

// ExportJSON exports a snapshot to JSON format.
func ExportJSON(snap *session.Snapshot, opts *Options) (string, error) {
	return ExportToFile(snap, NewJSONExporter(opts), opts)
}

// ExportMarkdown exports a snapshot to Markdown format.
func ExportMarkdown(snap *session.Snapshot, opts *Options) (string, error) {
	return ExportToFile(snap, NewMarkdownExporter(opts), opts)
}

// ExportAs exports a snapshot in the named format ("json", "markdown", "md").
func ExportAs(snap *session.Snapshot, format string, opts *Options) (string, error) {
	switch format {
	case "json", "":
		return ExportJSON(snap, opts)
	case "markdown", "md":
		return ExportMarkdown(snap, opts)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// formatTimestamp formats a timestamp for display in exports.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
