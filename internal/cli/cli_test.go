// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/jeranaias/lumen-tui/internal/gemini"
)

func TestArgParser(t *testing.T) {
	args := NewArgParser([]string{"set", "--template", "code", "--since=2024-01-01", "--json", "extra"})

	if args.Subcommand() != "set" {
		t.Errorf("Subcommand() = %q, want set", args.Subcommand())
	}
	if args.Flag("template") != "code" {
		t.Errorf("Flag(template) = %q, want code", args.Flag("template"))
	}
	if args.Flag("since") != "2024-01-01" {
		t.Errorf("Flag(since) = %q", args.Flag("since"))
	}
	if !args.BoolFlag("json") {
		t.Error("BoolFlag(json) should be true")
	}
	if args.Positional(1) != "extra" {
		t.Errorf("Positional(1) = %q, want extra", args.Positional(1))
	}
	if args.PositionalCount() != 2 {
		t.Errorf("PositionalCount() = %d, want 2", args.PositionalCount())
	}
}

func TestArgParserExplicitBool(t *testing.T) {
	args := NewArgParser([]string{"--json=false", "--color=true"})
	if args.BoolFlag("json") {
		t.Error("--json=false should be false")
	}
	if !args.BoolFlag("color") {
		t.Error("--color=true should be true")
	}
}

func TestArgParserJoinPositional(t *testing.T) {
	args := NewArgParser([]string{"ask", "what", "is", "go"})
	if got := args.JoinPositional(1); got != "what is go" {
		t.Errorf("JoinPositional(1) = %q", got)
	}
	if got := args.JoinPositional(10); got != "" {
		t.Errorf("out-of-range join = %q, want empty", got)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{"--quiet", "--model", "gemini-1.5-pro", "ask", "hello"})

	if !args.Quiet {
		t.Error("Quiet should be set")
	}
	if args.Model != "gemini-1.5-pro" {
		t.Errorf("Model = %q", args.Model)
	}
	if len(remaining) != 2 || remaining[0] != "ask" {
		t.Errorf("remaining = %v", remaining)
	}
}

func TestParseGlobalFlagsModelEquals(t *testing.T) {
	_, args := parseGlobalFlags([]string{"--model=gemini-2.0-flash"})
	if args.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", args.Model)
	}
}

func TestParseAskArgs(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"what", "is", "a", "goroutine", "--template", "code"})

	if args.Query != "what is a goroutine" {
		t.Errorf("Query = %q", args.Query)
	}
	if args.Template != "code" {
		t.Errorf("Template = %q", args.Template)
	}
}

func TestParseAskArgsFlagFormats(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"--model=x", "--template=writing", "hi"})
	if args.Model != "x" || args.Template != "writing" || args.Query != "hi" {
		t.Errorf("args = %+v", args)
	}
}

func TestParseConfigArgs(t *testing.T) {
	var args Args
	parseConfigArgs(&args, []string{"set", "model", "gemini-1.5-pro"})
	if args.Subcommand != "set" || args.ConfigKey != "model" || args.ConfigVal != "gemini-1.5-pro" {
		t.Errorf("args = %+v", args)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneralError},
		{"usage", &UsageError{Command: "ask", Reason: "no question"}, ExitUsageError},
		{"not configured", gemini.ErrNotConfigured, ExitConfigError},
		{"auth failed", gemini.ErrAuthFailed, ExitAuthError},
		{"rate limited", gemini.ErrRateLimited, ExitNetworkError},
		{"timeout", context.DeadlineExceeded, ExitTimeoutError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	cause := gemini.ErrAuthFailed
	err := &CommandError{Command: "ask", Action: "send", Reason: "request rejected", Err: cause}

	if !errors.Is(err, gemini.ErrAuthFailed) {
		t.Error("CommandError should unwrap to its cause")
	}
	if GetExitCode(err) != ExitAuthError {
		t.Error("wrapped auth error should map to ExitAuthError")
	}
}
