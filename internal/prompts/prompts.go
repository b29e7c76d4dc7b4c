// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompts provides the built-in prompt template registry.
//
// Templates are curated conversation starters grouped by category. Selecting
// one sends its prompt text as the first user turn.
package prompts

// Template is a reusable conversation starter.
type Template struct {
	// ID is the stable identifier used on the command line.
	ID string
	// Title is the short display name.
	Title string
	// Description is a one-line summary shown in pickers.
	Description string
	// Category groups related templates.
	Category string
	// Prompt is the text sent as the opening user message.
	Prompt string
}

// builtins is the registry, ordered for display.
var builtins = []Template{
	{
		ID:          "code",
		Title:       "Code Assistant",
		Description: "Get help with programming tasks",
		Category:    "Development",
		Prompt:      "I need help with coding. Can you assist me with writing, debugging, or explaining code? Please ask me what specific programming language or problem you can help with.",
	},
	{
		ID:          "writing",
		Title:       "Creative Writing",
		Description: "Generate creative content and stories",
		Category:    "Creative",
		Prompt:      "I would like help with creative writing. Can you help me brainstorm ideas, write content, or improve my writing style? What type of writing project are you working on?",
	},
	{
		ID:          "learning",
		Title:       "Learning Tutor",
		Description: "Learn new concepts and topics",
		Category:    "Education",
		Prompt:      "I want to learn something new. Can you teach me about a topic, explain complex concepts in simple terms, or help me study? What subject interests you?",
	},
	{
		ID:          "math",
		Title:       "Math Helper",
		Description: "Solve math problems and equations",
		Category:    "Education",
		Prompt:      "I need help with math problems. Can you solve equations, explain mathematical concepts, or walk me through problem-solving steps? What math topic do you need help with?",
	},
	{
		ID:          "brainstorm",
		Title:       "Brainstorming",
		Description: "Generate ideas and solutions",
		Category:    "Creative",
		Prompt:      "I need to brainstorm ideas. Can you help me generate creative solutions, think through problems, or explore different possibilities? What challenge or project are you working on?",
	},
	{
		ID:          "email",
		Title:       "Email Assistant",
		Description: "Write professional emails",
		Category:    "Business",
		Prompt:      "I need help writing an email. Can you help me craft professional, clear, and effective emails? What type of email do you need to write and who is your audience?",
	},
	{
		ID:          "summary",
		Title:       "Text Summarizer",
		Description: "Summarize long texts and articles",
		Category:    "Productivity",
		Prompt:      "I need to summarize some text. Can you help me create concise summaries, extract key points, or analyze content? Please share the text you want me to summarize.",
	},
	{
		ID:          "business",
		Title:       "Business Advisor",
		Description: "Get business strategy and planning help",
		Category:    "Business",
		Prompt:      "I need business advice. Can you help with strategy, planning, market analysis, or business decisions? What specific business challenge or opportunity are you facing?",
	},
}

// All returns every template in display order. The returned slice is a copy.
func All() []Template {
	out := make([]Template, len(builtins))
	copy(out, builtins)
	return out
}

// ByID returns the template with the given ID, or false.
func ByID(id string) (Template, bool) {
	for _, t := range builtins {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Categories returns the distinct categories in first-seen order.
func Categories() []string {
	seen := make(map[string]bool, len(builtins))
	var out []string
	for _, t := range builtins {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// ByCategory returns the templates in a category, preserving order.
func ByCategory(category string) []Template {
	var out []Template
	for _, t := range builtins {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}
