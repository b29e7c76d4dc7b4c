// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

// =============================================================================
// WIRE TYPES
// =============================================================================

// Part is a single content part. Text-only; the client does not send
// images or function calls.
type Part struct {
	Text string `json:"text"`
}

// Content is one turn of history in the Generative Language API wire format.
//
// Role is exactly "user" or "model". The "model" token is the provider's
// name for assistant turns and is a wire contract, not an internal choice.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// NewUserContent creates a user-role content entry.
func NewUserContent(text string) Content {
	return Content{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// NewModelContent creates a model-role (assistant) content entry.
func NewModelContent(text string) Content {
	return Content{Role: RoleModel, Parts: []Part{{Text: text}}}
}

// Role tokens accepted by the API.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// generateRequest is the request body for the generateContent endpoint.
type generateRequest struct {
	Contents []Content `json:"contents"`
}

// generateResponse is the response body from the generateContent endpoint.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
			Role  string `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// text returns the concatenated text of the first candidate, or "".
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// apiErrorResponse represents an error response from the API.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// =============================================================================
// MODEL LISTING
// =============================================================================

// ModelInfo describes a model available through the API.
type ModelInfo struct {
	Name             string `json:"name"`
	DisplayName      string `json:"displayName"`
	Description      string `json:"description"`
	InputTokenLimit  int    `json:"inputTokenLimit"`
	OutputTokenLimit int    `json:"outputTokenLimit"`
}

// modelsResponse is the internal response structure for listing models.
type modelsResponse struct {
	Models []ModelInfo `json:"models"`
}
