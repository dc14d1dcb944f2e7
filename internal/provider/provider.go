package provider

import (
	"context"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Params are the numeric generation knobs forwarded to the completion API.
// MaxTokens of 0 means "no limit requested" and is omitted from the request.
type Params struct {
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Map flattens the parameters into the generic shape they are persisted in
// when a failed call is recorded for later inspection.
func (p Params) Map() map[string]any {
	return map[string]any{
		"temperature":       p.Temperature,
		"max_tokens":        p.MaxTokens,
		"top_p":             p.TopP,
		"frequency_penalty": p.FrequencyPenalty,
		"presence_penalty":  p.PresencePenalty,
	}
}

// CallError is the structured failure of a completion call: a human-readable
// message plus enough context to replay the failure to the user on request.
type CallError struct {
	Model      string `json:"model"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (e *CallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (model %s, HTTP %d)", e.Message, e.Model, e.StatusCode)
	}
	return fmt.Sprintf("%s (model %s)", e.Message, e.Model)
}

// Completer is the remote completion collaborator. One call carries the whole
// ordered message sequence; the reply is the assistant's text.
type Completer interface {
	Complete(ctx context.Context, msgs []Message, params Params) (string, error)
	ModelName() string
}
