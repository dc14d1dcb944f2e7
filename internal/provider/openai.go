package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAI(baseURL, apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
	}
}

func (o *OpenAIClient) ModelName() string { return o.model }

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        *int          `json:"max_tokens,omitempty"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAIClient) Complete(ctx context.Context, msgs []Message, params Params) (string, error) {
	body := chatRequest{
		Model:            o.model,
		Messages:         make([]chatMessage, len(msgs)),
		Temperature:      params.Temperature,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
	}
	for i, m := range msgs {
		body.Messages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	if params.MaxTokens > 0 {
		body.MaxTokens = &params.MaxTokens
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &CallError{Model: o.model, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &CallError{Model: o.model, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", &CallError{Model: o.model, Message: friendlyNetError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &CallError{
			Model:      o.model,
			Message:    parseAPIError(resp.StatusCode, raw),
			StatusCode: resp.StatusCode,
		}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &CallError{Model: o.model, Message: "malformed response: " + err.Error()}
	}
	if len(out.Choices) == 0 {
		return "", &CallError{Model: o.model, Message: "response contained no choices"}
	}
	return out.Choices[0].Message.Content, nil
}
