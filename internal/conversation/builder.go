// Package conversation builds the ordered message sequence sent to the model
// and orchestrates the interception, completion and logging of one query.
package conversation

import (
	"fmt"

	"github.com/parley-cli/parley/internal/history"
	"github.com/parley-cli/parley/internal/provider"
)

const (
	defaultSystemPrompt = "You are a helpful assistant"

	// transformSystemPrompt pins the model to literal-text interpretation
	// when a transformation instruction is configured.
	transformSystemPrompt = "You are a helpful assistant who interprets every input as raw " +
		"text unless instructed otherwise. Your answers do not include a description unless " +
		"prompted to do so. Also drop any \"`\" characters from your response."

	// SeedAck is the fixed assistant half of the synthetic seed pair.
	SeedAck = "Okay! How can I help?"
)

// Builder produces the exact message sequence for a prompt, in one of two
// mutually exclusive modes: transformation (fixed two-message shape, history
// ignored) or conversational (system + history window + optional seed pair +
// prompt).
type Builder struct {
	history         *history.Store
	transformPrompt string
	seedPrompt      string
	unlocked        bool
}

func NewBuilder(store *history.Store, transformPrompt, seedPrompt string, unlocked bool) *Builder {
	return &Builder{
		history:         store,
		transformPrompt: transformPrompt,
		seedPrompt:      seedPrompt,
		unlocked:        unlocked,
	}
}

// Build returns a non-empty sequence that always ends with prompt as the
// final user message. History read failures degrade to an empty window.
func (b *Builder) Build(prompt string) []provider.Message {
	if b.transformPrompt != "" {
		return []provider.Message{
			{Role: provider.RoleSystem, Content: transformSystemPrompt},
			{Role: provider.RoleUser, Content: fmt.Sprintf("%s Don't add any comments: %s", b.transformPrompt, prompt)},
		}
	}

	msgs := []provider.Message{{Role: provider.RoleSystem, Content: defaultSystemPrompt}}

	window, err := b.history.ReadWindow()
	if err != nil {
		window = nil
	}
	for _, ex := range window {
		// The seed pair is injected synthetically below; replaying a
		// logged copy would seed it twice.
		if b.seedPrompt != "" && ex.UserText == b.seedPrompt {
			continue
		}
		msgs = append(msgs,
			provider.Message{Role: provider.RoleUser, Content: ex.UserText},
			provider.Message{Role: provider.RoleAssistant, Content: ex.AssistantText},
		)
	}

	if b.seedPrompt != "" && b.unlocked {
		msgs = append(msgs,
			provider.Message{Role: provider.RoleUser, Content: b.seedPrompt},
			provider.Message{Role: provider.RoleAssistant, Content: SeedAck},
		)
	}

	return append(msgs, provider.Message{Role: provider.RoleUser, Content: prompt})
}
