// Package llm defines the chat-completion interface the extraction and
// guidance layers talk to, decoupled from any one vendor SDK.
package llm

import "context"

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider produces a single non-streaming completion for a message
// history. Implementations must honor ctx cancellation.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
