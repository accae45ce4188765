package llm

import (
	"strings"
	"sync"
)

// History is a thread-safe conversation transcript. It keeps the first
// system instruction anchored when trimming so the model never loses
// its role.
type History struct {
	mu       sync.Mutex
	messages []Message
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Add(msg Message) {
	h.mu.Lock()
	h.messages = append(h.messages, msg)
	h.mu.Unlock()
}

// Messages returns a copy of the transcript.
func (h *History) Messages() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

// Trim bounds the transcript to the leading system message plus the
// most recent max turns.
func (h *History) Trim(max int) {
	if max <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var system []Message
	rest := h.messages
	if len(rest) > 0 && rest[0].Role == RoleSystem {
		system = rest[:1]
		rest = rest[1:]
	}
	if len(rest) > max {
		rest = rest[len(rest)-max:]
	}
	h.messages = append(append([]Message{}, system...), rest...)
}

// RecentContains reports whether any of the last n messages contains
// the given text. Used to avoid injecting a duplicate prompt.
func (h *History) RecentContains(text string, n int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := len(h.messages) - n
	if start < 0 {
		start = 0
	}
	for _, msg := range h.messages[start:] {
		if strings.Contains(msg.Content, text) {
			return true
		}
	}
	return false
}

// Recent returns up to the last n messages.
func (h *History) Recent(n int) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := len(h.messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]Message, len(h.messages)-start)
	copy(out, h.messages[start:])
	return out
}
