package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_TrimKeepsSystemAnchor(t *testing.T) {
	h := NewHistory()
	h.Add(Message{Role: RoleSystem, Content: "you are an interviewer"})
	for i := 0; i < 30; i++ {
		h.Add(Message{Role: RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	h.Trim(10)

	msgs := h.Messages()
	assert.Len(t, msgs, 11)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, "turn 29", msgs[len(msgs)-1].Content)
	assert.Equal(t, "turn 20", msgs[1].Content)
}

func TestHistory_TrimNoopWhenSmall(t *testing.T) {
	h := NewHistory()
	h.Add(Message{Role: RoleUser, Content: "hello"})
	h.Trim(10)
	assert.Equal(t, 1, h.Len())
}

func TestHistory_RecentContains(t *testing.T) {
	h := NewHistory()
	h.Add(Message{Role: RoleSystem, Content: "please share your name"})
	for i := 0; i < 5; i++ {
		h.Add(Message{Role: RoleUser, Content: "small talk"})
	}

	assert.True(t, h.RecentContains("small talk", 2))
	assert.False(t, h.RecentContains("share your name", 4))
	assert.True(t, h.RecentContains("share your name", 10))
}

func TestHistory_Recent(t *testing.T) {
	h := NewHistory()
	h.Add(Message{Role: RoleUser, Content: "a"})
	h.Add(Message{Role: RoleAssistant, Content: "b"})

	assert.Len(t, h.Recent(5), 2)
	assert.Equal(t, "b", h.Recent(1)[0].Content)
}
