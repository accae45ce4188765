package ws

import "github.com/Divyendra-S/sasha/internal/domain/record"

// Inbound is a frame received from the client.
type Inbound struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Direction string `json:"direction,omitempty"`
	Final     bool   `json:"final,omitempty"`
}

// Outbound is a frame pushed to the client.
type Outbound struct {
	Type      string           `json:"type"`
	SessionID string           `json:"sessionId,omitempty"`
	Text      string           `json:"text,omitempty"`
	Record    *record.Snapshot `json:"record,omitempty"`
}

// Frame types.
const (
	FrameTranscript   = "transcript"
	FrameGuidance     = "guidance"
	FrameRecordUpdate = "record-update"
	FrameSession      = "session"
)
