// Package eventbus carries cross-component notifications: record
// updates, guidance injections and session lifecycle events. Topics
// are constants here so publishers and subscribers cannot drift.
package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

const (
	// TopicRecordUpdated fires with (sessionID, field, value) on every
	// changed-value write.
	TopicRecordUpdated = "record:updated"
	// TopicRecordComplete fires with (sessionID) once all fields are
	// collected.
	TopicRecordComplete = "record:complete"
	// TopicGuidanceSent fires with (sessionID, text) after a
	// guidance injection succeeds.
	TopicGuidanceSent = "guidance:sent"
	// TopicSessionClosed fires with (sessionID) at teardown.
	TopicSessionClosed = "session:closed"
)

// New creates an event bus for one server instance.
func New() evbus.Bus {
	return evbus.New()
}
