package record

import (
	"strings"
	"time"
)

// Snapshot is a point-in-time projection of a record, shaped for
// publishing: field keys are the schema's snapshot keys and list
// fields are split into slices.
type Snapshot struct {
	Schema      string         `json:"schema"`
	Data        map[string]any `json:"data"`
	Missing     []string       `json:"missingFields"`
	Complete    bool           `json:"complete"`
	UpdateCount int            `json:"updateCount"`
	HasUpdates  bool           `json:"hasUpdates"`
	CapturedAt  time.Time      `json:"capturedAt"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty"`
}

// Peek builds a snapshot without consuming the unread flag.
func (r *Record) Peek() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Consume builds a snapshot and clears the unread flag, so the next
// status check reports no pending updates until another field changes.
func (r *Record) Consume() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.snapshotLocked()
	r.unread = false
	return snap
}

func (r *Record) snapshotLocked() Snapshot {
	data := make(map[string]any, len(r.values))
	var missing []string
	complete := true
	for _, f := range r.schema.Fields {
		v := r.values[f.Name]
		if v == "" {
			missing = append(missing, f.Name)
			complete = false
			continue
		}
		if f.List {
			data[f.SnapshotKey] = splitList(v)
		} else {
			data[f.SnapshotKey] = v
		}
	}
	return Snapshot{
		Schema:      r.schema.Name,
		Data:        data,
		Missing:     missing,
		Complete:    complete,
		UpdateCount: r.updates,
		HasUpdates:  r.unread,
		CapturedAt:  time.Now(),
		UpdatedAt:   r.updatedAt,
	}
}

// splitList breaks a delimited value into trimmed items. Commas,
// semicolons and newlines all act as separators.
func splitList(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
