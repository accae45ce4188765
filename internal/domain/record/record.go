package record

import (
	"strings"
	"sync"
	"time"

	"github.com/Divyendra-S/sasha/internal/platform/logging"
)

// UpdateListener is invoked after a field value changes. Listeners run
// outside the record lock and may call back into the record.
type UpdateListener func(field, value string)

// Record accumulates structured values extracted from a conversation.
// All methods are safe for concurrent use.
type Record struct {
	mu        sync.Mutex
	schema    *Schema
	values    map[string]string
	updates   int
	unread    bool
	updatedAt time.Time
	listeners []UpdateListener
	logger    *logging.Logger
}

func New(schema *Schema, logger *logging.Logger) *Record {
	return &Record{
		schema: schema,
		values: make(map[string]string),
		logger: logger,
	}
}

// Schema returns the schema this record collects against.
func (r *Record) Schema() *Schema {
	return r.schema
}

// OnUpdate registers a listener for changed-value writes.
func (r *Record) OnUpdate(fn UpdateListener) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// UpdateField stores a value for a schema field. Empty or
// whitespace-only values and unknown fields are rejected. Writing a
// value identical to the stored one is accepted but does not count as
// a change: the update counter and the unread flag move only when the
// stored value actually differs.
func (r *Record) UpdateField(field, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if _, ok := r.schema.Lookup(field); !ok {
		r.logger.WarnTag("Record", "dropping unknown field %q", field)
		return false
	}

	r.mu.Lock()
	old := r.values[field]
	changed := old != value
	if changed {
		r.values[field] = value
		r.updates++
		r.unread = true
		r.updatedAt = time.Now()
	}
	listeners := make([]UpdateListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	if changed {
		r.logger.InfoTag("Record", "field %s updated: %q -> %q", field, old, value)
		for _, fn := range listeners {
			r.notify(fn, field, value)
		}
	}
	return true
}

// notify shields the record from panicking listeners.
func (r *Record) notify(fn UpdateListener, field, value string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorTag("Record", "update listener panic on %s: %v", field, rec)
		}
	}()
	fn(field, value)
}

// Get returns the stored value for a field.
func (r *Record) Get(field string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[field]
	return v, ok
}

// MissingFields lists fields without a value, in schema order.
func (r *Record) MissingFields() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var missing []string
	for _, f := range r.schema.Fields {
		if r.values[f.Name] == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// CollectedFields returns a copy of all stored values.
func (r *Record) CollectedFields() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// IsComplete reports whether every schema field has a value.
func (r *Record) IsComplete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.schema.Fields {
		if r.values[f.Name] == "" {
			return false
		}
	}
	return true
}

// UpdateCount returns how many changed-value writes have occurred.
func (r *Record) UpdateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

// HasUnread reports whether changes have accumulated since the last
// consuming read.
func (r *Record) HasUnread() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unread
}
