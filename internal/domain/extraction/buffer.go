package extraction

import (
	"strings"
	"sync"
	"time"

	"github.com/Divyendra-S/sasha/internal/platform/config"
	"github.com/Divyendra-S/sasha/internal/platform/logging"
)

// FlushFunc receives a complete utterance assembled from transcript
// fragments. It is called from the buffer's goroutine or the caller's,
// never while the buffer lock is held.
type FlushFunc func(utterance string)

// Buffer assembles streaming transcript fragments into complete
// utterances. A flush happens when a fragment ends a sentence, when
// the buffered text grows past the configured limits, or when no new
// fragment arrives within the idle timeout.
type Buffer struct {
	mu        sync.Mutex
	fragments []string
	chars     int
	timer     *time.Timer
	closed    bool

	cfg    config.BufferConfig
	flush  FlushFunc
	logger *logging.Logger
}

func NewBuffer(cfg config.BufferConfig, flush FlushFunc, logger *logging.Logger) *Buffer {
	return &Buffer{
		cfg:    cfg,
		flush:  flush,
		logger: logger,
	}
}

// Add appends a transcript fragment. Empty fragments are ignored.
func (b *Buffer) Add(fragment string) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.fragments = append(b.fragments, fragment)
	b.chars += len(fragment)

	var utterance string
	if endsSentence(fragment) ||
		b.chars >= b.cfg.MaxChars ||
		len(b.fragments) >= b.cfg.MaxFragments {
		utterance = b.drainLocked()
	} else {
		b.resetTimerLocked()
	}
	b.mu.Unlock()

	if utterance != "" {
		b.flush(utterance)
	}
}

// Flush forces out whatever is buffered, if anything.
func (b *Buffer) Flush() {
	b.mu.Lock()
	utterance := b.drainLocked()
	b.mu.Unlock()

	if utterance != "" {
		b.flush(utterance)
	}
}

// Close stops the idle timer and flushes any remaining text.
func (b *Buffer) Close() {
	b.mu.Lock()
	b.closed = true
	utterance := b.drainLocked()
	b.mu.Unlock()

	if utterance != "" {
		b.flush(utterance)
	}
}

// drainLocked joins and clears the buffered fragments. Caller holds
// the lock.
func (b *Buffer) drainLocked() string {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if len(b.fragments) == 0 {
		return ""
	}
	utterance := strings.Join(b.fragments, " ")
	b.fragments = nil
	b.chars = 0
	return utterance
}

func (b *Buffer) resetTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.cfg.IdleTimeout, b.onIdle)
}

func (b *Buffer) onIdle() {
	b.mu.Lock()
	utterance := b.drainLocked()
	b.mu.Unlock()

	if utterance != "" {
		b.logger.DebugTag("Extract", "idle flush: %q", utterance)
		b.flush(utterance)
	}
}

func endsSentence(fragment string) bool {
	return strings.HasSuffix(fragment, ".") ||
		strings.HasSuffix(fragment, "!") ||
		strings.HasSuffix(fragment, "?")
}
