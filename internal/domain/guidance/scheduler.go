// Package guidance runs the timer loop that steers a conversation
// toward the fields still missing from the record. One field is
// guided at a time; the wording hardens after repeated unanswered
// attempts, and a cooldown keeps the bot from nagging.
package guidance

import (
	"context"
	"sync"
	"time"

	"github.com/Divyendra-S/sasha/internal/domain/llm"
	"github.com/Divyendra-S/sasha/internal/domain/record"
	"github.com/Divyendra-S/sasha/internal/platform/config"
	"github.com/Divyendra-S/sasha/internal/platform/logging"
)

// Sink receives guidance messages for injection into the live
// conversation. runModel asks the downstream conversational model to
// speak the message immediately. Implementations must honor ctx.
type Sink interface {
	Inject(ctx context.Context, messages []llm.Message, runModel bool) error
}

type Scheduler struct {
	rec     *record.Record
	history *llm.History
	sink    Sink
	cfg     config.GuidanceConfig
	logger  *logging.Logger

	// now is a clock hook for tests.
	now func() time.Time

	mu        sync.Mutex
	attempts  map[string]int
	pending   bool
	lastField string
	lastAt    time.Time
	wrapped   bool
}

func NewScheduler(rec *record.Record, history *llm.History, sink Sink, cfg config.GuidanceConfig, logger *logging.Logger) *Scheduler {
	if cfg.EscalationThreshold <= 0 {
		cfg.EscalationThreshold = 3
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 20
	}
	return &Scheduler{
		rec:      rec,
		history:  history,
		sink:     sink,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		attempts: make(map[string]int),
	}
}

// Run drives guidance cycles until the record completes or ctx is
// cancelled. A panic inside a cycle ends the loop gracefully instead
// of taking the session down.
func (s *Scheduler) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorTag("Guide", "guidance loop panic: %v", r)
		}
	}()

	s.logger.InfoTag("Guide", "guidance loop started (interval %s)", s.cfg.Interval)
	timer := time.NewTimer(s.interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoTag("Guide", "guidance loop cancelled")
			return
		case <-timer.C:
		}

		if done := s.cycle(ctx); done {
			s.logger.InfoTag("Guide", "record complete, guidance loop finished")
			return
		}
		timer.Reset(s.interval())
	}
}

// interval stretches as the record fills in: a nearly complete
// conversation needs fewer nudges than an empty one.
func (s *Scheduler) interval() time.Duration {
	if !s.cfg.Adaptive {
		return s.cfg.Interval
	}
	total := len(s.rec.Schema().Fields)
	missing := len(s.rec.MissingFields())
	if total == 0 {
		return s.cfg.Interval
	}
	ratio := float64(total-missing) / float64(total)
	return s.cfg.Interval + time.Duration(ratio*float64(s.cfg.Interval))
}

// cycle runs one evaluation pass. It returns true when the scheduler
// has reached its terminal state.
func (s *Scheduler) cycle(ctx context.Context) bool {
	s.checkProgress()

	if s.rec.IsComplete() {
		s.wrapUp(ctx)
		return true
	}

	if !s.shouldGuide() {
		return false
	}

	field, text, escalated := s.nextGuidance()
	if text == "" {
		return false
	}
	if s.history.RecentContains(text, 4) {
		s.logger.DebugTag("Guide", "identical guidance already in recent turns, skipping")
		return false
	}

	s.history.Trim(s.cfg.MaxHistory)
	msg := llm.Message{Role: llm.RoleSystem, Content: text}

	injectCtx, cancel := context.WithTimeout(ctx, s.cfg.InjectTimeout)
	err := s.sink.Inject(injectCtx, []llm.Message{msg}, true)
	cancel()
	if err != nil {
		s.logger.ErrorTag("Guide", "guidance injection failed for %s: %v", field, err)
		s.mu.Lock()
		s.pending = false
		s.mu.Unlock()
		return false
	}

	// Recorded only after delivery, so a failed attempt cannot trip
	// the duplicate check and block its own retry.
	s.history.Add(msg)
	s.markAttempt(field)
	s.logger.InfoTag("Guide", "guided toward %s (escalated=%v)", field, escalated)
	return false
}

// checkProgress clears pending state when the guided field has been
// collected, or when the guidance has gone stale without an answer.
func (s *Scheduler) checkProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastField == "" {
		return
	}
	missing := s.rec.MissingFields()
	stillMissing := false
	for _, f := range missing {
		if f == s.lastField {
			stillMissing = true
			break
		}
	}
	if !stillMissing {
		s.logger.InfoTag("Guide", "progress made, %s collected", s.lastField)
		s.pending = false
		s.lastField = ""
		return
	}
	if s.pending && s.now().Sub(s.lastAt) >= s.cfg.PendingTimeout {
		s.logger.WarnTag("Guide", "guidance for %s went stale, clearing pending", s.lastField)
		s.pending = false
	}
}

// shouldGuide applies the pending and cooldown gates.
func (s *Scheduler) shouldGuide() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return false
	}
	if s.lastField != "" && s.now().Sub(s.lastAt) < s.cfg.Cooldown {
		return false
	}
	return true
}

// nextGuidance picks the highest-priority missing field and its
// wording for the current attempt count.
func (s *Scheduler) nextGuidance() (field, text string, escalated bool) {
	missing := s.rec.MissingFields()
	if len(missing) == 0 {
		return "", "", false
	}
	name := missing[0]
	def, ok := s.rec.Schema().Lookup(name)
	if !ok {
		return "", "", false
	}

	s.mu.Lock()
	escalated = s.attempts[name] >= s.cfg.EscalationThreshold
	s.mu.Unlock()

	return name, phraseFor(def, escalated), escalated
}

func (s *Scheduler) markAttempt(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[field]++
	s.pending = true
	s.lastField = field
	s.lastAt = s.now()
}

// wrapUp sends the one-time completion message.
func (s *Scheduler) wrapUp(ctx context.Context) {
	s.mu.Lock()
	if s.wrapped {
		s.mu.Unlock()
		return
	}
	s.wrapped = true
	s.mu.Unlock()

	msg := llm.Message{Role: llm.RoleSystem, Content: wrapUpMessage}
	s.history.Add(msg)

	injectCtx, cancel := context.WithTimeout(ctx, s.cfg.InjectTimeout)
	defer cancel()
	if err := s.sink.Inject(injectCtx, []llm.Message{msg}, true); err != nil {
		s.logger.ErrorTag("Guide", "wrap-up injection failed: %v", err)
	}
}

// Attempts returns the guidance attempt count for a field.
func (s *Scheduler) Attempts(field string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[field]
}

// Pending reports whether a guidance is awaiting a response.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
