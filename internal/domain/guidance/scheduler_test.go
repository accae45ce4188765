package guidance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Divyendra-S/sasha/internal/domain/llm"
	"github.com/Divyendra-S/sasha/internal/domain/record"
	"github.com/Divyendra-S/sasha/internal/platform/config"
	platformtesting "github.com/Divyendra-S/sasha/internal/platform/testing"
)

type fakeSink struct {
	mu       sync.Mutex
	injected []llm.Message
	err      error
}

func (f *fakeSink) Inject(ctx context.Context, messages []llm.Message, runModel bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.injected = append(f.injected, messages...)
	return nil
}

func (f *fakeSink) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSink) contents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.injected {
		out = append(out, m.Content)
	}
	return out
}

func testGuidanceConfig() config.GuidanceConfig {
	return config.GuidanceConfig{
		Interval:            45 * time.Second,
		Cooldown:            60 * time.Second,
		PendingTimeout:      120 * time.Second,
		InjectTimeout:       15 * time.Second,
		EscalationThreshold: 3,
		MaxHistory:          20,
	}
}

// testClock lets tests move guidance time forward deterministically.
type testClock struct {
	mu  sync.Mutex
	t   time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestScheduler(t *testing.T, sink Sink) (*Scheduler, *record.Record, *testClock) {
	t.Helper()
	logger := platformtesting.SetupTestLogger(t)
	rec := record.New(record.InterviewSchema(), logger)
	s := NewScheduler(rec, llm.NewHistory(), sink, testGuidanceConfig(), logger)
	clock := newTestClock()
	s.now = clock.now
	return s, rec, clock
}

func TestScheduler_GuidesFirstMissingField(t *testing.T) {
	sink := &fakeSink{}
	s, _, _ := newTestScheduler(t, sink)

	done := s.cycle(context.Background())
	assert.False(t, done)
	assert.Equal(t, []string{"Let's start with your full name please."}, sink.contents())
	assert.Equal(t, 1, s.Attempts("name"))
	assert.True(t, s.Pending())
}

func TestScheduler_PendingBlocksNextCycle(t *testing.T) {
	sink := &fakeSink{}
	s, _, clock := newTestScheduler(t, sink)

	s.cycle(context.Background())
	clock.advance(46 * time.Second)
	s.cycle(context.Background())

	assert.Len(t, sink.contents(), 1, "no new guidance while one is pending")
}

func TestScheduler_ProgressClearsPending(t *testing.T) {
	sink := &fakeSink{}
	s, rec, clock := newTestScheduler(t, sink)

	s.cycle(context.Background())
	assert.True(t, s.Pending())

	rec.UpdateField("name", "Alice")
	clock.advance(61 * time.Second)
	s.cycle(context.Background())

	got := sink.contents()
	assert.Len(t, got, 2)
	assert.Contains(t, got[1], "years of professional experience")
}

func TestScheduler_StalePendingRetriesAfterTimeout(t *testing.T) {
	sink := &fakeSink{}
	s, _, clock := newTestScheduler(t, sink)

	s.cycle(context.Background())
	assert.Len(t, sink.contents(), 1)

	// No progress, still pending and within the stale window.
	clock.advance(90 * time.Second)
	s.cycle(context.Background())
	assert.Len(t, sink.contents(), 1)

	// Conversation moves on without answering.
	for i := 0; i < 4; i++ {
		s.history.Add(llm.Message{Role: llm.RoleUser, Content: "let me think about that"})
	}

	// Past the pending timeout the scheduler tries again.
	clock.advance(40 * time.Second)
	s.cycle(context.Background())
	assert.Len(t, sink.contents(), 2)
}

func TestScheduler_Cooldown(t *testing.T) {
	sink := &fakeSink{}
	s, _, clock := newTestScheduler(t, sink)

	assert.True(t, s.shouldGuide())
	s.markAttempt("name")

	// Pending blocks regardless of time.
	assert.False(t, s.shouldGuide())

	// Clear pending but stay inside the cooldown window.
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
	clock.advance(30 * time.Second)
	assert.False(t, s.shouldGuide())

	clock.advance(31 * time.Second)
	assert.True(t, s.shouldGuide())
}

func TestScheduler_Escalation(t *testing.T) {
	sink := &fakeSink{}
	s, _, _ := newTestScheduler(t, sink)

	for i := 0; i < 2; i++ {
		_, text, escalated := s.nextGuidance()
		assert.False(t, escalated)
		assert.Equal(t, "Let's start with your full name please.", text)
		s.markAttempt("name")
	}

	s.markAttempt("name")
	field, text, escalated := s.nextGuidance()
	assert.Equal(t, "name", field)
	assert.True(t, escalated)
	assert.Contains(t, text, "first and last name")
}

func TestScheduler_DuplicateGuidanceSkipped(t *testing.T) {
	sink := &fakeSink{}
	s, _, _ := newTestScheduler(t, sink)

	s.history.Add(llm.Message{
		Role:    llm.RoleSystem,
		Content: "Let's start with your full name please.",
	})

	s.cycle(context.Background())
	assert.Empty(t, sink.contents())
	assert.False(t, s.Pending())
}

func TestScheduler_InjectionFailureClearsPending(t *testing.T) {
	sink := &fakeSink{err: errors.New("sink unavailable")}
	s, _, _ := newTestScheduler(t, sink)

	done := s.cycle(context.Background())
	assert.False(t, done)
	assert.False(t, s.Pending(), "failure must not leave guidance pending")
	assert.Equal(t, 0, s.Attempts("name"))
	assert.Equal(t, 0, s.history.Len(), "failed guidance must not enter the history")
}

func TestScheduler_RetriesAfterTransientInjectionFailure(t *testing.T) {
	sink := &fakeSink{err: errors.New("sink unavailable")}
	s, _, clock := newTestScheduler(t, sink)

	s.cycle(context.Background())
	assert.Empty(t, sink.contents())

	// Sink recovers; the next cycle must re-issue the same guidance
	// instead of mistaking the failed attempt for a duplicate.
	sink.setErr(nil)
	clock.advance(10 * time.Minute)
	done := s.cycle(context.Background())
	assert.False(t, done)
	assert.Equal(t, []string{"Let's start with your full name please."}, sink.contents())
	assert.Equal(t, 1, s.Attempts("name"))
	assert.True(t, s.Pending())
	assert.Equal(t, 1, s.history.Len())
}

func TestScheduler_WrapUpOnCompletion(t *testing.T) {
	sink := &fakeSink{}
	s, rec, _ := newTestScheduler(t, sink)

	for _, f := range rec.Schema().Fields {
		rec.UpdateField(f.Name, "something 5")
	}

	done := s.cycle(context.Background())
	assert.True(t, done)
	got := sink.contents()
	assert.Len(t, got, 1)
	assert.Contains(t, got[0], "all the information I need")

	// Wrap-up is one-time.
	s.wrapUp(context.Background())
	assert.Len(t, sink.contents(), 1)
}

func TestScheduler_RunCancellation(t *testing.T) {
	sink := &fakeSink{}
	s, _, _ := newTestScheduler(t, sink)
	s.cfg.Interval = 10 * time.Millisecond
	s.cfg.Adaptive = false

	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(doneCh)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancellation")
	}
}

func TestScheduler_AdaptiveInterval(t *testing.T) {
	sink := &fakeSink{}
	s, rec, _ := newTestScheduler(t, sink)
	s.cfg.Adaptive = true

	base := s.interval()
	assert.Equal(t, s.cfg.Interval, base, "empty record keeps the base interval")

	rec.UpdateField("name", "Alice")
	rec.UpdateField("years_experience", "7")
	rec.UpdateField("current_role", "SRE")
	assert.Greater(t, s.interval(), base, "interval stretches as fields fill in")
}
