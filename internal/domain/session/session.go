// Package session wires one conversation's pipeline together:
// transcript fragments flow through the utterance buffer into the
// extraction worker, which fills the shared record, while the
// guidance scheduler nudges the conversation toward what is still
// missing.
package session

import (
	"context"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"

	"github.com/Divyendra-S/sasha/internal/domain/eventbus"
	"github.com/Divyendra-S/sasha/internal/domain/extraction"
	"github.com/Divyendra-S/sasha/internal/domain/guidance"
	"github.com/Divyendra-S/sasha/internal/domain/llm"
	"github.com/Divyendra-S/sasha/internal/domain/record"
	"github.com/Divyendra-S/sasha/internal/platform/config"
	"github.com/Divyendra-S/sasha/internal/platform/errors"
	"github.com/Divyendra-S/sasha/internal/platform/logging"
)

// Transcript directions.
const (
	DirectionUser      = "user"
	DirectionAssistant = "assistant"
)

// MessageSink delivers bot output to the connected client.
type MessageSink interface {
	SendGuidance(ctx context.Context, text string) error
	SendRecordUpdate(snapshot record.Snapshot) error
}

// Session owns the extraction pipeline for one conversation.
type Session struct {
	ID        string
	StartedAt time.Time

	rec       *record.Record
	buffer    *extraction.Buffer
	worker    *extraction.Worker
	scheduler *guidance.Scheduler
	history   *llm.History
	bus       evbus.Bus
	sink      MessageSink
	logger    *logging.Logger

	cancel    context.CancelFunc
	closeOnce sync.Once
}

func New(id string, cfg *config.Config, provider llm.Provider, sink MessageSink, bus evbus.Bus, logger *logging.Logger) (*Session, error) {
	const op = "session.New"

	schema, ok := record.SchemaByName(cfg.Session.Schema)
	if !ok {
		return nil, errors.New(errors.KindSession, op, "unknown schema: "+cfg.Session.Schema)
	}

	s := &Session{
		ID:        id,
		StartedAt: time.Now(),
		history:   llm.NewHistory(),
		bus:       bus,
		sink:      sink,
		logger:    logger,
	}

	s.rec = record.New(schema, logger)
	s.rec.OnUpdate(s.onRecordUpdate)

	keywords := extraction.InterviewKeywords
	if schema.Name == "job_description" {
		keywords = extraction.JobDescriptionKeywords
	}
	filter := extraction.NewFilter(cfg.Buffer.MinChars, keywords)
	s.worker = extraction.NewWorker(provider, s.rec, filter, cfg.Extraction, logger)
	s.buffer = extraction.NewBuffer(cfg.Buffer, s.onUtterance, logger)
	s.scheduler = guidance.NewScheduler(s.rec, s.history, &guidanceSink{s}, cfg.Guidance, logger)

	return s, nil
}

// Start launches the guidance loop. It returns immediately; the loop
// stops when Close is called or the record completes.
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.scheduler.Run(ctx)
	s.logger.InfoTag("Session", "session %s started (schema %s)", s.ID, s.rec.Schema().Name)
}

// OnTranscript feeds one transcript event into the pipeline. Only
// final user fragments reach the extraction buffer; assistant turns
// are recorded in the history for guidance context.
func (s *Session) OnTranscript(text, direction string, final bool) {
	if !final {
		return
	}
	switch direction {
	case DirectionUser:
		s.history.Add(llm.Message{Role: llm.RoleUser, Content: text})
		s.buffer.Add(text)
	case DirectionAssistant:
		s.history.Add(llm.Message{Role: llm.RoleAssistant, Content: text})
	}
}

// Record exposes the shared record for the publisher.
func (s *Session) Record() *record.Record {
	return s.rec
}

// History exposes the conversation transcript.
func (s *Session) History() *llm.History {
	return s.history
}

// Close tears the pipeline down: the buffer flushes its remainder,
// in-flight extractions finish, and the guidance loop is cancelled.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.buffer.Close()
		s.worker.Close()
		s.bus.Publish(eventbus.TopicSessionClosed, s.ID)
		s.logger.InfoTag("Session", "session %s closed (%d updates)", s.ID, s.rec.UpdateCount())
	})
}

func (s *Session) onUtterance(utterance string) {
	s.logger.DebugTag("Session", "utterance flushed: %q", utterance)
	s.worker.Submit(utterance)
}

// onRecordUpdate announces the change on the bus; the manager's
// subscription routes it back into PushRecordUpdate for the client
// push.
func (s *Session) onRecordUpdate(field, value string) {
	s.bus.Publish(eventbus.TopicRecordUpdated, s.ID, field, value)
	if s.rec.IsComplete() {
		s.bus.Publish(eventbus.TopicRecordComplete, s.ID)
	}
}

// PushRecordUpdate sends the current snapshot to the connected client.
func (s *Session) PushRecordUpdate() {
	if err := s.sink.SendRecordUpdate(s.rec.Peek()); err != nil {
		s.logger.WarnTag("Session", "record update push failed: %v", err)
	}
}

// guidanceSink adapts the session's message sink to the scheduler's
// injection interface.
type guidanceSink struct {
	s *Session
}

func (g *guidanceSink) Inject(ctx context.Context, messages []llm.Message, runModel bool) error {
	for _, msg := range messages {
		if err := g.s.sink.SendGuidance(ctx, msg.Content); err != nil {
			return err
		}
		g.s.bus.Publish(eventbus.TopicGuidanceSent, g.s.ID, msg.Content)
	}
	return nil
}
