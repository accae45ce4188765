package extraction

import (
	"context"
	"sync"
	"time"

	"github.com/Divyendra-S/sasha/internal/domain/llm"
	"github.com/Divyendra-S/sasha/internal/domain/record"
	"github.com/Divyendra-S/sasha/internal/platform/config"
	"github.com/Divyendra-S/sasha/internal/platform/logging"
)

// Worker runs extraction calls in the background with a hard cap on
// in-flight requests. Utterances arriving while the cap is reached are
// dropped, not queued: stale speech is worth less than keeping the
// pipeline responsive, and later utterances usually restate what
// matters.
type Worker struct {
	provider llm.Provider
	rec      *record.Record
	filter   *Filter
	cfg      config.ExtractionConfig
	logger   *logging.Logger

	mu     sync.Mutex
	active int
	closed bool
	wg     sync.WaitGroup
}

func NewWorker(provider llm.Provider, rec *record.Record, filter *Filter, cfg config.ExtractionConfig, logger *logging.Logger) *Worker {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Worker{
		provider: provider,
		rec:      rec,
		filter:   filter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Submit schedules an utterance for extraction. It returns false when
// the utterance was filtered out or dropped because too many
// extractions are already running.
func (w *Worker) Submit(utterance string) bool {
	if !w.filter.ShouldExtract(utterance) {
		w.logger.DebugTag("Extract", "filtered out: %q", utterance)
		return false
	}

	w.mu.Lock()
	if w.closed || w.active >= w.cfg.MaxConcurrent {
		capped := !w.closed
		w.mu.Unlock()
		if capped {
			w.logger.WarnTag("Extract", "at concurrency cap (%d), dropping: %q",
				w.cfg.MaxConcurrent, utterance)
		}
		return false
	}
	w.active++
	w.wg.Add(1)
	w.mu.Unlock()

	go w.run(utterance)
	return true
}

// Active returns the number of in-flight extraction calls.
func (w *Worker) Active() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Close stops accepting new work and waits for in-flight extractions.
func (w *Worker) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *Worker) run(utterance string) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.ErrorTag("Extract", "extraction panic: %v", r)
		}
		w.mu.Lock()
		w.active--
		w.mu.Unlock()
		w.wg.Done()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout)
	defer cancel()

	start := time.Now()
	prompt := BuildPrompt(w.rec.Schema(), w.rec.CollectedFields(), utterance)
	response, err := w.provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		w.logger.ErrorTag("Extract", "extraction call failed: %v", err)
		return
	}

	fields := ParseFields(response)
	if len(fields) == 0 {
		w.logger.DebugTag("Extract", "no fields extracted from: %q", utterance)
		return
	}

	applied := 0
	for field, value := range fields {
		if !Validate(field, value) {
			w.logger.WarnTag("Extract", "rejected implausible %s value: %q", field, value)
			continue
		}
		if w.rec.UpdateField(field, value) {
			applied++
		}
	}
	w.logger.InfoTag("Extract", "applied %d/%d fields in %s",
		applied, len(fields), time.Since(start).Round(time.Millisecond))
}
