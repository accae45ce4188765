package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyendra-S/sasha/internal/domain/eventbus"
	"github.com/Divyendra-S/sasha/internal/domain/llm"
	"github.com/Divyendra-S/sasha/internal/domain/record"
	"github.com/Divyendra-S/sasha/internal/domain/session"
	"github.com/Divyendra-S/sasha/internal/domain/session/store"
	platformtesting "github.com/Divyendra-S/sasha/internal/platform/testing"
)

type noopProvider struct{}

func (noopProvider) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	return "{}", nil
}

type noopSink struct{}

func (noopSink) SendGuidance(ctx context.Context, text string) error { return nil }

func (noopSink) SendRecordUpdate(snapshot record.Snapshot) error { return nil }

func newTestAPI(t *testing.T) (*session.Manager, http.Handler) {
	t.Helper()
	cfg := platformtesting.SetupTestConfig(t)
	cfg.Guidance.Interval = time.Hour
	logger := platformtesting.SetupTestLogger(t)

	archive := store.NewMemory(store.Config{TTL: time.Hour})
	t.Cleanup(func() { _ = archive.Close(context.Background()) })
	manager := session.NewManager(cfg, noopProvider{}, eventbus.New(), archive, logger)

	router, err := Build(Options{Config: cfg, Logger: logger})
	require.NoError(t, err)
	NewPublisher(manager, logger).Register(router)
	return manager, router.Engine
}

func doGet(t *testing.T, handler http.Handler, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestPublisher_Health(t *testing.T) {
	_, handler := newTestAPI(t)

	code, body := doGet(t, handler, "/api/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "healthy", body["status"])
}

func TestPublisher_NoActiveSession(t *testing.T) {
	_, handler := newTestAPI(t)

	code, _ := doGet(t, handler, "/api/record-data")
	assert.Equal(t, http.StatusNotFound, code)

	code, body := doGet(t, handler, "/api/record-status")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, false, body["hasNewExtraction"])
}

func TestPublisher_ReadConsumesFlag(t *testing.T) {
	manager, handler := newTestAPI(t)
	s, err := manager.Create(context.Background(), noopSink{})
	require.NoError(t, err)
	defer manager.Close(context.Background(), s.ID)

	s.Record().UpdateField("name", "Alice")

	// Status is a peek: repeated calls keep reporting new data.
	for i := 0; i < 2; i++ {
		code, body := doGet(t, handler, "/api/record-status")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["hasNewExtraction"])
		assert.Equal(t, float64(1), body["extractionCounter"])
	}

	// The full read consumes the flag.
	code, body := doGet(t, handler, "/api/record-data")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["hasNewExtraction"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, []any{"name"}, body["extractedFields"])
	assert.Equal(t, false, body["isComplete"])

	// Extracted and missing together cover the schema exactly once:
	// both sides come from the same snapshot.
	var reported []any
	reported = append(reported, body["extractedFields"].([]any)...)
	reported = append(reported, body["missingFields"].([]any)...)
	assert.ElementsMatch(t,
		[]any{"name", "years_experience", "current_role", "skills", "work_preference", "salary_expectation"},
		reported)

	code, body = doGet(t, handler, "/api/record-status")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["hasNewExtraction"], "full read must clear the flag")

	// A fresh update re-arms it.
	s.Record().UpdateField("current_role", "SRE")
	_, body = doGet(t, handler, "/api/record-status")
	assert.Equal(t, true, body["hasNewExtraction"])
}

func TestPublisher_Sessions(t *testing.T) {
	manager, handler := newTestAPI(t)
	ctx := context.Background()

	s, err := manager.Create(ctx, noopSink{})
	require.NoError(t, err)
	s.Record().UpdateField("name", "Alice")
	manager.Close(ctx, s.ID)

	code, body := doGet(t, handler, "/api/sessions")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	archives := body["data"].([]any)
	require.Len(t, archives, 1)

	code, body = doGet(t, handler, "/api/sessions/"+s.ID)
	assert.Equal(t, http.StatusOK, code)
	archive := body["data"].(map[string]any)
	assert.Equal(t, s.ID, archive["sessionId"])

	code, _ = doGet(t, handler, "/api/sessions/unknown")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPublisher_CORSHeaders(t *testing.T) {
	_, handler := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
