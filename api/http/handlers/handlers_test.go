package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/smartadvisor/backend/api/http"
	"github.com/smartadvisor/backend/api/http/handlers"
	"github.com/smartadvisor/backend/pkg/advisor"
	"github.com/smartadvisor/backend/pkg/contextengine"
	"github.com/smartadvisor/backend/pkg/llm"
	"github.com/smartadvisor/backend/pkg/preset"
)

type stubAdvisor struct {
	queryOut advisor.QueryOutput
	queryErr error
	session  advisor.Session
	err      error

	gotInput advisor.QueryInput
}

func (s *stubAdvisor) Query(_ context.Context, in advisor.QueryInput) (advisor.QueryOutput, error) {
	s.gotInput = in
	return s.queryOut, s.queryErr
}

func (s *stubAdvisor) History(_ context.Context, _ string) (advisor.Session, error) {
	return s.session, s.err
}

func (s *stubAdvisor) DeleteSession(_ context.Context, _ string) error {
	return s.err
}

type stubPresets struct {
	presets  []preset.Preset
	applied  contextengine.Context
	applyErr error
}

func (s *stubPresets) List(_ context.Context) ([]preset.Preset, error) { return s.presets, nil }

func (s *stubPresets) Create(_ context.Context, p preset.Preset) (preset.Preset, error) {
	if p.Name == "" {
		return preset.Preset{}, errors.New("preset name is required")
	}
	return p, nil
}

func (s *stubPresets) Apply(_ context.Context, _ string) (contextengine.Context, error) {
	return s.applied, s.applyErr
}

func (s *stubPresets) Delete(_ context.Context, _ string) error { return s.applyErr }

func (s *stubPresets) SeedDefaults(_ context.Context) error { return nil }

type stubReadiness struct{ err error }

func (s *stubReadiness) Ready(_ context.Context) error { return s.err }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestApp(adv *stubAdvisor, pre *stubPresets, store *contextengine.Store, ready *stubReadiness) *fiber.App {
	if store == nil {
		store = contextengine.NewStore(nil)
	}
	log := quietLogger()
	app := fiber.New()
	httpapi.Register(app,
		handlers.NewQueryHandler(adv, log),
		handlers.NewContextHandler(store, log),
		handlers.NewPresetHandler(pre, log),
		handlers.NewConversationHandler(adv, log),
		handlers.NewHealthHandler(ready),
	)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestQueryEndpoint(t *testing.T) {
	adv := &stubAdvisor{queryOut: advisor.QueryOutput{Response: "42", SessionID: "abc"}}
	app := newTestApp(adv, &stubPresets{}, nil, &stubReadiness{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/query", fiber.Map{
		"query":      "What is the answer?",
		"session_id": "abc",
		"context":    fiber.Map{"role": "Analyst"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "42", body["response"])
	assert.Equal(t, "abc", body["session_id"])
	assert.Equal(t, "What is the answer?", adv.gotInput.Query)
	assert.Equal(t, "abc", adv.gotInput.SessionID)
	assert.Equal(t, contextengine.Context{"role": "Analyst"}, adv.gotInput.Context)
}

func TestQueryEndpointRejectsEmptyQuery(t *testing.T) {
	app := newTestApp(&stubAdvisor{}, &stubPresets{}, nil, &stubReadiness{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/query", fiber.Map{"query": "   "})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "query is required", body["message"])
}

func TestQueryEndpointProviderFailure(t *testing.T) {
	adv := &stubAdvisor{queryErr: &llm.Error{Provider: "openai", Err: errors.New("boom")}}
	app := newTestApp(adv, &stubPresets{}, nil, &stubReadiness{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/query", fiber.Map{"query": "hi"})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["message"], "error processing query")
}

func TestContextLifecycle(t *testing.T) {
	store := contextengine.NewStore(contextengine.Context{"role": "Old"})
	app := newTestApp(&stubAdvisor{}, &stubPresets{}, store, &stubReadiness{})

	// Merge is the default.
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/context", fiber.Map{
		"context": fiber.Map{"mode": "Sales"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Context updated successfully", body["message"])
	assert.Equal(t, contextengine.Context{"role": "Old", "mode": "Sales"}, store.Get())

	// merge=false replaces.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/context", fiber.Map{
		"context": fiber.Map{"role": "New"},
		"merge":   false,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contextengine.Context{"role": "New"}, store.Get())

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/context", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"role": "New"}, body["context"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/context", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, store.Get())
}

func TestContextUpdateRequiresContext(t *testing.T) {
	app := newTestApp(&stubAdvisor{}, &stubPresets{}, nil, &stubReadiness{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/context", fiber.Map{"merge": true})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "context is required", body["message"])
}

func TestPresetEndpoints(t *testing.T) {
	pre := &stubPresets{
		presets: []preset.Preset{{Name: "sales"}},
		applied: contextengine.Context{"role": "Sales Advisor"},
	}
	app := newTestApp(&stubAdvisor{}, pre, nil, &stubReadiness{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/presets/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/presets/", fiber.Map{
		"name":         "custom",
		"context_data": fiber.Map{"role": "X"},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "custom", body["name"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/presets/sales/apply", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Preset 'sales' applied", body["message"])

	pre.applyErr = preset.ErrNotFound
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/presets/missing/apply", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/presets/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConversationEndpoints(t *testing.T) {
	adv := &stubAdvisor{session: advisor.Session{
		SessionID: "s1",
		Context:   contextengine.Context{"role": "Advisor"},
		Messages: []llm.Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
	}}
	app := newTestApp(adv, &stubPresets{}, nil, &stubReadiness{})

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/conversations/s1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "s1", body["session_id"])
	assert.Len(t, body["messages"], 2)

	adv.err = advisor.ErrSessionNotFound
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/conversations/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "session not found", body["message"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/conversations/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	ready := &stubReadiness{}
	app := newTestApp(&stubAdvisor{}, &stubPresets{}, nil, ready)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])

	ready.err = errors.New("postgres: connection refused")
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "not_ready", body["status"])
	assert.Contains(t, body["details"], "postgres")
}
