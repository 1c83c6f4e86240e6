package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alkime/scope/internal/api"
	"github.com/alkime/scope/internal/config"
	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/tui/app"
	"github.com/alkime/scope/pkg/channels"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects the messages a handler sends to the program.
type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = append(r.msgs, msg)
}

func (r *recorder) sent() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]tea.Msg(nil), r.msgs...)
}

func newServer(t *testing.T) (*api.Server, *recorder, *channels.Latest[app.Snapshot]) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:        "test",
		HSTSMaxAge: 31536000,
		CSPMode:    "strict",
		LogLevel:   "info",
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &recorder{}
	status := &channels.Latest[app.Snapshot]{}

	return api.New(cfg, logger, rec, status), rec, status
}

func do(srv *api.Server, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newServer(t)

	w := do(srv, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code, "Health endpoint should return 200 OK")
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "scope")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestStatusEndpoint(t *testing.T) {
	srv, _, status := newServer(t)

	w := do(srv, http.MethodGet, "/api/v1/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	status.Store(app.Snapshot{Addr: "sim", Acquiring: true, TriggerDelay: 512})

	w = do(srv, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got app.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "sim", got.Addr)
	assert.True(t, got.Acquiring)
	assert.Equal(t, uint16(512), got.TriggerDelay)
}

func TestCommandEndpoints(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want app.Signal
	}{
		{name: "acquire start", path: "/api/v1/acquire/start", want: app.AcquireStart{}},
		{name: "acquire stop", path: "/api/v1/acquire/stop", want: app.AcquireStop{}},
		{name: "trigger level", path: "/api/v1/trigger/level", body: `{"value": -1.5}`, want: app.TriggerLevel{Value: -1.5}},
		{name: "trigger level zero", path: "/api/v1/trigger/level", body: `{"value": 0}`, want: app.TriggerLevel{Value: 0}},
		{name: "trigger delay", path: "/api/v1/trigger/delay", body: `{"value": 2048}`, want: app.TriggerDelay{Value: 2048}},
		{name: "generator start", path: "/api/v1/generator/out2/start", want: app.GeneratorStart{Source: instrument.OUT2}},
		{name: "generator stop", path: "/api/v1/generator/1/stop", want: app.GeneratorStop{Source: instrument.OUT1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec, _ := newServer(t)

			w := do(srv, http.MethodPost, tt.path, tt.body)

			require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.want.String())
			assert.Equal(t, []tea.Msg{tt.want}, rec.sent())
		})
	}
}

func TestCommandEndpoints_RejectBadInput(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "missing value", path: "/api/v1/trigger/level", body: `{}`},
		{name: "level out of range", path: "/api/v1/trigger/level", body: `{"value": 7}`},
		{name: "delay out of range", path: "/api/v1/trigger/delay", body: `{"value": 20000}`},
		{name: "delay not a number", path: "/api/v1/trigger/delay", body: `{"value": "x"}`},
		{name: "unknown source", path: "/api/v1/generator/out3/start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec, _ := newServer(t)

			w := do(srv, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, rec.sent(), "nothing reaches the console")
		})
	}
}
