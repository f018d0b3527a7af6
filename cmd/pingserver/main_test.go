package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/appkit"
	"github.com/dmitrymomot/appkit/pkg/metrics"
	"github.com/dmitrymomot/appkit/pkg/requestid"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	app, err := newApp(appkit.Config{}, slog.New(slog.DiscardHandler), metrics.MustNewRecorder(prometheus.NewRegistry()))
	require.NoError(t, err)
	require.NoError(t, app.Startup(t.Context()))
	srv := httptest.NewServer(app)
	t.Cleanup(func() {
		srv.Close()
		_ = app.Shutdown(t.Context())
	})
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestPing(t *testing.T) {
	srv := testServer(t)

	resp, body := get(t, srv.URL+"/ping")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", body)
	assert.NotEmpty(t, resp.Header.Get(requestid.Header))
}

func TestHello(t *testing.T) {
	srv := testServer(t)

	resp, body := get(t, srv.URL+"/hello/gopher")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "hello, gopher", payload.Data["greeting"])
}

func TestNotFound(t *testing.T) {
	srv := testServer(t)

	resp, body := get(t, srv.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.Contains(t, body, `"not_found"`)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/ping", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Allow"), http.MethodGet)
}

func TestProbesAndMetrics(t *testing.T) {
	srv := testServer(t)

	_, body := get(t, srv.URL+"/livez")
	assert.Equal(t, "ALIVE", body)
	_, body = get(t, srv.URL+"/readyz")
	assert.Equal(t, "READY", body)

	_, body = get(t, srv.URL+"/metrics")
	assert.Contains(t, body, "appkit_pipeline_builds_total 1")
	assert.Contains(t, body, `appkit_http_requests_total{method="GET",status="200"} 2`)
}

func TestEcho(t *testing.T) {
	srv := testServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/echo"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hi")))
	kind, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, kind)
	assert.Equal(t, "hi", string(msg))

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
}
