package server

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(*Config)) *httptest.Server {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(url, "text/plain", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestCompileSuccess(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := post(t, ts.URL+"/compile", "øl x = 1 + 2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "js", resp.Header.Get("X-Oel-Target"))
	assert.Equal(t, "var x = (1 + 2);\n", body)
}

func TestCompileQueryOverrides(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := post(t, ts.URL+"/compile?target=lua&fold=1", "øl x = 1 + 2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "lua", resp.Header.Get("X-Oel-Target"))
	assert.Equal(t, "local x = 3\n", body)
}

func TestCompileConfiguredDefaults(t *testing.T) {
	ts := newTestServer(t, func(c *Config) {
		c.Target = "lua"
		c.Fold = true
	})

	_, body := post(t, ts.URL+"/compile", "øl x = 2 * 2")
	assert.Equal(t, "local x = 4\n", body)

	_, body = post(t, ts.URL+"/compile?fold=false", "øl x = 2 * 2")
	assert.Equal(t, "local x = (2 * 2)\n", body)
}

func TestCompileBadQuery(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := post(t, ts.URL+"/compile?target=cobol", "x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "unknown target")

	resp, _ = post(t, ts.URL+"/compile?fold=maybe", "x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompileDiagnostic(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := post(t, ts.URL+"/compile", "øl x = ]")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body, "<request>:1:"), body)
	assert.Contains(t, body, "parse error")
	assert.Contains(t, body, " 1 | øl x = ]\n")
	assert.NotContains(t, body, "\033[")
}

func TestCompileLenient(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.Lenient = true })

	resp, body := post(t, ts.URL+"/compile", "øl x = ]")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
}

func TestCompileBodyLimit(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.MaxBodyBytes = 8 })

	resp, _ := post(t, ts.URL+"/compile", "øl x = 1 + 2 + 3")
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestCompileMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/compile")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "POST, OPTIONS", resp.Header.Get("Allow"))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, func(c *Config) {
		c.CORS.AllowOrigin = "https://example.org"
		c.CORS.AllowMethods = "POST"
	})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/compile", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://example.org", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Headers"))
}

func TestCORSOnResponses(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, _ := post(t, ts.URL+"/compile", "x")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = "cobol"
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestListenAndServeShutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	s, err := New(cfg, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
