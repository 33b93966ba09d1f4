package di

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"browser-mcp/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapConfig map[string]string

func (m mapConfig) Get(key string) string { return m[key] }

func (m mapConfig) GetWithDefault(key, def string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return def
}

func (m mapConfig) GetBool(key string, def bool) bool {
	switch m[key] {
	case "true":
		return true
	case "false":
		return false
	}
	return def
}

func (m mapConfig) GetInt(key string, def int) int {
	if m[key] == "800" {
		return 800
	}
	return def
}

func (m mapConfig) GetDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(m[key]); err == nil {
		return v
	}
	return def
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig(mapConfig{})

	assert.Equal(t, "Authless Calculator", cfg.MCP.Name)
	assert.Equal(t, "1.0.0", cfg.MCP.Version)
	assert.True(t, cfg.Browser.Headless)
	assert.False(t, cfg.Browser.NoSandbox)
	assert.Equal(t, 30*time.Second, cfg.BrowserTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.AccessLog)
	assert.Zero(t, cfg.Markup.MaxBytes)
	assert.True(t, cfg.Markup.KeepTitle)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg := LoadConfig(mapConfig{
		"MCP_SERVER_NAME":              "Tools",
		"MCP_BASE_URL":                 "https://tools.example.com",
		"BROWSER_HEADLESS":             "false",
		"BROWSER_NO_SANDBOX":           "true",
		"BROWSER_TIMEOUT":              "5s",
		"BROWSER_SCREENSHOT_MAX_WIDTH": "800",
		"SCRAPE_CLEAN_MAX_BYTES":       "800",
		"SCRAPE_CLEAN_KEEP_TITLE":      "false",
		"LOG_LEVEL":                    "debug",
		"ACCESS_LOG":                   "false",
	})

	assert.Equal(t, "Tools", cfg.MCP.Name)
	assert.Equal(t, "https://tools.example.com", cfg.MCP.BaseURL)
	assert.False(t, cfg.Browser.Headless)
	assert.True(t, cfg.Browser.NoSandbox)
	assert.Equal(t, 5*time.Second, cfg.BrowserTimeout)
	assert.Equal(t, 800, cfg.Browser.ScreenshotMaxWidth)
	assert.Equal(t, 800, cfg.Markup.MaxBytes)
	assert.False(t, cfg.Markup.KeepTitle)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.AccessLog)
}

func TestNewContainer(t *testing.T) {
	c := newTestContainer(t)

	defs := c.Tools.Definitions()
	names := make([]entity.ToolName, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []entity.ToolName{
		entity.ToolAdd,
		entity.ToolCalculate,
		entity.ToolPlaywrightNavigate,
		entity.ToolPlaywrightScrape,
	}, names)

	res, err := c.Invoker.Invoke(context.Background(), entity.ToolAdd, []byte(`{"a":2,"b":3}`))
	require.NoError(t, err)
	assert.Equal(t, "5", res.Text())

	rec := httptest.NewRecorder()
	c.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewContainer_InvalidNavigateURLRejected(t *testing.T) {
	c := newTestContainer(t)

	_, err := c.Invoker.Invoke(context.Background(), entity.ToolPlaywrightNavigate, []byte(`{"url":"example"}`))
	assert.Error(t, err)
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Log.File = filepath.Join(t.TempDir(), "server.log")
	cfg.AccessLog = false

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(context.Background()) })
	return c
}

func TestRouter_TransportMethods(t *testing.T) {
	c := newTestContainer(t)
	srv := httptest.NewServer(c.Router)
	defer srv.Close()

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodPut, "/mcp", http.StatusMethodNotAllowed, "Method not allowed"},
		{http.MethodPatch, "/mcp", http.StatusMethodNotAllowed, "Method not allowed"},
		{http.MethodGet, "/x", http.StatusNotFound, "Not found"},
		{http.MethodPost, "/mcp/extra", http.StatusNotFound, "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, string(body))
		})
	}

	// Transport paths never answer 404, whatever the transport thinks of the request.
	for _, rt := range []struct{ method, path string }{
		{http.MethodPost, "/sse"},
		{http.MethodGet, "/sse/message"},
		{http.MethodPost, "/sse/message"},
		{http.MethodDelete, "/mcp"},
		{http.MethodPut, "/mcp"},
	} {
		req, err := http.NewRequest(rt.method, srv.URL+rt.path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.NotEqual(t, http.StatusNotFound, resp.StatusCode, "%s %s", rt.method, rt.path)
	}
}

func TestRouter_SSERoundTrip(t *testing.T) {
	c := newTestContainer(t)
	srv := httptest.NewServer(c.Router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sse", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := bufio.NewReader(resp.Body)
	endpoint := readEvent(t, events, "endpoint", "")
	if !strings.HasPrefix(endpoint, "http") {
		endpoint = srv.URL + endpoint
	}
	require.Contains(t, endpoint, "/sse/message")

	post := func(body string) {
		res, err := http.Post(endpoint, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		res.Body.Close()
		require.Less(t, res.StatusCode, 300)
	}

	post(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`)
	initialized := readEvent(t, events, "message", `"id":1`)
	assert.Contains(t, initialized, "Authless Calculator")

	post(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"calculate","arguments":{"operation":"divide","a":1,"b":0}}}`)
	result := readEvent(t, events, "message", `"id":2`)
	assert.Contains(t, result, `{"content":[{"type":"text","text":"Error: Cannot divide by zero"}]}`)
}

// readEvent returns the data of the next SSE event named name whose data
// contains match.
func readEvent(t *testing.T, r *bufio.Reader, name, match string) string {
	t.Helper()
	event := ""
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\r\n")

		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if event == name && strings.Contains(data, match) {
				return data
			}
		case line == "":
			event = ""
		}
	}
}

func TestNewContainer_StoppedContextRefusesBrowserLaunch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.File = filepath.Join(t.TempDir(), "server.log")
	cfg.AccessLog = false

	ctx, cancel := context.WithCancel(context.Background())
	c, err := NewContainer(ctx, cfg)
	require.NoError(t, err)
	defer c.Close(context.Background())
	cancel()

	res, err := c.Invoker.Invoke(context.Background(), entity.ToolPlaywrightScrape, []byte(`{"url":"https://example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "Error: browser launcher stopped: context canceled", res.Text())
}
