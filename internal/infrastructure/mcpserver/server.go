package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"browser-mcp/internal/application/port/input"
	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	SSEPath        = "/sse"
	MessagePath    = "/sse/message"
	StreamablePath = "/mcp"
)

type Config struct {
	Name    string
	Version string
	// BaseURL prefixes the message endpoint announced to SSE clients.
	// Empty announces a relative path.
	BaseURL string
}

func DefaultConfig() Config {
	return Config{
		Name:    "Authless Calculator",
		Version: "1.0.0",
	}
}

// ServerAdapter exposes the tools of a ToolInvoker over the SSE and
// streamable HTTP transports of mcp-go.
type ServerAdapter struct {
	mcp        *server.MCPServer
	sse        *server.SSEServer
	streamable *server.StreamableHTTPServer
	invoker    input.ToolInvoker
	logger     output.LoggerPort
}

func NewServerAdapter(cfg Config, invoker input.ToolInvoker, logger output.LoggerPort) (*ServerAdapter, error) {
	a := &ServerAdapter{
		mcp:     server.NewMCPServer(cfg.Name, cfg.Version, server.WithToolCapabilities(false), server.WithRecovery()),
		invoker: invoker,
		logger:  logger,
	}

	for _, def := range invoker.Definitions() {
		schema, err := json.Marshal(def.Parameters)
		if err != nil {
			return nil, fmt.Errorf("marshal schema for %s: %w", def.Name, err)
		}
		a.mcp.AddTool(mcp.NewToolWithRawSchema(def.Name.String(), def.Description, schema), a.handle(def.Name))
	}

	sseOpts := []server.SSEOption{
		server.WithSSEEndpoint(SSEPath),
		server.WithMessageEndpoint(MessagePath),
	}
	if cfg.BaseURL != "" {
		sseOpts = append(sseOpts, server.WithBaseURL(cfg.BaseURL))
	}
	a.sse = server.NewSSEServer(a.mcp, sseOpts...)
	a.streamable = server.NewStreamableHTTPServer(a.mcp, server.WithEndpointPath(StreamablePath))

	logger.Info("MCP server configured",
		"name", cfg.Name,
		"version", cfg.Version,
		"tools", len(invoker.Definitions()),
	)

	return a, nil
}

// SSEHandler serves both the event stream and the message endpoint.
func (a *ServerAdapter) SSEHandler() http.Handler {
	return a.sse
}

// StreamableHandler serves the streamable HTTP transport. Methods the
// transport does not implement get 405 instead of mcp-go's 404.
func (a *ServerAdapter) StreamableHandler() http.Handler {
	return allowMethods(a.streamable, http.MethodGet, http.MethodPost, http.MethodDelete)
}

func allowMethods(next http.Handler, methods ...string) http.Handler {
	allow := strings.Join(methods, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, m := range methods {
			if r.Method == m {
				next.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("Allow", allow)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte("Method not allowed"))
	})
}

func (a *ServerAdapter) Shutdown(ctx context.Context) error {
	return errors.Join(
		a.sse.Shutdown(ctx),
		a.streamable.Shutdown(ctx),
	)
}

// handle bridges an MCP tool call to the invoker. Validation failures are
// returned as errors and surface as protocol errors; execution failures are
// already folded into the result text.
func (a *ServerAdapter) handle(name entity.ToolName) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args []byte
		if req.Params.Arguments != nil {
			var err error
			if args, err = json.Marshal(req.Params.Arguments); err != nil {
				return nil, fmt.Errorf("encode arguments: %w", err)
			}
		}

		result, err := a.invoker.Invoke(ctx, name, args)
		if err != nil {
			return nil, err
		}
		return toCallToolResult(result), nil
	}
}

func toCallToolResult(result *entity.ToolResult) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(result.Content))
	for _, item := range result.Content {
		content = append(content, mcp.NewTextContent(item.Text))
	}
	return &mcp.CallToolResult{Content: content}
}
