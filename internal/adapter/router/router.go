package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

const (
	PathSSE        = "/sse"
	PathSSEMessage = "/sse/message"
	PathMCP        = "/mcp"
)

type RouterConfig struct {
	ServiceName string
	// JSONLogs switches access logs from human readable lines to JSON.
	JSONLogs bool
	// AccessLog disables request logging when false.
	AccessLog bool
}

// NewRouter routes purely on the request path: both SSE paths go to sse,
// the RPC path goes to rpc and anything else is a 404.
func NewRouter(cfg RouterConfig, sse, rpc http.Handler) http.Handler {
	r := chi.NewRouter()

	if cfg.AccessLog {
		accessLogger := httplog.NewLogger(cfg.ServiceName, httplog.Options{
			JSON:    cfg.JSONLogs,
			Concise: true,
		})
		r.Use(httplog.RequestLogger(accessLogger))
	}
	r.Use(middleware.Recoverer)

	r.Handle(PathSSE, sse)
	r.Handle(PathSSEMessage, sse)
	r.Handle(PathMCP, rpc)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not found"))
}
