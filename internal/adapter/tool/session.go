package tool

import (
	"context"
	"fmt"
	"time"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"
)

type sessionFunc func(ctx context.Context, session output.BrowserSession) (string, error)

// runInSession opens a browser, runs fn against it and closes the browser on
// every exit path. Errors and panics never escape: they are folded into an
// error result.
func runInSession(
	ctx context.Context,
	launcher output.BrowserLauncher,
	timeout time.Duration,
	log output.LoggerPort,
	fn sessionFunc,
) (result *entity.ToolResult) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Browser tool panicked", "panic", r)
			result = entity.ErrorResult(fmt.Errorf("%v", r))
		}
	}()

	session, err := launcher.Open(ctx)
	if err != nil {
		log.Warn("Browser launch failed", "error", err)
		return entity.ErrorResult(err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("Browser close failed", "error", err)
		}
	}()

	text, err := fn(ctx, session)
	if err != nil {
		log.Warn("Browser tool failed", "error", err)
		return entity.ErrorResult(err)
	}
	return entity.TextResult(text)
}
