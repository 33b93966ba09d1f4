package output

import (
	"context"

	"browser-mcp/internal/domain/entity"
)

// BrowserLauncher starts a fresh browser for a single tool invocation.
type BrowserLauncher interface {
	Open(ctx context.Context) (BrowserSession, error)
}

// BrowserSession is one browser process with one page. It is owned by a
// single invocation and must be closed before that invocation returns.
type BrowserSession interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, text string) error
	WaitFor(ctx context.Context, selector string) error

	// TextContent waits for selector and returns its textContent.
	TextContent(ctx context.Context, selector string) (string, error)
	// FindTextContent does not wait; found is false when nothing matches.
	FindTextContent(ctx context.Context, selector string) (text string, found bool, err error)
	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)

	Close() error
}

// MarkupCleaner reduces page markup to its readable content.
type MarkupCleaner interface {
	Clean(html string) string
}
