package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"
)

var (
	ErrUnsupportedAction = errors.New("unsupported action")
	ErrMissingText       = errors.New("text is required")
)

const (
	ActionClick   = "click"
	ActionType    = "type"
	ActionGetText = "getText"
)

var (
	_ output.ToolPort = (*NavigateTool)(nil)
	_ output.ToolPort = (*ScrapeTool)(nil)
)

type NavigateTool struct {
	browser output.BrowserLauncher
	logger  output.LoggerPort
	timeout time.Duration
}

func NewNavigateTool(browser output.BrowserLauncher, logger output.LoggerPort, timeout time.Duration) *NavigateTool {
	return &NavigateTool{browser: browser, logger: logger, timeout: timeout}
}

func (t *NavigateTool) Name() entity.ToolName { return entity.ToolPlaywrightNavigate }
func (t *NavigateTool) Description() string {
	return "Opens a URL in a headless browser, optionally interacts with one element and takes a screenshot"
}
func (t *NavigateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"format":      "uri",
				"description": "Absolute URL to open",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector of the element to act on",
			},
			"action": map[string]interface{}{
				"type":        "string",
				"description": "One of click, type, getText. Requires selector",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to type when action is type",
			},
			"screenshot": map[string]interface{}{
				"type":        "boolean",
				"default":     false,
				"description": "Capture a full-page screenshot",
			},
		},
		"required": []string{"url"},
	}
}

type navigateInput struct {
	URL        string `json:"url"`
	Selector   string `json:"selector"`
	Action     string `json:"action"`
	Text       string `json:"text"`
	Screenshot bool   `json:"screenshot"`
}

func (in navigateInput) hasInteraction() bool {
	return in.Selector != "" && in.Action != ""
}

func (in navigateInput) validateAction() error {
	if !in.hasInteraction() {
		return nil
	}
	switch in.Action {
	case ActionClick, ActionGetText:
		return nil
	case ActionType:
		if in.Text == "" {
			return fmt.Errorf("%w for action %q", ErrMissingText, ActionType)
		}
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedAction, in.Action)
	}
}

func (t *NavigateTool) Execute(ctx context.Context, args string) (*entity.ToolResult, error) {
	var input navigateInput
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return nil, fmt.Errorf("invalid input format: %w", err)
	}

	// Rejected before a browser is launched.
	if err := input.validateAction(); err != nil {
		return entity.ErrorResult(err), nil
	}

	log := t.logger.WithField("url", input.URL)
	return runInSession(ctx, t.browser, t.timeout, log, func(ctx context.Context, s output.BrowserSession) (string, error) {
		return navigate(ctx, s, input)
	}), nil
}

func navigate(ctx context.Context, s output.BrowserSession, input navigateInput) (string, error) {
	if err := s.Navigate(ctx, input.URL); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Navigated to %s", input.URL)

	if input.hasInteraction() {
		switch input.Action {
		case ActionClick:
			if err := s.Click(ctx, input.Selector); err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, "\nClicked element: %s", input.Selector)
		case ActionType:
			if err := s.Fill(ctx, input.Selector, input.Text); err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, "\nTyped \"%s\" into element: %s", input.Text, input.Selector)
		case ActionGetText:
			text, err := s.TextContent(ctx, input.Selector)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, "\nText from %s: %s", input.Selector, text)
		}
	}

	if input.Screenshot {
		shot, err := s.Screenshot(ctx)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "\nScreenshot taken (%d bytes)", len(shot.Data))
	}

	return sb.String(), nil
}

type ScrapeTool struct {
	browser output.BrowserLauncher
	cleaner output.MarkupCleaner
	logger  output.LoggerPort
	timeout time.Duration
}

// NewScrapeTool returns the scrape tool. A nil cleaner makes the clean
// option a no-op.
func NewScrapeTool(browser output.BrowserLauncher, cleaner output.MarkupCleaner, logger output.LoggerPort, timeout time.Duration) *ScrapeTool {
	return &ScrapeTool{browser: browser, cleaner: cleaner, logger: logger, timeout: timeout}
}

func (t *ScrapeTool) Name() entity.ToolName { return entity.ToolPlaywrightScrape }
func (t *ScrapeTool) Description() string {
	return "Opens a URL in a headless browser and returns the text of an element or the page markup"
}
func (t *ScrapeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"format":      "uri",
				"description": "Absolute URL to open",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector whose text content is returned. Without it the full markup is returned",
			},
			"waitFor": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector to wait for before extracting",
			},
			"clean": map[string]interface{}{
				"type":        "boolean",
				"default":     false,
				"description": "Strip scripts, styles and noise attributes from the returned markup",
			},
		},
		"required": []string{"url"},
	}
}

type scrapeInput struct {
	URL      string `json:"url"`
	Selector string `json:"selector"`
	WaitFor  string `json:"waitFor"`
	Clean    bool   `json:"clean"`
}

func (t *ScrapeTool) Execute(ctx context.Context, args string) (*entity.ToolResult, error) {
	var input scrapeInput
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return nil, fmt.Errorf("invalid input format: %w", err)
	}

	log := t.logger.WithField("url", input.URL)
	return runInSession(ctx, t.browser, t.timeout, log, func(ctx context.Context, s output.BrowserSession) (string, error) {
		return scrape(ctx, s, t.cleaner, input)
	}), nil
}

func scrape(ctx context.Context, s output.BrowserSession, cleaner output.MarkupCleaner, input scrapeInput) (string, error) {
	if err := s.Navigate(ctx, input.URL); err != nil {
		return "", err
	}

	if input.WaitFor != "" {
		if err := s.WaitFor(ctx, input.WaitFor); err != nil {
			return "", err
		}
	}

	if input.Selector != "" {
		text, _, err := s.FindTextContent(ctx, input.Selector)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	html, err := s.HTML(ctx)
	if err != nil {
		return "", err
	}
	if input.Clean && cleaner != nil {
		return cleaner.Clean(html), nil
	}
	return html, nil
}
