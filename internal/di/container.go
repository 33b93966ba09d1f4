package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"browser-mcp/internal/adapter/router"
	"browser-mcp/internal/adapter/tool"
	"browser-mcp/internal/application/port/input"
	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/application/service"
	"browser-mcp/internal/application/usecase"
	"browser-mcp/internal/infrastructure/browser/markup"
	"browser-mcp/internal/infrastructure/browser/rod"
	"browser-mcp/internal/infrastructure/logger"
	"browser-mcp/internal/infrastructure/mcpserver"
)

const DefaultShutdownTimeout = 10 * time.Second

type Container struct {
	Browser output.BrowserLauncher
	Logger  output.LoggerPort
	Tools   output.ToolRegistry
	Invoker input.ToolInvoker
	MCP     *mcpserver.ServerAdapter
	Router  http.Handler
}

type Config struct {
	Log     logger.Config
	MCP     mcpserver.Config
	Browser rod.BrowserConfig
	Markup  markup.Config
	// BrowserTimeout bounds one browser tool invocation end to end.
	BrowserTimeout time.Duration
	AccessLog      bool
}

func DefaultConfig() Config {
	return Config{
		Log:            logger.DefaultConfig(),
		MCP:            mcpserver.DefaultConfig(),
		Browser:        rod.DefaultConfig(),
		Markup:         markup.DefaultConfig(),
		BrowserTimeout: 30 * time.Second,
		AccessLog:      true,
	}
}

// LoadConfig reads the server configuration from cfg, falling back to
// DefaultConfig for anything unset.
func LoadConfig(env output.ConfigPort) Config {
	cfg := DefaultConfig()

	cfg.Log.Level = env.GetWithDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = env.GetWithDefault("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = env.Get("LOG_FILE")
	cfg.AccessLog = env.GetBool("ACCESS_LOG", cfg.AccessLog)

	cfg.MCP.Name = env.GetWithDefault("MCP_SERVER_NAME", cfg.MCP.Name)
	cfg.MCP.Version = env.GetWithDefault("MCP_SERVER_VERSION", cfg.MCP.Version)
	cfg.MCP.BaseURL = env.Get("MCP_BASE_URL")

	cfg.Browser.Headless = env.GetBool("BROWSER_HEADLESS", cfg.Browser.Headless)
	cfg.Browser.NoSandbox = env.GetBool("BROWSER_NO_SANDBOX", cfg.Browser.NoSandbox)
	cfg.Browser.Bin = env.Get("BROWSER_BIN")
	cfg.Browser.ScreenshotMaxWidth = env.GetInt("BROWSER_SCREENSHOT_MAX_WIDTH", cfg.Browser.ScreenshotMaxWidth)
	cfg.Browser.ScreenshotQuality = env.GetInt("BROWSER_SCREENSHOT_QUALITY", cfg.Browser.ScreenshotQuality)
	cfg.BrowserTimeout = env.GetDuration("BROWSER_TIMEOUT", cfg.BrowserTimeout)

	cfg.Markup.MaxBytes = env.GetInt("SCRAPE_CLEAN_MAX_BYTES", cfg.Markup.MaxBytes)
	cfg.Markup.KeepTitle = env.GetBool("SCRAPE_CLEAN_KEEP_TITLE", cfg.Markup.KeepTitle)

	return cfg
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Launches stop once ctx ends.
	browser := rod.NewLauncher(ctx, cfg.Browser)
	cleaner := markup.NewCleaner(cfg.Markup)

	tools := service.NewToolRegistry()
	if err := registerTools(tools, browser, cleaner, log, cfg.BrowserTimeout); err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	invoker := usecase.NewInvokeToolUseCase(tools, log)

	mcp, err := mcpserver.NewServerAdapter(cfg.MCP, invoker, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}

	handler := router.NewRouter(router.RouterConfig{
		ServiceName: cfg.MCP.Name,
		JSONLogs:    !strings.EqualFold(cfg.Log.Format, "console"),
		AccessLog:   cfg.AccessLog,
	}, mcp.SSEHandler(), mcp.StreamableHandler())

	return &Container{
		Browser: browser,
		Logger:  log,
		Tools:   tools,
		Invoker: invoker,
		MCP:     mcp,
		Router:  handler,
	}, nil
}

// Close releases transport sessions and flushes the logger.
func (c *Container) Close(ctx context.Context) {
	if c.MCP != nil {
		if err := c.MCP.Shutdown(ctx); err != nil && c.Logger != nil {
			c.Logger.Warn("MCP shutdown failed", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func registerTools(
	registry *service.ToolRegistryImpl,
	browser output.BrowserLauncher,
	cleaner output.MarkupCleaner,
	log output.LoggerPort,
	timeout time.Duration,
) error {
	for _, t := range []output.ToolPort{
		tool.NewAddTool(),
		tool.NewCalculateTool(),
		tool.NewNavigateTool(browser, log.WithField("tool", "playwright_navigate"), timeout),
		tool.NewScrapeTool(browser, cleaner, log.WithField("tool", "playwright_scrape"), timeout),
	} {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}
