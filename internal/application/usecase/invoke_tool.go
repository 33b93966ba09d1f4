package usecase

import (
	"context"
	"errors"
	"time"

	"browser-mcp/internal/application/port/input"
	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/application/service"
	"browser-mcp/internal/domain/entity"
)

const maxLoggedResultLen = 512

var _ input.ToolInvoker = (*InvokeToolUseCase)(nil)

type InvokeToolUseCase struct {
	tools  output.ToolRegistry
	logger output.LoggerPort
}

func NewInvokeToolUseCase(tools output.ToolRegistry, logger output.LoggerPort) *InvokeToolUseCase {
	return &InvokeToolUseCase{
		tools:  tools,
		logger: logger,
	}
}

func (uc *InvokeToolUseCase) Definitions() []entity.ToolDefinition {
	return uc.tools.Definitions()
}

func (uc *InvokeToolUseCase) Invoke(ctx context.Context, name entity.ToolName, arguments []byte) (*entity.ToolResult, error) {
	log := uc.logger.WithField("tool", name.String())
	start := time.Now()

	log.Debug("Executing tool", "args", string(arguments))

	result, err := uc.tools.Invoke(ctx, name, arguments)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		var invalid *service.InvalidInputError
		switch {
		case errors.As(err, &invalid):
			log.Warn("Tool input rejected", "fields", invalid.FieldNames(), "duration_ms", duration)
		case errors.Is(err, service.ErrToolNotFound):
			log.Warn("Unknown tool called", "duration_ms", duration)
		default:
			log.Error("Tool execution failed", "error", err, "duration_ms", duration)
		}
		return nil, err
	}

	text := result.Text()
	if result.IsError() {
		log.Warn("Tool reported error", "result", truncate(text), "duration_ms", duration)
	} else {
		log.Info("Tool completed", "resultLen", len(text), "duration_ms", duration)
	}
	return result, nil
}

func truncate(s string) string {
	if len(s) > maxLoggedResultLen {
		return s[:maxLoggedResultLen] + "... (truncated)"
	}
	return s
}
