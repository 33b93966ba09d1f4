package input

import (
	"context"

	"browser-mcp/internal/domain/entity"
)

type ToolInvoker interface {
	Invoke(ctx context.Context, name entity.ToolName, arguments []byte) (*entity.ToolResult, error)
	Definitions() []entity.ToolDefinition
}
