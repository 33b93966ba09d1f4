package output

import (
	"context"

	"browser-mcp/internal/domain/entity"
)

type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, arguments string) (*entity.ToolResult, error)
}

type ToolRegistry interface {
	Register(tool ToolPort) error
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
	Invoke(ctx context.Context, name entity.ToolName, arguments []byte) (*entity.ToolResult, error)
}
