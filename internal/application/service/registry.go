package service

import (
	"context"
	"fmt"
	"sort"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"

	"github.com/xeipuuv/gojsonschema"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

type registeredTool struct {
	tool   output.ToolPort
	schema *gojsonschema.Schema
}

// ToolRegistryImpl is filled once at startup and read-only afterwards, so it
// is safe for concurrent Invoke calls without locking.
type ToolRegistryImpl struct {
	tools map[entity.ToolName]registeredTool
}

func NewToolRegistry() *ToolRegistryImpl {
	return &ToolRegistryImpl{
		tools: make(map[entity.ToolName]registeredTool),
	}
}

func (r *ToolRegistryImpl) Register(tool output.ToolPort) error {
	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(tool.Parameters()))
	if err != nil {
		return fmt.Errorf("compile schema for %s: %w", name, err)
	}

	r.tools[name] = registeredTool{tool: tool, schema: schema}
	return nil
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (output.ToolPort, bool) {
	rt, ok := r.tools[name]
	return rt.tool, ok
}

func (r *ToolRegistryImpl) All() []output.ToolPort {
	result := make([]output.ToolPort, 0, len(r.tools))
	for _, name := range r.sortedNames() {
		result = append(result, r.tools[name].tool)
	}
	return result
}

func (r *ToolRegistryImpl) Definitions() []entity.ToolDefinition {
	result := make([]entity.ToolDefinition, 0, len(r.tools))
	for _, name := range r.sortedNames() {
		tool := r.tools[name].tool
		result = append(result, entity.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return result
}

// Invoke validates arguments against the tool's schema and runs the tool.
// Empty arguments are treated as an empty object.
func (r *ToolRegistryImpl) Invoke(ctx context.Context, name entity.ToolName, arguments []byte) (*entity.ToolResult, error) {
	rt, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	if len(arguments) == 0 {
		arguments = []byte("{}")
	}

	if err := validate(name, rt.schema, arguments); err != nil {
		return nil, err
	}

	result, err := rt.tool.Execute(ctx, string(arguments))
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	if result == nil || len(result.Content) == 0 {
		result = entity.TextResult("")
	}
	return result, nil
}

func (r *ToolRegistryImpl) sortedNames() []entity.ToolName {
	names := make([]entity.ToolName, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func validate(name entity.ToolName, schema *gojsonschema.Schema, arguments []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(arguments))
	if err != nil {
		return &InvalidInputError{
			Tool:   name,
			Fields: []FieldError{{Field: "(root)", Description: err.Error()}},
		}
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		field := e.Field()
		// required errors are reported on the parent object
		if e.Type() == "required" {
			if prop, ok := e.Details()["property"].(string); ok {
				field = prop
			}
		}
		fields = append(fields, FieldError{Field: field, Description: e.Description()})
	}
	return &InvalidInputError{Tool: name, Fields: fields}
}
