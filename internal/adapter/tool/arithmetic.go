package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"
)

// DivideByZeroMessage is returned as a regular result, not as a protocol error.
const DivideByZeroMessage = "Error: Cannot divide by zero"

var (
	_ output.ToolPort = (*AddTool)(nil)
	_ output.ToolPort = (*CalculateTool)(nil)
)

type AddTool struct{}

func NewAddTool() *AddTool {
	return &AddTool{}
}

func (t *AddTool) Name() entity.ToolName { return entity.ToolAdd }
func (t *AddTool) Description() string   { return "Adds two numbers" }
func (t *AddTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"a": map[string]interface{}{
				"type":        "number",
				"description": "First addend",
			},
			"b": map[string]interface{}{
				"type":        "number",
				"description": "Second addend",
			},
		},
		"required": []string{"a", "b"},
	}
}

func (t *AddTool) Execute(ctx context.Context, args string) (*entity.ToolResult, error) {
	var input struct {
		A float64 `json:"a"`
		B float64 `json:"b"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return nil, fmt.Errorf("invalid input format: %w", err)
	}
	return entity.TextResult(FormatNumber(input.A + input.B)), nil
}

type CalculateTool struct{}

func NewCalculateTool() *CalculateTool {
	return &CalculateTool{}
}

func (t *CalculateTool) Name() entity.ToolName { return entity.ToolCalculate }
func (t *CalculateTool) Description() string {
	return "Performs add, subtract, multiply or divide on two numbers"
}
func (t *CalculateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"operation": map[string]interface{}{
				"type":        "string",
				"enum":        entity.Operations(),
				"description": "Arithmetic operation to perform",
			},
			"a": map[string]interface{}{
				"type":        "number",
				"description": "Left operand",
			},
			"b": map[string]interface{}{
				"type":        "number",
				"description": "Right operand",
			},
		},
		"required": []string{"operation", "a", "b"},
	}
}

func (t *CalculateTool) Execute(ctx context.Context, args string) (*entity.ToolResult, error) {
	var input struct {
		Operation entity.Operation `json:"operation"`
		A         float64          `json:"a"`
		B         float64          `json:"b"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return nil, fmt.Errorf("invalid input format: %w", err)
	}

	var result float64
	switch input.Operation {
	case entity.OperationAdd:
		result = input.A + input.B
	case entity.OperationSubtract:
		result = input.A - input.B
	case entity.OperationMultiply:
		result = input.A * input.B
	case entity.OperationDivide:
		if input.B == 0 {
			return entity.TextResult(DivideByZeroMessage), nil
		}
		result = input.A / input.B
	default:
		return nil, fmt.Errorf("unknown operation: %q", input.Operation)
	}

	return entity.TextResult(FormatNumber(result)), nil
}
