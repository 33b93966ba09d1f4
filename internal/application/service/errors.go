package service

import (
	"errors"
	"fmt"
	"strings"

	"browser-mcp/internal/domain/entity"
)

var (
	ErrToolNotFound  = errors.New("tool not found")
	ErrDuplicateTool = errors.New("tool already registered")
)

type FieldError struct {
	Field       string
	Description string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Description)
}

// InvalidInputError is returned when tool arguments do not match the tool's schema.
type InvalidInputError struct {
	Tool   entity.ToolName
	Fields []FieldError
}

func (e *InvalidInputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("invalid input for tool %s: %s", e.Tool, strings.Join(parts, "; "))
}

// FieldNames returns the offending field paths in report order.
func (e *InvalidInputError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}
