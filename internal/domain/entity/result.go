package entity

import "strings"

const ContentTypeText = "text"

// ErrorPrefix marks a result that carries an execution failure instead of a value.
const ErrorPrefix = "Error: "

type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the payload returned by every tool. Content is never empty.
type ToolResult struct {
	Content []ContentItem `json:"content"`
}

func TextResult(text string) *ToolResult {
	return &ToolResult{
		Content: []ContentItem{{Type: ContentTypeText, Text: text}},
	}
}

// ErrorResult folds an execution error into a successful result whose text
// starts with ErrorPrefix. Callers detect failure by inspecting the text.
func ErrorResult(err error) *ToolResult {
	if err == nil {
		return TextResult(ErrorPrefix + "unknown error")
	}
	return TextResult(ErrorPrefix + err.Error())
}

// Text joins the text of all content items.
func (r *ToolResult) Text() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, item := range r.Content {
		sb.WriteString(item.Text)
	}
	return sb.String()
}

func (r *ToolResult) IsError() bool {
	return strings.HasPrefix(r.Text(), ErrorPrefix)
}
