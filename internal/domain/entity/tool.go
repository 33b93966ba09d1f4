package entity

type ToolName string

const (
	ToolAdd                ToolName = "add"
	ToolCalculate          ToolName = "calculate"
	ToolPlaywrightNavigate ToolName = "playwright_navigate"
	ToolPlaywrightScrape   ToolName = "playwright_scrape"
)

func (t ToolName) String() string {
	return string(t)
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  map[string]interface{}
}

// Operation is the arithmetic operation accepted by the calculate tool.
type Operation string

const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
	OperationMultiply Operation = "multiply"
	OperationDivide   Operation = "divide"
)

func Operations() []string {
	return []string{
		string(OperationAdd),
		string(OperationSubtract),
		string(OperationMultiply),
		string(OperationDivide),
	}
}
