package app

import (
	"fmt"
	"strings"

	"github.com/blues/jsonata-go"
)

// QueryOutputs evaluates a JSONata expression over a result's outputs,
// shaped as {name: value}. It backs run --query.
func QueryOutputs(result *ExecutionResult, expression string) (any, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("query expression is empty")
	}
	expr, err := jsonata.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expression, err)
	}
	// Outputs hold json.Number; jsonata-go works on float64.
	doc, err := NormalizeJSON(OutputsMap(result.Outputs))
	if err != nil {
		return nil, fmt.Errorf("query input: %w", err)
	}
	v, err := expr.Eval(doc)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expression, err)
	}
	return v, nil
}
