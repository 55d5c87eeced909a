// Package decision provides the branching node whose result port is the
// usual source for conditional routes.
package decision

import (
	"context"
	"fmt"

	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/models"
)

const (
	InputPortMain    = "input"
	OutputPortResult = "result"
	OutputPortInput  = "input"
)

// DecisionNode evaluates its input against configured cases and emits the
// matched outcome on the result port, passing the original input through.
type DecisionNode struct {
	models.BaseNode

	cases        map[string]any
	defaultValue any
	hasDefault   bool
}

// NewDecisionNode creates a decision node from its configuration.
func NewDecisionNode(id string, config map[string]any) (*DecisionNode, error) {
	name := "Decision"
	if n, ok := config["name"].(string); ok && n != "" {
		name = n
	}

	cases, _ := config["cases"].(map[string]any)
	defaultValue, hasDefault := config["default"]

	node := &DecisionNode{
		BaseNode:     models.NewBaseNode(id, name, "Makes a decision based on input"),
		cases:        cases,
		defaultValue: defaultValue,
		hasDefault:   hasDefault,
	}

	node.AddInputPort(InputPortMain, "Decision input", true)
	node.AddOutputPort(OutputPortResult, "Decision result")
	node.AddOutputPort(OutputPortInput, "Pass-through of the input data")

	return node, nil
}

// Execute evaluates the input and returns both the decision result and the
// original input, so downstream routes can branch on the result while the
// data keeps flowing.
func (n *DecisionNode) Execute(ctx context.Context, inputs map[string]any, state *execution.Context) (map[string]any, error) {
	inputValue, ok := inputs[InputPortMain]
	if !ok || inputValue == nil {
		if fallback, found := state.Variable("input_data"); found {
			inputValue = fallback
		} else {
			inputValue = ""
		}
	}

	return map[string]any{
		OutputPortResult: n.evaluate(inputValue),
		OutputPortInput:  inputValue,
	}, nil
}

// evaluate maps the input to an outcome: a matching case wins, then the
// configured default, then the input itself.
func (n *DecisionNode) evaluate(inputValue any) any {
	if len(n.cases) > 0 {
		key := fmt.Sprintf("%v", inputValue)
		if outcome, matched := n.cases[key]; matched {
			return outcome
		}
	}

	if n.hasDefault {
		return n.defaultValue
	}

	return inputValue
}
